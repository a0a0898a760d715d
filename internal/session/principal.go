// Package session models the authenticated caller of a request.
//
// A Principal is built once by the auth middleware and handed explicitly to
// the use cases, which branch on its concrete type rather than on role
// strings.
package session

import (
	"fmt"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type Principal interface {
	UserID() uint
	Role() string
	principal()
}

type Student struct{ ID uint }

type Tutor struct{ ID uint }

type Admin struct{ ID uint }

// System is the scheduler acting on its own, e.g. expiring stale bookings.
type System struct{}

func (s Student) UserID() uint { return s.ID }
func (s Student) Role() string { return models.RoleStudent }
func (Student) principal()     {}

func (t Tutor) UserID() uint { return t.ID }
func (t Tutor) Role() string { return models.RoleTutor }
func (Tutor) principal()     {}

func (a Admin) UserID() uint { return a.ID }
func (a Admin) Role() string { return models.RoleAdmin }
func (Admin) principal()     {}

func (System) UserID() uint { return 0 }
func (System) Role() string { return "system" }
func (System) principal()   {}

// FromClaims maps the subject and role of a verified token to a Principal.
func FromClaims(userID uint, role string) (Principal, error) {
	if userID == 0 {
		return nil, fmt.Errorf("session: empty subject")
	}

	switch role {
	case models.RoleStudent:
		return Student{ID: userID}, nil
	case models.RoleTutor:
		return Tutor{ID: userID}, nil
	case models.RoleAdmin:
		return Admin{ID: userID}, nil
	default:
		return nil, fmt.Errorf("session: unknown role %q", role)
	}
}

// ForUser returns the Principal matching a stored user.
func ForUser(u *models.User) (Principal, error) {
	return FromClaims(u.ID, u.Role)
}

// IsSelf reports whether p acts on its own account.
func IsSelf(p Principal, userID uint) bool {
	switch p.(type) {
	case Student, Tutor, Admin:
		return p.UserID() == userID
	}
	return false
}

func IsAdmin(p Principal) bool {
	_, ok := p.(Admin)
	return ok
}
