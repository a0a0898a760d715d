package models

import "time"

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'student';index" json:"role"`

	Bio            string `gorm:"type:text" json:"bio"`
	ProfilePicture string `gorm:"size:500" json:"profilePicture,omitempty"`
	Timezone       string `gorm:"size:64" json:"timezone,omitempty"`

	// Tutor-only fields. HourlyRate is nil until the tutor sets it.
	HourlyRate    *float64 `gorm:"type:numeric(10,2)" json:"hourlyRate,omitempty"`
	AverageRating float64  `gorm:"type:numeric(3,2);not null;default:0" json:"averageRating"`
	TotalReviews  int      `gorm:"not null;default:0" json:"totalReviews"`

	Subjects     []Subject          `gorm:"many2many:tutor_subjects;" json:"subjects,omitempty"`
	Availability []AvailabilitySlot `gorm:"foreignKey:TutorID;constraint:OnDelete:CASCADE;" json:"availability,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsTutor() bool {
	return u.Role == RoleTutor
}
