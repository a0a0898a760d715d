package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

type Event string

const (
	EventAccept   Event = "accept"
	EventDecline  Event = "decline"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventExpire   Event = "expire"
)

// Policy holds the tunable guards of the state machine.
type Policy struct {
	// CancellationNotice is how long before the start a student may still
	// cancel a confirmed booking. Zero disables the rule.
	CancellationNotice time.Duration
}

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventAccept:  StatusConfirmed,
		EventDecline: StatusCancelled,
		EventCancel:  StatusCancelled,
		EventExpire:  StatusCancelled,
	},
	StatusConfirmed: {
		EventCancel:   StatusCancelled,
		EventComplete: StatusCompleted,
	},
}

// Next looks up the status reached from `from` on ev.
func Next(from Status, ev Event) (Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", httperr.InvalidTransition(
			"invalid_transition",
			fmt.Sprintf("cannot %s a %s booking", ev, from),
		)
	}
	return to, nil
}

// EventFor maps a requested target status onto the event the actor is
// triggering. A tutor cancelling a pending booking is declining it.
func EventFor(target Status, actor session.Principal, b *models.Booking) (Event, error) {
	switch target {
	case StatusConfirmed:
		return EventAccept, nil
	case StatusCompleted:
		return EventComplete, nil
	case StatusCancelled:
		if _, ok := actor.(session.Tutor); ok && Status(b.Status) == StatusPending {
			return EventDecline, nil
		}
		return EventCancel, nil
	default:
		return "", httperr.Validation("invalid_status", fmt.Sprintf("unsupported status %q", target))
	}
}

func authorize(b *models.Booking, actor session.Principal, ev Event) error {
	switch p := actor.(type) {
	case session.Tutor:
		if p.ID != b.TutorID {
			return httperr.Forbidden("not_participant", "not your booking")
		}
		switch ev {
		case EventAccept, EventDecline, EventCancel, EventComplete:
			return nil
		}
	case session.Student:
		if p.ID != b.StudentID {
			return httperr.Forbidden("not_participant", "not your booking")
		}
		if ev == EventCancel {
			return nil
		}
	case session.System:
		if ev == EventExpire {
			return nil
		}
	}

	return httperr.Forbidden("action_not_allowed", fmt.Sprintf("%s cannot %s this booking", roleOf(actor), ev))
}

func roleOf(p session.Principal) string {
	if p == nil {
		return "anonymous"
	}
	return p.Role()
}

// Apply runs ev on b for actor. On success b carries the new status and
// the matching timestamps; on failure b is left untouched.
func Apply(b *models.Booking, actor session.Principal, ev Event, now time.Time, policy Policy) error {
	if err := authorize(b, actor, ev); err != nil {
		return err
	}

	from := Status(b.Status)
	to, err := Next(from, ev)
	if err != nil {
		return err
	}

	switch ev {
	case EventComplete:
		if now.Before(b.EndAt) {
			return httperr.InvalidTransition("session_not_finished", "a session can only be completed after it ends")
		}
	case EventCancel:
		if _, isStudent := actor.(session.Student); isStudent && from == StatusConfirmed && policy.CancellationNotice > 0 {
			if b.StartAt.Sub(now) < policy.CancellationNotice {
				return httperr.InvalidTransition(
					"cancellation_window_closed",
					fmt.Sprintf("confirmed sessions can be cancelled up to %s before the start", policy.CancellationNotice),
				)
			}
		}
	case EventExpire:
		if now.Before(b.StartAt) {
			return httperr.InvalidTransition("not_expired", "booking has not started yet")
		}
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		t := now
		b.CancelledAt = &t
		if id := actor.UserID(); id != 0 {
			b.CancelledBy = &id
		}
	case StatusCompleted:
		t := now
		b.CompletedAt = &t
	}

	return nil
}

// CheckPayable reports whether actor may pay b right now.
func CheckPayable(b *models.Booking, actor session.Principal) error {
	switch p := actor.(type) {
	case session.Student:
		if p.ID != b.StudentID {
			return httperr.Forbidden("not_participant", "not your booking")
		}
	case session.System:
	default:
		return httperr.Forbidden("action_not_allowed", "only the booking's student can pay")
	}

	if Status(b.Status) == StatusCancelled {
		return httperr.InvalidTransition("booking_cancelled", "cannot pay a cancelled booking")
	}
	if PaymentStatus(b.PaymentStatus) == PaymentPaid {
		return httperr.InvalidTransition("already_paid", "booking is already paid")
	}
	return nil
}

// MarkPaid moves the payment axis to paid. The status axis is not touched.
func MarkPaid(b *models.Booking, actor session.Principal, now time.Time) error {
	if err := CheckPayable(b, actor); err != nil {
		return err
	}

	t := now
	b.PaymentStatus = string(PaymentPaid)
	b.PaidAt = &t
	return nil
}

// IsParticipant reports whether actor may see b.
func IsParticipant(b *models.Booking, actor session.Principal) bool {
	switch p := actor.(type) {
	case session.Student:
		return p.ID == b.StudentID
	case session.Tutor:
		return p.ID == b.TutorID
	case session.Admin, session.System:
		return true
	}
	return false
}
