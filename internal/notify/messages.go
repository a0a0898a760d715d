package notify

import (
	"fmt"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

func sessionLine(b *models.Booking) string {
	subject := "a session"
	if b.Subject != nil {
		subject = b.Subject.Name
	}
	return fmt.Sprintf("%s on %s, %s-%s", subject, b.Date, b.StartTime, b.EndTime)
}

func email(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func name(u *models.User, fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}

// BookingRequested tells the tutor a student asked for a session.
func BookingRequested(b *models.Booking) Message {
	return Message{
		To:      email(b.Tutor),
		Subject: "New booking request",
		Body: fmt.Sprintf(
			"%s requested %s (%.1fh, %.2f).\nAccept or decline it from your dashboard.",
			name(b.Student, "A student"), sessionLine(b), b.Duration, b.Price,
		),
	}
}

// StatusChanged tells the other participant about a new status.
func StatusChanged(b *models.Booking, actorID uint) Message {
	to := b.Student
	if actorID == b.StudentID {
		to = b.Tutor
	}
	return Message{
		To:      email(to),
		Subject: fmt.Sprintf("Booking %s", b.Status),
		Body:    fmt.Sprintf("Your booking for %s is now %s.", sessionLine(b), b.Status),
	}
}

func PaymentReceived(b *models.Booking) Message {
	return Message{
		To:      email(b.Tutor),
		Subject: "Booking paid",
		Body:    fmt.Sprintf("%s paid %.2f for %s.", name(b.Student, "Your student"), b.Price, sessionLine(b)),
	}
}

func ReviewPosted(tutor *models.User, r *models.Review) Message {
	return Message{
		To:      email(tutor),
		Subject: "You received a new review",
		Body:    fmt.Sprintf("Rating: %d/5\n\n%s", r.Rating, r.Comment),
	}
}
