package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 5
	MaxCommentLength = 500
)

// ValidateInput checks rating and comment bounds. The comment is measured in
// characters after trimming surrounding whitespace.
func ValidateInput(rating int, comment string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", httperr.Validation("invalid_rating", fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}

	comment = strings.TrimSpace(comment)
	n := utf8.RuneCountInString(comment)
	if n < MinCommentLength || n > MaxCommentLength {
		return "", httperr.Validation(
			"invalid_comment",
			fmt.Sprintf("comment must be between %d and %d characters", MinCommentLength, MaxCommentLength),
		)
	}

	return comment, nil
}

// CheckEligibility enforces who may review what: only the booking's own
// student, only once the session is completed and paid, and only once.
func CheckEligibility(b *models.Booking, studentID uint, alreadyReviewed bool) error {
	if b.StudentID != studentID {
		return httperr.NotEligible("not_booking_student", "you can only review your own sessions")
	}
	if booking.Status(b.Status) != booking.StatusCompleted || booking.PaymentStatus(b.PaymentStatus) != booking.PaymentPaid {
		return httperr.NotEligible("booking_not_reviewable", "only completed and paid sessions can be reviewed")
	}
	if alreadyReviewed {
		return httperr.DuplicateReview("this session has already been reviewed")
	}
	return nil
}
