package dto

import (
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// BookingListDTO is the flattened row shown on student and tutor
// dashboards.
type BookingListDTO struct {
	ID            uint      `json:"id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	StartAt       time.Time `json:"startAt"`
	Duration      float64   `json:"duration"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Price         float64   `json:"price"`
	StudentID     uint      `json:"studentId"`
	StudentName   string    `json:"studentName,omitempty"`
	TutorID       uint      `json:"tutorId"`
	TutorName     string    `json:"tutorName,omitempty"`
	SubjectName   string    `json:"subjectName,omitempty"`
}

func BookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		row := BookingListDTO{
			ID:            b.ID,
			Date:          b.Date,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			StartAt:       b.StartAt,
			Duration:      b.Duration,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			Price:         b.Price,
			StudentID:     b.StudentID,
			TutorID:       b.TutorID,
		}
		if b.Student != nil {
			row.StudentName = b.Student.Name
		}
		if b.Tutor != nil {
			row.TutorName = b.Tutor.Name
		}
		if b.Subject != nil {
			row.SubjectName = b.Subject.Name
		}
		out = append(out, row)
	}
	return out
}
