package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StudentID uint  `gorm:"not null;index" json:"studentId"`
	Student   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"student,omitempty"`

	TutorID uint  `gorm:"not null;index:idx_bookings_tutor_date" json:"tutorId"`
	Tutor   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tutor,omitempty"`

	SubjectID uint     `gorm:"not null" json:"subjectId"`
	Subject   *Subject `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"subject,omitempty"`

	// Date, StartTime and EndTime are the wall-clock values the student
	// picked; StartAt and EndAt are the same instants resolved in the
	// tutor's timezone.
	Date      string    `gorm:"size:10;not null;index:idx_bookings_tutor_date" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"startTime"`
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`
	StartAt   time.Time `gorm:"not null;index" json:"startAt"`
	EndAt     time.Time `gorm:"not null" json:"endAt"`
	Duration  float64   `gorm:"type:numeric(3,1);not null" json:"duration"`

	Status        string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus string  `gorm:"size:20;not null;default:'pending'" json:"paymentStatus"`
	Price         float64 `gorm:"type:numeric(10,2);not null" json:"price"`

	PaymentProvider string `gorm:"size:20" json:"paymentProvider,omitempty"`
	PaymentIntentID string `gorm:"size:255;index" json:"paymentIntentId,omitempty"`

	Notes string `gorm:"size:500" json:"notes"`

	CancelledBy *uint      `json:"cancelledBy,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
