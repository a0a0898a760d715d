package models

import "time"

// AvailabilitySlot is one recurring weekly window. Weekday follows
// time.Weekday (0 = Sunday). Times are "HH:MM" in the tutor's timezone.
type AvailabilitySlot struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	TutorID uint `gorm:"not null;index:idx_availability_tutor_weekday" json:"tutorId"`

	Weekday   int    `gorm:"not null;index:idx_availability_tutor_weekday;check:weekday BETWEEN 0 AND 6" json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
