package models

import "time"

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint  `gorm:"not null;uniqueIndex" json:"bookingId"`
	StudentID uint  `gorm:"not null;index" json:"studentId"`
	Student   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"student,omitempty"`
	TutorID   uint  `gorm:"not null;index" json:"tutorId"`

	Rating  int    `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment string `gorm:"size:500;not null" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
}
