package models

import "time"

type Subject struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Slug       string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	GradeLevel string `gorm:"size:50" json:"gradeLevel,omitempty"`
	Category   string `gorm:"size:50;index" json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
