package model

import "time"

// Category groups tasks and notes by area (work, health, study, etc.).
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	UserID    *uint  `gorm:"uniqueIndex"`
	User      *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
