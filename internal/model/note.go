package model

import "time"

// Note is free-form text, optionally filed under a category.
type Note struct {
	ID         uint `gorm:"primaryKey"`
	Title      string
	Content    string    `gorm:"type:text"`
	CategoryID *uint     `gorm:"index"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}
