package model

import "time"

// Task represents a single to-do item, optionally filed under a category.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Description string
	Completed   bool `gorm:"default:false"`
	DueDate     time.Time
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
