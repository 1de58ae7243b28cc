package repository

import (
	"gorm.io/gorm"

	"productivity-tracker/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	records[model.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{records[model.User]{db: db, name: "user"}}
}
