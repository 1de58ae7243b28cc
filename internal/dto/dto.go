// Package dto shapes domain records into client-facing responses.
// Projections are pure: they never touch the store.
package dto

import (
	"time"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

// UserResponse omits the password by construction.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CategoryResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	UserID *uint  `json:"userId,omitempty"`
}

// TaskResponse embeds its category, or null when the task is uncategorized.
type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Completed   bool              `json:"completed"`
	DueDate     time.Time         `json:"dueDate"`
	Category    *CategoryResponse `json:"category"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type NoteResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Category  *CategoryResponse `json:"category"`
	CreatedAt time.Time         `json:"createdAt"`
}

// PageResponse is one page of a listing.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, UserID: c.UserID}
}

func NewTaskResponse(t model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Category:    embedCategory(t.CategoryID, t.Category),
		CreatedAt:   t.CreatedAt,
	}
}

func NewNoteResponse(n model.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Category:  embedCategory(n.CategoryID, n.Category),
		CreatedAt: n.CreatedAt,
	}
}

// embedCategory returns nil unless the reference is set and loaded.
func embedCategory(id *uint, c *model.Category) *CategoryResponse {
	if id == nil || c == nil {
		return nil
	}
	resp := NewCategoryResponse(*c)
	return &resp
}

// List projects every element with fn.
func List[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// NewPageResponse projects a store page.
func NewPageResponse[T, R any](p repository.Page[T], fn func(T) R) PageResponse[R] {
	mapped := repository.MapPage(p, fn)
	return PageResponse[R]{
		Content:       mapped.Items,
		Page:          mapped.Page,
		Size:          mapped.Size,
		TotalElements: mapped.Total,
		TotalPages:    mapped.TotalPages(),
	}
}
