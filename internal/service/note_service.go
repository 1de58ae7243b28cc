package service

import (
	"context"
	"strings"
	"time"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

// NoteInput represents data required to create or update a note.
// Content is a pointer: an empty body is a valid note, an absent one is not.
type NoteInput struct {
	Title      string
	Content    *string
	CategoryID *uint
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return required("title")
	}
	if in.Content == nil {
		return required("content")
	}
	return nil
}

// NoteService mirrors TaskService for notes.
type NoteService struct {
	store repository.Store
	now   func() time.Time
}

func NewNoteService(store repository.Store) *NoteService {
	return &NoteService{store: store, now: utcNow}
}

func (s *NoteService) List(ctx context.Context) ([]model.Note, error) {
	return s.store.Notes().FindAll(ctx)
}

func (s *NoteService) ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.Note], error) {
	return s.store.Notes().FindPage(ctx, req)
}

func (s *NoteService) Get(ctx context.Context, id uint) (*model.Note, error) {
	note, err := s.store.Notes().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "note", id)
	}
	return note, nil
}

func (s *NoteService) Create(ctx context.Context, input NoteInput) (*model.Note, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	note := model.Note{
		Title:      strings.TrimSpace(input.Title),
		Content:    *input.Content,
		CategoryID: input.CategoryID,
		CreatedAt:  s.now(),
	}

	var saved *model.Note
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategoryRef(ctx, tx.Categories(), input.CategoryID); err != nil {
			return err
		}
		if err := tx.Notes().Save(ctx, &note); err != nil {
			return refError(err, input.CategoryID)
		}
		var err error
		saved, err = tx.Notes().FindByID(ctx, note.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Update overwrites title, content and category. A nil CategoryID leaves the note uncategorized.
func (s *NoteService) Update(ctx context.Context, id uint, input NoteInput) (*model.Note, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var saved *model.Note
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		note, err := tx.Notes().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "note", id)
		}
		if err := requireCategoryRef(ctx, tx.Categories(), input.CategoryID); err != nil {
			return err
		}

		note.Title = strings.TrimSpace(input.Title)
		note.Content = *input.Content
		note.CategoryID = input.CategoryID
		note.Category = nil

		if err := tx.Notes().Save(ctx, note); err != nil {
			return refError(err, input.CategoryID)
		}
		saved, err = tx.Notes().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *NoteService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Notes().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "note", ID: id}
		}
		return notFound(tx.Notes().DeleteByID(ctx, id), "note", id)
	})
}
