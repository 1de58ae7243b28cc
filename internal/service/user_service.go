package service

import (
	"context"
	"strings"

	"github.com/badoux/checkmail"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

// UserInput carries the writable user fields. All three are required.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

func (in UserInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return required("name")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return required("email")
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return &ValidationError{Field: "email", Msg: "has invalid format"}
	}
	if in.Password == "" {
		return required("password")
	}
	return nil
}

func (in UserInput) apply(u *model.User) {
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Password = in.Password
}

// UserService handles account records.
type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.User], error) {
	return s.store.Users().FindPage(ctx, req)
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*model.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	user := &model.User{}
	input.apply(user)
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, input UserInput) (*model.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "user", id)
		}
		input.apply(user)
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. A category the user owned becomes unowned.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Users().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "user", ID: id}
		}
		return notFound(tx.Users().DeleteByID(ctx, id), "user", id)
	})
}
