package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Service implements user operations over a Repository.
type Service struct {
	repo   Repository
	guard  *integrity.Guard
	events events.Publisher
}

// NewService creates a user service. A nil publisher discards events.
func NewService(repo Repository, guard *integrity.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, guard: guard, events: pub}
}

// Create validates in, hashes the password and stores the user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	normalizeCreate(&in)
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.EntityUser, events.ActionCreated, u.ID, u))
	return u, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx, Filter{})
}

// GetByID returns one user.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// FindByEmail returns the user with the given email, ignoring case.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Update applies p to the stored user. A new password is re-hashed.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	password, err := applyPatch(u, p)
	if err != nil {
		return nil, err
	}
	if password != "" {
		if u.PasswordHash, err = HashPassword(password); err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.EntityUser, events.ActionUpdated, u.ID, u))
	return u, nil
}

// Delete removes a user who owns no devices.
func (s *Service) Delete(ctx context.Context, id string) (*Summary, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	if err := s.guard.CheckUserDelete(ctx, id); err != nil {
		return nil, err
	}

	u, err := s.repo.Delete(ctx, id)
	if errors.Is(err, errOwnsDevices) {
		// A device was assigned after the guard ran.
		if gerr := s.guard.CheckUserDelete(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, &integrity.DependentsExistError{Kind: "devices", Count: 1}
	}
	if err != nil {
		return nil, err
	}

	sum := u.Summary()
	s.events.Publish(ctx, events.New(events.EntityUser, events.ActionDeleted, u.ID, sum))
	return &sum, nil
}
