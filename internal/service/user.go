package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/rs/zerolog/log"
)

// UserService bootstraps patient accounts from external identities
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetOrCreate returns the user for email, creating it on first sight
func (s *UserService) GetOrCreate(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrMissingEmail
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultUserName
	}

	user := &domain.User{
		Name:    name,
		Email:   email,
		Credits: domain.DefaultUserCredits,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// created concurrently
			return s.reread(ctx, email)
		}
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Msg("User created")
	return user, nil
}

func (s *UserService) reread(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
