package service

import (
	"context"
	"testing"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		repo := new(MockUserRepository)
		existing := &domain.User{ID: 1, Email: "ana@example.com", Name: "Ana", Credits: 4}
		repo.On("GetByEmail", ctx, "ana@example.com").Return(existing, nil)

		got, err := NewUserService(repo).GetOrCreate(ctx, "ana@example.com", "Someone Else")
		require.NoError(t, err)
		assert.Same(t, existing, got)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates with defaults", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == domain.DefaultUserName && u.Credits == 10 && u.Email == "new@example.com"
		})).Return(nil)

		got, err := NewUserService(repo).GetOrCreate(ctx, "new@example.com", " ")
		require.NoError(t, err)
		assert.Equal(t, "No Name", got.Name)
		assert.Equal(t, 10, got.Credits)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate race re-reads", func(t *testing.T) {
		repo := new(MockUserRepository)
		winner := &domain.User{ID: 8, Email: "race@example.com"}
		repo.On("GetByEmail", ctx, "race@example.com").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicateEmail)
		repo.On("GetByEmail", ctx, "race@example.com").Return(winner, nil).Once()

		got, err := NewUserService(repo).GetOrCreate(ctx, "race@example.com", "Racer")
		require.NoError(t, err)
		assert.Equal(t, int64(8), got.ID)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := NewUserService(new(MockUserRepository)).GetOrCreate(ctx, "", "x")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
