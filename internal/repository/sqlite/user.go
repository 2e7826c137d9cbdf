package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
)

// UserRepository implements domain.UserRepository over SQLite
type UserRepository struct {
	db  *DB
	now func() time.Time
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := r.now().UTC()
	query := `
		INSERT INTO users (name, age, email, credits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`

	var age sql.NullInt64
	if user.Age != nil {
		age = sql.NullInt64{Int64: int64(*user.Age), Valid: true}
	}

	err := r.db.SQL.QueryRowContext(ctx, query,
		user.Name,
		age,
		user.Email,
		user.Credits,
		formatTime(now),
		formatTime(now),
	).Scan(&user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, age, email, credits, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	var (
		user      domain.User
		age       sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := r.db.SQL.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&age,
		&user.Email,
		&user.Credits,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if age.Valid {
		a := int(age.Int64)
		user.Age = &a
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &user, nil
}
