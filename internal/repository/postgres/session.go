package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, symptoms, matched_specialists, selected_specialist_id,
	status, transcript, summary, created_at, updated_at`

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session and fills its generated id and timestamps
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	matched, err := json.Marshal(session.MatchedSpecialists)
	if err != nil {
		return fmt.Errorf("failed to marshal matched specialists: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, symptoms, matched_specialists, selected_specialist_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		session.UserID,
		session.Symptoms,
		matched,
		session.SelectedSpecialistID,
		string(session.Status),
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListByUser returns a user's sessions, newest first. limit <= 0 returns all.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.db.Pool.Query(ctx, query, userID, limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// SelectSpecialist moves a pending session to active. Returns nil, nil when
// the session is missing or no longer pending.
func (r *SessionRepository) SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error) {
	query := `
		UPDATE sessions
		SET selected_specialist_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.Pool.QueryRow(ctx, query,
		id, specialistID, string(domain.StatusActive), string(domain.StatusPending),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select specialist: %w", err)
	}
	return s, nil
}

// Complete stores the transcript and summary of an active session
func (r *SessionRepository) Complete(ctx context.Context, id int64, transcript []domain.TranscriptEntry, summary string) (*domain.Session, error) {
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}

	query := `
		UPDATE sessions
		SET transcript = $2, summary = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.Pool.QueryRow(ctx, query,
		id, transcriptJSON, summary, string(domain.StatusCompleted), string(domain.StatusActive),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	return s, nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	var matchedJSON, transcriptJSON []byte
	var status string

	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Symptoms,
		&matchedJSON,
		&s.SelectedSpecialistID,
		&status,
		&transcriptJSON,
		&s.Summary,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Status = domain.SessionStatus(status)

	if len(matchedJSON) > 0 {
		if err := json.Unmarshal(matchedJSON, &s.MatchedSpecialists); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched specialists: %w", err)
		}
	}
	if len(transcriptJSON) > 0 {
		if err := json.Unmarshal(transcriptJSON, &s.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
	}

	return &s, nil
}
