package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
)

const sessionColumns = `id, user_id, symptoms, matched_specialists, selected_specialist_id,
	status, transcript, summary, created_at, updated_at`

// SessionRepository implements domain.SessionRepository over SQLite
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	matched, err := json.Marshal(session.MatchedSpecialists)
	if err != nil {
		return fmt.Errorf("failed to marshal matched specialists: %w", err)
	}

	now := r.now().UTC()
	query := `
		INSERT INTO sessions (user_id, symptoms, matched_specialists, selected_specialist_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.SQL.ExecContext(ctx, query,
		nullInt64(session.UserID),
		session.Symptoms,
		string(matched),
		nullInt(session.SelectedSpecialistID),
		string(session.Status),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}

	session.ID = id
	session.CreatedAt = now
	session.UpdatedAt = now
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	s, err := scanSession(r.db.SQL.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.SQL.QueryContext(ctx, query, userID, limit)
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

func (r *SessionRepository) SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error) {
	query := `
		UPDATE sessions
		SET selected_specialist_id = ?, status = ?, updated_at = ?
		WHERE id = ? AND status = ?
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.SQL.QueryRowContext(ctx, query,
		specialistID,
		string(domain.StatusActive),
		formatTime(r.now()),
		id,
		string(domain.StatusPending),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select specialist: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Complete(ctx context.Context, id int64, transcript []domain.TranscriptEntry, summary string) (*domain.Session, error) {
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}

	query := `
		UPDATE sessions
		SET transcript = ?, summary = ?, status = ?, updated_at = ?
		WHERE id = ? AND status = ?
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.SQL.QueryRowContext(ctx, query,
		string(transcriptJSON),
		summary,
		string(domain.StatusCompleted),
		formatTime(r.now()),
		id,
		string(domain.StatusActive),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s              domain.Session
		userID         sql.NullInt64
		selectedID     sql.NullInt64
		matchedJSON    string
		transcriptJSON sql.NullString
		summary        sql.NullString
		status         string
		createdAt      string
		updatedAt      string
	)

	if err := row.Scan(
		&s.ID,
		&userID,
		&s.Symptoms,
		&matchedJSON,
		&selectedID,
		&status,
		&transcriptJSON,
		&summary,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	if userID.Valid {
		id := userID.Int64
		s.UserID = &id
	}
	if selectedID.Valid {
		id := int(selectedID.Int64)
		s.SelectedSpecialistID = &id
	}
	if summary.Valid {
		text := summary.String
		s.Summary = &text
	}

	if matchedJSON != "" {
		if err := json.Unmarshal([]byte(matchedJSON), &s.MatchedSpecialists); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched specialists: %w", err)
		}
	}
	if transcriptJSON.Valid && transcriptJSON.String != "" {
		if err := json.Unmarshal([]byte(transcriptJSON.String), &s.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
	}

	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &s, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
