package domain

import (
	"context"
	"time"
)

// SessionStatus is the lifecycle stage of a consultation
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// Valid reports whether s is a known status
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo allows only pending -> active -> completed
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted
	}
	return false
}

// Session is one consultation from symptom intake to summary
type Session struct {
	ID                   int64             `json:"id"`
	UserID               *int64            `json:"user_id,omitempty"`
	Symptoms             string            `json:"symptoms"`
	MatchedSpecialists   []MatchResult     `json:"matched_specialists"`
	SelectedSpecialistID *int              `json:"selected_specialist_id,omitempty"`
	Status               SessionStatus     `json:"status"`
	Transcript           []TranscriptEntry `json:"transcript,omitempty"`
	Summary              *string           `json:"summary,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// HasMatch reports whether specialistID is part of the offered matches
func (s *Session) HasMatch(specialistID int) bool {
	for _, m := range s.MatchedSpecialists {
		if m.SpecialistID == specialistID {
			return true
		}
	}
	return false
}

// SessionRepository defines the interface for session storage.
// Lookups return nil, nil when the row does not exist; the conditional
// updates return nil, nil when the status guard did not hold.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Session, error)
	SelectSpecialist(ctx context.Context, id int64, specialistID int) (*Session, error)
	Complete(ctx context.Context, id int64, transcript []TranscriptEntry, summary string) (*Session, error)
}
