package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/events"
	"github.com/rs/zerolog/log"
)

// SymptomMatcher ranks specialists for free-text symptoms. It never fails.
type SymptomMatcher interface {
	Match(ctx context.Context, symptoms string) []domain.MatchResult
}

// TranscriptSummarizer produces a report or a sentinel string. It never fails.
type TranscriptSummarizer interface {
	Summarize(ctx context.Context, transcript []domain.TranscriptEntry) string
}

// EventPublisher announces session transitions
type EventPublisher interface {
	Publish(ctx context.Context, t events.Type, session *domain.Session)
}

// SessionService owns the consultation lifecycle: pending -> active -> completed
type SessionService struct {
	sessions   domain.SessionRepository
	users      domain.UserRepository
	matcher    SymptomMatcher
	summarizer TranscriptSummarizer
	publisher  EventPublisher
}

// NewSessionService creates a new session service. publisher may be nil.
func NewSessionService(
	sessions domain.SessionRepository,
	users domain.UserRepository,
	matcher SymptomMatcher,
	summarizer TranscriptSummarizer,
	publisher EventPublisher,
) *SessionService {
	if publisher == nil {
		publisher = events.Noop()
	}
	return &SessionService{
		sessions:   sessions,
		users:      users,
		matcher:    matcher,
		summarizer: summarizer,
		publisher:  publisher,
	}
}

// Create matches the symptoms and stores a pending session. An unknown or
// empty ownerEmail leaves the session anonymous.
func (s *SessionService) Create(ctx context.Context, symptoms, ownerEmail string) (*domain.Session, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return nil, domain.ErrEmptySymptoms
	}

	session := &domain.Session{
		Symptoms: symptoms,
		Status:   domain.StatusPending,
	}

	if ownerEmail != "" {
		owner, err := s.users.GetByEmail(ctx, ownerEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session owner: %w", err)
		}
		if owner != nil {
			session.UserID = &owner.ID
		}
	}

	session.MatchedSpecialists = s.matcher.Match(ctx, symptoms)

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Int64("session_id", session.ID).
		Int("matches", len(session.MatchedSpecialists)).
		Msg("Session created")

	s.publisher.Publish(ctx, events.SessionCreated, session)
	return session, nil
}

// Get returns a session or ErrSessionNotFound
func (s *SessionService) Get(ctx context.Context, id int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SelectSpecialist activates a pending session with one of its matched
// specialists. Re-selecting the same specialist is a no-op.
func (s *SessionService) SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !session.HasMatch(specialistID) {
		return nil, domain.ErrSpecialistNotMatched
	}

	switch session.Status {
	case domain.StatusCompleted:
		return nil, domain.ErrSessionCompleted
	case domain.StatusActive:
		return sameSelection(session, specialistID)
	}

	updated, err := s.sessions.SelectSpecialist(ctx, id, specialistID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// lost a race with another writer
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == domain.StatusActive {
			return sameSelection(current, specialistID)
		}
		return nil, domain.ErrSessionCompleted
	}

	log.Info().
		Int64("session_id", id).
		Int("specialist_id", specialistID).
		Msg("Specialist selected")

	s.publisher.Publish(ctx, events.SessionSpecialistSelected, updated)
	return updated, nil
}

func sameSelection(session *domain.Session, specialistID int) (*domain.Session, error) {
	if session.SelectedSpecialistID != nil && *session.SelectedSpecialistID == specialistID {
		return session, nil
	}
	return nil, domain.ErrSpecialistAlreadySelected
}

// Finalize summarizes the transcript and completes an active session.
// Summarization is not cancelled when ctx is.
func (s *SessionService) Finalize(ctx context.Context, id int64, transcript []domain.TranscriptEntry) (*domain.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status != domain.StatusActive {
		return nil, domain.ErrSessionNotActive
	}

	for _, entry := range transcript {
		if !entry.Role.Valid() {
			return nil, domain.ErrInvalidTranscript
		}
	}
	if transcript == nil {
		transcript = []domain.TranscriptEntry{}
	}

	summary := s.summarizer.Summarize(context.WithoutCancel(ctx), transcript)

	updated, err := s.sessions.Complete(context.WithoutCancel(ctx), id, transcript, summary)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrSessionNotActive
	}

	log.Info().
		Int64("session_id", id).
		Int("messages", len(transcript)).
		Msg("Session completed")

	s.publisher.Publish(ctx, events.SessionCompleted, updated)
	return updated, nil
}

// History lists the sessions owned by email, newest first
func (s *SessionService) History(ctx context.Context, email string, limit int) ([]domain.Session, error) {
	if email == "" {
		return nil, domain.ErrMissingEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return s.sessions.ListByUser(ctx, user.ID, limit)
}
