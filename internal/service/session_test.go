package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sessionMocks struct {
	sessions   *MockSessionRepository
	users      *MockUserRepository
	matcher    *MockMatcher
	summarizer *MockSummarizer
	publisher  *MockPublisher
}

func newSessionService() (*SessionService, *sessionMocks) {
	m := &sessionMocks{
		sessions:   new(MockSessionRepository),
		users:      new(MockUserRepository),
		matcher:    new(MockMatcher),
		summarizer: new(MockSummarizer),
		publisher:  new(MockPublisher),
	}
	return NewSessionService(m.sessions, m.users, m.matcher, m.summarizer, m.publisher), m
}

func intPtr(v int) *int { return &v }

var neuroMatch = []domain.MatchResult{
	{SpecialistID: 7, Specialist: "Neurologist", MatchScore: 95, Reasoning: "Matched based on symptoms: headache"},
	{SpecialistID: 8, Specialist: "ENT Specialist", MatchScore: 80, Reasoning: "Matched based on symptoms: ear"},
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		svc, m := newSessionService()
		m.matcher.On("Match", ctx, "headache").Return(neuroMatch)
		m.sessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Session).ID = 11 }).
			Return(nil)
		m.publisher.On("Publish", ctx, events.SessionCreated, mock.AnythingOfType("*domain.Session")).Return()

		session, err := svc.Create(ctx, "  headache \n", "")
		require.NoError(t, err)

		assert.Equal(t, int64(11), session.ID)
		assert.Equal(t, "headache", session.Symptoms)
		assert.Equal(t, domain.StatusPending, session.Status)
		assert.Nil(t, session.UserID)
		assert.Equal(t, neuroMatch, session.MatchedSpecialists)
		m.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		m.publisher.AssertExpectations(t)
	})

	t.Run("known owner", func(t *testing.T) {
		svc, m := newSessionService()
		m.users.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{ID: 3, Email: "ana@example.com"}, nil)
		m.matcher.On("Match", ctx, "rash").Return(neuroMatch)
		m.sessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)
		m.publisher.On("Publish", ctx, events.SessionCreated, mock.Anything).Return()

		session, err := svc.Create(ctx, "rash", "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, session.UserID)
		assert.Equal(t, int64(3), *session.UserID)
	})

	t.Run("unknown owner stays anonymous", func(t *testing.T) {
		svc, m := newSessionService()
		m.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)
		m.matcher.On("Match", ctx, "rash").Return(neuroMatch)
		m.sessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)
		m.publisher.On("Publish", ctx, events.SessionCreated, mock.Anything).Return()

		session, err := svc.Create(ctx, "rash", "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, session.UserID)
	})

	t.Run("empty symptoms", func(t *testing.T) {
		svc, m := newSessionService()

		_, err := svc.Create(ctx, "   ", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		m.matcher.AssertNotCalled(t, "Match", mock.Anything, mock.Anything)
		m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, m := newSessionService()
		m.matcher.On("Match", ctx, "rash").Return(neuroMatch)
		m.sessions.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.Create(ctx, "rash", "")
		assert.Error(t, err)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionService_SelectSpecialist(t *testing.T) {
	ctx := context.Background()

	pending := func() *domain.Session {
		return &domain.Session{ID: 1, Status: domain.StatusPending, MatchedSpecialists: neuroMatch}
	}

	t.Run("pending to active", func(t *testing.T) {
		svc, m := newSessionService()
		active := &domain.Session{ID: 1, Status: domain.StatusActive, SelectedSpecialistID: intPtr(7), MatchedSpecialists: neuroMatch}
		m.sessions.On("GetByID", ctx, int64(1)).Return(pending(), nil)
		m.sessions.On("SelectSpecialist", ctx, int64(1), 7).Return(active, nil)
		m.publisher.On("Publish", ctx, events.SessionSpecialistSelected, active).Return()

		got, err := svc.SelectSpecialist(ctx, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, got.Status)
		m.publisher.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(9)).Return(nil, nil)

		_, err := svc.SelectSpecialist(ctx, 9, 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not matched", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(1)).Return(pending(), nil)

		_, err := svc.SelectSpecialist(ctx, 1, 4)
		assert.ErrorIs(t, err, domain.ErrValidation)
		m.sessions.AssertNotCalled(t, "SelectSpecialist", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same specialist is idempotent", func(t *testing.T) {
		svc, m := newSessionService()
		active := &domain.Session{ID: 1, Status: domain.StatusActive, SelectedSpecialistID: intPtr(7), MatchedSpecialists: neuroMatch}
		m.sessions.On("GetByID", ctx, int64(1)).Return(active, nil)

		got, err := svc.SelectSpecialist(ctx, 1, 7)
		require.NoError(t, err)
		assert.Same(t, active, got)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("different specialist conflicts", func(t *testing.T) {
		svc, m := newSessionService()
		active := &domain.Session{ID: 1, Status: domain.StatusActive, SelectedSpecialistID: intPtr(7), MatchedSpecialists: neuroMatch}
		m.sessions.On("GetByID", ctx, int64(1)).Return(active, nil)

		_, err := svc.SelectSpecialist(ctx, 1, 8)
		assert.ErrorIs(t, err, domain.ErrSpecialistAlreadySelected)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("completed", func(t *testing.T) {
		svc, m := newSessionService()
		done := &domain.Session{ID: 1, Status: domain.StatusCompleted, SelectedSpecialistID: intPtr(7), MatchedSpecialists: neuroMatch}
		m.sessions.On("GetByID", ctx, int64(1)).Return(done, nil)

		_, err := svc.SelectSpecialist(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("lost race to a different selection", func(t *testing.T) {
		svc, m := newSessionService()
		winner := &domain.Session{ID: 1, Status: domain.StatusActive, SelectedSpecialistID: intPtr(8), MatchedSpecialists: neuroMatch}
		m.sessions.On("GetByID", ctx, int64(1)).Return(pending(), nil).Once()
		m.sessions.On("SelectSpecialist", ctx, int64(1), 7).Return(nil, nil)
		m.sessions.On("GetByID", ctx, int64(1)).Return(winner, nil).Once()

		_, err := svc.SelectSpecialist(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrSpecialistAlreadySelected)
	})
}

func TestSessionService_Finalize(t *testing.T) {
	ctx := context.Background()
	transcript := []domain.TranscriptEntry{
		{Role: domain.RoleAssistant, Content: "Hello"},
		{Role: domain.RoleUser, Content: "My head hurts"},
	}

	active := func() *domain.Session {
		return &domain.Session{ID: 1, Status: domain.StatusActive, SelectedSpecialistID: intPtr(7)}
	}

	t.Run("completes with summary", func(t *testing.T) {
		svc, m := newSessionService()
		summary := "**Chief Complaint**: headache"
		done := &domain.Session{ID: 1, Status: domain.StatusCompleted, Transcript: transcript, Summary: &summary}
		m.sessions.On("GetByID", ctx, int64(1)).Return(active(), nil)
		m.summarizer.On("Summarize", mock.Anything, transcript).Return(summary)
		m.sessions.On("Complete", mock.Anything, int64(1), transcript, summary).Return(done, nil)
		m.publisher.On("Publish", ctx, events.SessionCompleted, done).Return()

		got, err := svc.Finalize(ctx, 1, transcript)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, summary, *got.Summary)
		m.sessions.AssertExpectations(t)
	})

	t.Run("sentinel summary still completes", func(t *testing.T) {
		svc, m := newSessionService()
		sentinel := "Summary unavailable (API Key missing)."
		done := &domain.Session{ID: 1, Status: domain.StatusCompleted, Summary: &sentinel}
		m.sessions.On("GetByID", ctx, int64(1)).Return(active(), nil)
		m.summarizer.On("Summarize", mock.Anything, transcript).Return(sentinel)
		m.sessions.On("Complete", mock.Anything, int64(1), transcript, sentinel).Return(done, nil)
		m.publisher.On("Publish", ctx, events.SessionCompleted, done).Return()

		got, err := svc.Finalize(ctx, 1, transcript)
		require.NoError(t, err)
		assert.Equal(t, sentinel, *got.Summary)
	})

	t.Run("summarizes even if caller cancelled", func(t *testing.T) {
		svc, m := newSessionService()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		m.sessions.On("GetByID", cctx, int64(1)).Return(active(), nil)
		m.summarizer.On("Summarize", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), transcript).Return("ok")
		m.sessions.On("Complete", mock.Anything, int64(1), transcript, "ok").Return(&domain.Session{ID: 1, Status: domain.StatusCompleted}, nil)
		m.publisher.On("Publish", cctx, events.SessionCompleted, mock.Anything).Return()

		_, err := svc.Finalize(cctx, 1, transcript)
		require.NoError(t, err)
		m.summarizer.AssertExpectations(t)
	})

	t.Run("pending rejected", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(1)).Return(&domain.Session{ID: 1, Status: domain.StatusPending}, nil)

		_, err := svc.Finalize(ctx, 1, transcript)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})

	t.Run("completed rejected", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(1)).Return(&domain.Session{ID: 1, Status: domain.StatusCompleted}, nil)

		_, err := svc.Finalize(ctx, 1, transcript)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(1)).Return(active(), nil)

		_, err := svc.Finalize(ctx, 1, []domain.TranscriptEntry{{Role: "system", Content: "x"}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(5)).Return(nil, nil)

		_, err := svc.Finalize(ctx, 5, transcript)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent completion", func(t *testing.T) {
		svc, m := newSessionService()
		m.sessions.On("GetByID", ctx, int64(1)).Return(active(), nil)
		m.summarizer.On("Summarize", mock.Anything, transcript).Return("s")
		m.sessions.On("Complete", mock.Anything, int64(1), transcript, "s").Return(nil, nil)

		_, err := svc.Finalize(ctx, 1, transcript)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("lists by owner", func(t *testing.T) {
		svc, m := newSessionService()
		m.users.On("GetByEmail", ctx, "ana@example.com").Return(&domain.User{ID: 3}, nil)
		m.sessions.On("ListByUser", ctx, int64(3), 10).Return([]domain.Session{{ID: 2}, {ID: 1}}, nil)

		got, err := svc.History(ctx, "ana@example.com", 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, m := newSessionService()
		m.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

		_, err := svc.History(ctx, "ghost@example.com", 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		svc, _ := newSessionService()

		_, err := svc.History(ctx, "", 10)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestReportService_Render(t *testing.T) {
	ctx := context.Background()
	svc, m := newSessionService()
	renderer := new(MockRenderer)
	reports := NewReportService(svc, renderer)

	done := &domain.Session{ID: 4, Status: domain.StatusCompleted}
	m.sessions.On("GetByID", ctx, int64(4)).Return(done, nil)
	m.sessions.On("GetByID", ctx, int64(5)).Return(nil, nil)
	renderer.On("Render", done).Return([]byte("%PDF-1.4"), nil)

	out, err := reports.Render(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), out)

	_, err = reports.Render(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
