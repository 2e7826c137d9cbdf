package service

import (
	"context"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error) {
	args := m.Called(ctx, id, specialistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Complete(ctx context.Context, id int64, transcript []domain.TranscriptEntry, summary string) (*domain.Session, error) {
	args := m.Called(ctx, id, transcript, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockMatcher mocks SymptomMatcher
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(ctx context.Context, symptoms string) []domain.MatchResult {
	args := m.Called(ctx, symptoms)
	return args.Get(0).([]domain.MatchResult)
}

// MockSummarizer mocks TranscriptSummarizer
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, transcript []domain.TranscriptEntry) string {
	args := m.Called(ctx, transcript)
	return args.String(0)
}

// MockPublisher mocks EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, t events.Type, session *domain.Session) {
	m.Called(ctx, t, session)
}

// MockRenderer mocks ReportRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(session *domain.Session) ([]byte, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
