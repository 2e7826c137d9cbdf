package service

import (
	"context"

	"github.com/Rrens/medical-agent/internal/domain"
)

// ReportRenderer renders a completed session as a document
type ReportRenderer interface {
	Render(session *domain.Session) ([]byte, error)
}

// ReportService serves printable consultation reports
type ReportService struct {
	sessions *SessionService
	renderer ReportRenderer
}

func NewReportService(sessions *SessionService, renderer ReportRenderer) *ReportService {
	return &ReportService{sessions: sessions, renderer: renderer}
}

// Render returns the report for session id
func (s *ReportService) Render(ctx context.Context, id int64) ([]byte, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(session)
}
