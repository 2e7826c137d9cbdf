package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Rrens/medical-agent/internal/api/middleware"
	"github.com/Rrens/medical-agent/internal/api/response"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SessionService is the consultation lifecycle used by SessionHandler
type SessionService interface {
	Create(ctx context.Context, symptoms, ownerEmail string) (*domain.Session, error)
	Get(ctx context.Context, id int64) (*domain.Session, error)
	SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error)
	Finalize(ctx context.Context, id int64, transcript []domain.TranscriptEntry) (*domain.Session, error)
	History(ctx context.Context, email string, limit int) ([]domain.Session, error)
}

// ReportService renders a completed session as a PDF
type ReportService interface {
	Render(ctx context.Context, id int64) ([]byte, error)
}

type SessionHandler struct {
	sessions SessionService
	reports  ReportService
}

func NewSessionHandler(sessions SessionService, reports ReportService) *SessionHandler {
	return &SessionHandler{sessions: sessions, reports: reports}
}

type createSessionRequest struct {
	Symptoms string `json:"symptoms" validate:"required,max=4000"`
}

type transcriptEntry struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

type updateSessionRequest struct {
	SelectedSpecialistID *int              `json:"selected_specialist_id" validate:"omitempty,min=1"`
	Status               *string           `json:"status" validate:"omitempty,oneof=active completed"`
	Transcript           []transcriptEntry `json:"transcript" validate:"omitempty,dive"`
}

// Create matches symptoms to specialists and opens a pending session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	owner, _ := middleware.GetUserEmail(r.Context())
	session, err := h.sessions.Create(r.Context(), input.Symptoms, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, map[string]any{
		"session_id":          session.ID,
		"matched_specialists": session.MatchedSpecialists,
	})
}

// List returns the caller's consultations, newest first
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			response.BadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	sessions, err := h.sessions.History(r.Context(), email, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	response.OK(w, sessions)
}

// Get returns a single session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, session)
}

// Update selects a specialist and/or completes the consultation
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var input updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}

	completing := input.Status != nil && domain.SessionStatus(*input.Status) == domain.StatusCompleted
	if input.SelectedSpecialistID == nil && !completing {
		response.BadRequest(w, "selected_specialist_id or status=completed is required")
		return
	}
	if completing && input.Transcript == nil {
		response.BadRequest(w, map[string]string{"transcript": "field is required"})
		return
	}

	var session *domain.Session
	if input.SelectedSpecialistID != nil {
		session, err = h.sessions.SelectSpecialist(r.Context(), id, *input.SelectedSpecialistID)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	if completing {
		transcript := make([]domain.TranscriptEntry, len(input.Transcript))
		for i, e := range input.Transcript {
			transcript[i] = domain.TranscriptEntry{Role: domain.Role(e.Role), Content: e.Content}
		}
		session, err = h.sessions.Finalize(r.Context(), id, transcript)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	response.OK(w, session)
}

// Report streams the PDF summary of a completed session
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	pdf, err := h.reports.Render(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.PDF(w, fmt.Sprintf("consultation-%d.pdf", id), pdf)
}

func sessionID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id")
	}
	return id, nil
}
