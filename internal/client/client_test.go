package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/medical-agent/internal/api/response"
	"github.com/Rrens/medical-agent/internal/client"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateAndSelect(t *testing.T) {
	var gotAuth string
	var patch map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/sessions":
			response.Created(w, map[string]any{
				"session_id": 12,
				"matched_specialists": []domain.MatchResult{
					{SpecialistID: 7, Specialist: "Neurologist", MatchScore: 95},
				},
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/sessions/12":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			id := 7
			response.OK(w, domain.Session{ID: 12, Status: domain.StatusActive, SelectedSpecialistID: &id})
		default:
			response.NotFound(w, "no route")
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL+"/api/v1/", client.WithToken("tok"))

	created, err := c.CreateSession(context.Background(), "bad headache")
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.SessionID)
	require.Len(t, created.MatchedSpecialists, 1)
	assert.Equal(t, "Bearer tok", gotAuth)

	session, err := c.SelectSpecialist(context.Background(), created.SessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, session.Status)
	assert.Equal(t, float64(7), patch["selected_specialist_id"])
}

func TestClient_Finalize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status     string                   `json:"status"`
			Transcript []domain.TranscriptEntry `json:"transcript"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body.Status)
		summary := "## Chief Complaint"
		response.OK(w, domain.Session{ID: 3, Status: domain.StatusCompleted, Transcript: body.Transcript, Summary: &summary})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	session, err := c.Finalize(context.Background(), 3, []domain.TranscriptEntry{{Role: domain.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, session.Status)
	require.NotNil(t, session.Summary)
	assert.Len(t, session.Transcript, 1)
}

func TestClient_MapsErrors(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, status, "session not found")
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	_, err := c.GetSession(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "session not found", apiErr.Message)

	status = http.StatusConflict
	_, err = c.SelectSpecialist(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	status = http.StatusBadRequest
	_, err = c.Finalize(context.Background(), 1, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	status = http.StatusInternalServerError
	_, err = c.GetSession(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_LocalValidation(t *testing.T) {
	c := client.New("http://127.0.0.1:1")

	_, err := c.CreateSession(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptySymptoms)

	_, err = c.GetSession(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)
}
