// Package client talks to the consultation API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/medical-agent/internal/api/response"
	"github.com/Rrens/medical-agent/internal/domain"
)

// APIError is a non-2xx reply. It unwraps to the matching domain sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrInvalidTransition
	}
	return nil
}

// Created is the reply to CreateSession
type Created struct {
	SessionID          int64                `json:"session_id"`
	MatchedSpecialists []domain.MatchResult `json:"matched_specialists"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sends a bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// finalize waits for the summarizer
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureUser creates the caller's user record on first use
func (c *Client) EnsureUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateSession(ctx context.Context, symptoms string) (*Created, error) {
	if strings.TrimSpace(symptoms) == "" {
		return nil, domain.ErrEmptySymptoms
	}

	var created Created
	body := map[string]string{"symptoms": symptoms}
	if err := c.do(ctx, http.MethodPost, "/sessions", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	if id <= 0 {
		return nil, domain.ErrMissingSessionID
	}

	var session domain.Session
	if err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// History lists the caller's sessions, newest first. limit <= 0 means all.
func (c *Client) History(ctx context.Context, limit int) ([]domain.Session, error) {
	path := "/sessions"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var sessions []domain.Session
	if err := c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) SelectSpecialist(ctx context.Context, id int64, specialistID int) (*domain.Session, error) {
	if id <= 0 {
		return nil, domain.ErrMissingSessionID
	}

	var session domain.Session
	body := map[string]any{"selected_specialist_id": specialistID}
	if err := c.do(ctx, http.MethodPatch, sessionPath(id), body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Finalize completes the session with its transcript and returns it with the summary
func (c *Client) Finalize(ctx context.Context, id int64, transcript []domain.TranscriptEntry) (*domain.Session, error) {
	if id <= 0 {
		return nil, domain.ErrMissingSessionID
	}
	if transcript == nil {
		transcript = []domain.TranscriptEntry{}
	}

	var session domain.Session
	body := map[string]any{
		"status":     domain.StatusCompleted,
		"transcript": transcript,
	}
	if err := c.do(ctx, http.MethodPatch, sessionPath(id), body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func sessionPath(id int64) string {
	return "/sessions/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	env := response.Envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.ErrorMessage()}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return nil
}
