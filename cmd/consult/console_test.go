package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Rrens/medical-agent/internal/call"
	"github.com/Rrens/medical-agent/internal/call/textagent"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doctorProvider struct{}

func (doctorProvider) Name() string              { return "doctor" }
func (doctorProvider) AvailableModels() []string { return []string{"doctor-1"} }
func (doctorProvider) DefaultModel() string      { return "doctor-1" }
func (doctorProvider) IsConfigured() bool        { return true }

func (doctorProvider) Generate(_ context.Context, _ llm.Request, model string) (*llm.Response, error) {
	return &llm.Response{Text: "Since when?", Model: model}, nil
}

type savedConsultation struct {
	transcript []domain.TranscriptEntry
}

func (s *savedConsultation) Finalize(_ context.Context, id int64, transcript []domain.TranscriptEntry) (*domain.Session, error) {
	s.transcript = transcript
	summary := "1. **Chief Complaint**: knee pain"
	return &domain.Session{ID: id, Status: domain.StatusCompleted, Transcript: transcript, Summary: &summary}, nil
}

func newTestConsole(t *testing.T) (*console, *textagent.Agent, *savedConsultation, *bytes.Buffer) {
	t.Helper()
	agent := textagent.New(doctorProvider{}, "")
	saved := &savedConsultation{}
	engine := &lineEngine{}
	dictation := call.NewDictation(engine, nil)
	controller := call.New(call.Config{AssistantID: "text-agent", IdleTimeout: time.Minute}, agent, saved,
		call.WithDictation(dictation))
	t.Cleanup(controller.Close)

	specialistID := 5
	out := &bytes.Buffer{}
	con := &console{
		controller: controller,
		dictation:  dictation,
		engine:     engine,
		session:    &domain.Session{ID: 3, Status: domain.StatusActive, SelectedSpecialistID: &specialistID},
		out:        out,
	}
	return con, agent, saved, out
}

func waitFor(t *testing.T, c *call.Controller, want call.Status) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Status() == want }, time.Second, 5*time.Millisecond,
		"status is %q, want %q", c.Status(), want)
}

func TestConsole_StartReconnectsEndedCall(t *testing.T) {
	ctx := context.Background()
	con, agent, _, out := newTestConsole(t)

	done, err := con.handle(ctx, "/start")
	require.NoError(t, err)
	assert.False(t, done)
	waitFor(t, con.controller, call.StatusActive)

	_, err = con.handle(ctx, "/start")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "cannot start call")
	assert.Equal(t, call.StatusActive, con.controller.Status())

	require.NoError(t, agent.Stop())
	waitFor(t, con.controller, call.StatusEnded)

	out.Reset()
	_, err = con.handle(ctx, "/start")
	require.NoError(t, err)
	assert.Empty(t, out.String())
	waitFor(t, con.controller, call.StatusActive)
}

func TestConsole_ConversationAndEnd(t *testing.T) {
	ctx := context.Background()
	con, _, saved, out := newTestConsole(t)

	_, err := con.handle(ctx, "/start")
	require.NoError(t, err)
	waitFor(t, con.controller, call.StatusActive)

	_, err = con.handle(ctx, "/dictate")
	require.NoError(t, err)
	_, err = con.handle(ctx, "my knee hurts")
	require.NoError(t, err)
	assert.Contains(t, con.dictation.Input(), "my knee hurts")

	_, err = con.handle(ctx, "/send")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		msgs := con.controller.Messages()
		return len(msgs) == 3 && msgs[2].Stable == "Since when?"
	}, time.Second, 5*time.Millisecond)

	done, err := con.handle(ctx, "/end")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out.String(), "Chief Complaint")
	require.Len(t, saved.transcript, 3)
	assert.Equal(t, domain.TranscriptEntry{Role: domain.RoleUser, Content: "my knee hurts"}, saved.transcript[1])
}
