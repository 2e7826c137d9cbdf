package summarizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	configured bool
	failures   map[string]error
	models     []string
	prompts    []string
}

func (p *scriptedProvider) Name() string              { return "scripted" }
func (p *scriptedProvider) AvailableModels() []string { return nil }
func (p *scriptedProvider) DefaultModel() string      { return "" }
func (p *scriptedProvider) IsConfigured() bool        { return p.configured }

func (p *scriptedProvider) Generate(_ context.Context, req llm.Request, model string) (*llm.Response, error) {
	p.models = append(p.models, model)
	p.prompts = append(p.prompts, req.Prompt)
	if err := p.failures[model]; err != nil {
		return nil, err
	}
	return &llm.Response{Text: "summary from " + model, Model: model}, nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	r.calls = append(r.calls, d)
}

var transcript = []domain.TranscriptEntry{
	{Role: domain.RoleAssistant, Content: "Hello, how can I help?"},
	{Role: domain.RoleUser, Content: "I have a headache."},
}

func TestSummarize_FirstModelSucceeds(t *testing.T) {
	p := &scriptedProvider{configured: true}
	rec := &sleepRecorder{}
	s := New(p, []string{"a", "b"}, time.Second, WithSleep(rec.sleep))

	got := s.Summarize(context.Background(), transcript)

	assert.Equal(t, "summary from a", got)
	assert.Equal(t, []string{"a"}, p.models)
	assert.Empty(t, rec.calls)
	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "assistant: Hello, how can I help?\nuser: I have a headache.")
	assert.Contains(t, p.prompts[0], "Chief Complaint")
}

func TestSummarize_RetriesInOrderWithBackoff(t *testing.T) {
	p := &scriptedProvider{configured: true, failures: map[string]error{
		"a": errors.New("429"),
		"b": errors.New("500"),
	}}
	rec := &sleepRecorder{}
	s := New(p, []string{"a", "b", "c"}, 0, WithSleep(rec.sleep))

	got := s.Summarize(context.Background(), transcript)

	assert.Equal(t, "summary from c", got)
	assert.Equal(t, []string{"a", "b", "c"}, p.models)
	assert.Equal(t, []time.Duration{DefaultBackoff, DefaultBackoff}, rec.calls)
}

func TestSummarize_AllModelsFail(t *testing.T) {
	fail := errors.New("unavailable")
	p := &scriptedProvider{configured: true, failures: map[string]error{"a": fail, "b": fail}}
	rec := &sleepRecorder{}
	s := New(p, []string{"a", "b"}, time.Millisecond, WithSleep(rec.sleep))

	got := s.Summarize(context.Background(), transcript)

	assert.Equal(t, UnavailableRetryLater, got)
	assert.Len(t, rec.calls, 1)
}

func TestSummarize_Sentinels(t *testing.T) {
	assert.Equal(t, UnavailableMissingKey, New(nil, []string{"a"}, 0).Summarize(context.Background(), transcript))

	unconfigured := &scriptedProvider{configured: false}
	assert.Equal(t, UnavailableMissingKey, New(unconfigured, []string{"a"}, 0).Summarize(context.Background(), transcript))
	assert.Empty(t, unconfigured.models)

	empty := &scriptedProvider{configured: true}
	assert.Equal(t, GenerationFailed, New(empty, nil, 0).Summarize(context.Background(), transcript))
}

func TestSleepContext_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}
