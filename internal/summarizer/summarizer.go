package summarizer

import (
	"context"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/rs/zerolog/log"
)

// Sentinel summaries stored in place of a generated report
const (
	UnavailableMissingKey = "Summary unavailable (API Key missing)."
	UnavailableRetryLater = "Summary unavailable. Please try again later."
	GenerationFailed      = "Summary generation failed."
)

const DefaultBackoff = 2 * time.Second

// Summarizer turns a transcript into a four-section consultation report.
// It walks the model list in order and never returns an error.
type Summarizer struct {
	provider llm.Provider
	models   []string
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration)
}

type Option func(*Summarizer)

// WithSleep replaces the backoff wait
func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(s *Summarizer) { s.sleep = sleep }
}

func New(provider llm.Provider, models []string, backoff time.Duration, opts ...Option) *Summarizer {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	s := &Summarizer{
		provider: provider,
		models:   append([]string(nil), models...),
		backoff:  backoff,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Summarizer) Summarize(ctx context.Context, transcript []domain.TranscriptEntry) string {
	if s.provider == nil || !s.provider.IsConfigured() {
		return UnavailableMissingKey
	}

	req := llm.Request{
		Prompt: llm.BuildSummaryPrompt(llm.RenderTranscript(transcript)),
	}

	for i, model := range s.models {
		resp, err := s.provider.Generate(ctx, req, model)
		if err == nil {
			return resp.Text
		}

		log.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Str("model", model).
			Int("attempt", i+1).
			Msg("summary generation failed")

		if i == len(s.models)-1 {
			return UnavailableRetryLater
		}
		s.sleep(ctx, s.backoff)
	}

	return GenerationFailed
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
