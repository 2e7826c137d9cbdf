// Package textagent is a text-only voice agent. Replies come from an LLM
// provider and are streamed back sentence by sentence as transcript fragments.
package textagent

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/Rrens/medical-agent/internal/call"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/rs/zerolog/log"
)

const (
	defaultSystemPrompt = "You are a helpful medical assistant. Keep answers short and ask one question at a time."
	defaultFirstMessage = "Hello, how can I help you with your symptoms today?"
	eventBuffer         = 64
)

var (
	ErrNotConfigured  = errors.New("text agent: provider is not configured")
	ErrAlreadyStarted = errors.New("text agent: call already started")
	ErrNotStarted     = errors.New("text agent: no call in progress")
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Agent implements call.VoiceAgent over an llm.Provider
type Agent struct {
	provider llm.Provider
	model    string

	mu      sync.Mutex
	events  chan call.Event
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
	system  string
	history []llm.Message
	muted   bool
}

// New creates an agent. An empty model uses the provider default.
func New(provider llm.Provider, model string) *Agent {
	if model == "" && provider != nil {
		model = provider.DefaultModel()
	}
	return &Agent{provider: provider, model: model}
}

func (a *Agent) Start(ctx context.Context, assistantID string, opts *call.StartOptions) (<-chan call.Event, error) {
	if a.provider == nil || !a.provider.IsConfigured() {
		return nil, ErrNotConfigured
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.events != nil {
		return nil, ErrAlreadyStarted
	}

	system, first := defaultSystemPrompt, defaultFirstMessage
	if opts != nil {
		if opts.SystemPrompt != "" {
			system = opts.SystemPrompt
		}
		if opts.FirstMessage != "" {
			first = opts.FirstMessage
		}
	}

	a.ctx, a.cancel = context.WithCancel(context.WithoutCancel(ctx))
	a.events = make(chan call.Event, eventBuffer)
	a.system = system
	a.history = []llm.Message{{Role: string(domain.RoleAssistant), Content: first}}

	log.Debug().Str("assistant_id", assistantID).Str("provider", a.provider.Name()).Msg("text agent call started")

	a.events <- call.CallLifecycleEvent{Kind: call.CallStarted}
	a.events <- call.FinalTranscript{Role: domain.RoleAssistant, Text: first}
	return a.events, nil
}

// Send asks the model for a reply. The reply arrives asynchronously as events.
func (a *Agent) Send(ctx context.Context, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.events == nil {
		return ErrNotStarted
	}

	req := llm.Request{
		System:      a.system,
		Prompt:      text,
		History:     append([]llm.Message(nil), a.history...),
		Temperature: llm.Float32(0.4),
	}
	a.history = append(a.history, llm.Message{Role: string(domain.RoleUser), Content: text})

	a.wg.Add(1)
	go a.reply(a.ctx, a.events, req)
	return nil
}

// Stop ends the call: pending replies are cancelled, CallEnded is emitted
// and the event channel is closed. Stopping an idle agent is a no-op.
func (a *Agent) Stop() error {
	a.mu.Lock()
	events, cancel := a.events, a.cancel
	a.events, a.cancel = nil, nil
	a.mu.Unlock()

	if events == nil {
		return nil
	}

	cancel()
	a.wg.Wait()
	events <- call.CallLifecycleEvent{Kind: call.CallEnded}
	close(events)
	return nil
}

// SetMuted is recorded only; there is no audio output
func (a *Agent) SetMuted(muted bool) error {
	a.mu.Lock()
	a.muted = muted
	a.mu.Unlock()
	return nil
}

func (a *Agent) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

func (a *Agent) reply(ctx context.Context, events chan<- call.Event, req llm.Request) {
	defer a.wg.Done()

	resp, err := a.provider.Generate(ctx, req, a.model)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Str("provider", a.provider.Name()).Msg("text agent generation failed")
		emit(ctx, events, call.ErrorEvent{Message: "generation failed: " + err.Error()})
		return
	}

	text := strings.TrimSpace(resp.Text)
	a.mu.Lock()
	a.history = append(a.history, llm.Message{Role: string(domain.RoleAssistant), Content: text})
	a.mu.Unlock()

	for _, sentence := range Sentences(text) {
		words := strings.Fields(sentence)
		for i := 1; i < len(words); i++ {
			partial := strings.Join(words[:i], " ")
			if !emit(ctx, events, call.PartialTranscript{Role: domain.RoleAssistant, Text: partial}) {
				return
			}
		}
		if !emit(ctx, events, call.FinalTranscript{Role: domain.RoleAssistant, Text: sentence}) {
			return
		}
	}
}

func emit(ctx context.Context, events chan<- call.Event, ev call.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Sentences splits text on terminal punctuation, keeping the punctuation
func Sentences(text string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
