package call

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/rs/zerolog/log"
)

// OfflineMessage is appended when the idle timeout ends the call
const OfflineMessage = "You went offline. If you want to continue chat, start consult again."

const DefaultIdleTimeout = 120 * time.Second

var (
	ErrNotConfigured  = fmt.Errorf("%w: voice agent is not configured", domain.ErrValidation)
	ErrEmptyMessage   = fmt.Errorf("%w: message is empty", domain.ErrValidation)
	ErrNoSpecialist   = fmt.Errorf("%w: session has no known selected specialist", domain.ErrValidation)
	ErrNotActive      = fmt.Errorf("%w: no call in progress", domain.ErrInvalidTransition)
	ErrCallInProgress = fmt.Errorf("%w: call already in progress", domain.ErrInvalidTransition)
	ErrClosed         = errors.New("call controller closed")
)

// FirstMessage is the greeting spoken by the specialist when the call opens
func FirstMessage(specialistName string) string {
	return fmt.Sprintf("Hello, I am your %s. How can I help you with your symptoms today?", specialistName)
}

// Finalizer persists the finished consultation and produces its summary
type Finalizer interface {
	Finalize(ctx context.Context, sessionID int64, transcript []domain.TranscriptEntry) (*domain.Session, error)
}

// DeviceProbe checks that audio input can be used before a call opens
type DeviceProbe interface {
	Probe(ctx context.Context) error
}

// Observer is notified of state changes. It is called with the controller
// locked and must not call back into it.
type Observer interface {
	StatusChanged(status Status)
	TranscriptChanged(messages []Message)
}

type nopObserver struct{}

func (nopObserver) StatusChanged(Status)        {}
func (nopObserver) TranscriptChanged([]Message) {}

type Config struct {
	AssistantID string
	IdleTimeout time.Duration
}

type Option func(*Controller)

func WithDeviceProbe(p DeviceProbe) Option {
	return func(c *Controller) { c.probe = p }
}

func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithDictation(d *Dictation) Option {
	return func(c *Controller) { c.dictation = d }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithDirectory(dir *specialist.Directory) Option {
	return func(c *Controller) { c.directory = dir }
}

// Controller drives one consultation call: start, live transcript, idle
// timeout, and hand-off to the Finalizer. It owns the agent handle, the
// idle timer and the dictation engine.
type Controller struct {
	cfg       Config
	agent     VoiceAgent
	finalizer Finalizer
	probe     DeviceProbe
	clock     Clock
	dictation *Dictation
	observer  Observer
	directory *specialist.Directory

	mu         sync.Mutex
	status     Status
	transcript Transcript
	session    *domain.Session
	attempt    uint64
	timer      Timer
	timerGen   uint64
	timedOut   bool
	closed     bool
}

func New(cfg Config, agent VoiceAgent, finalizer Finalizer, opts ...Option) *Controller {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	c := &Controller{
		cfg:       cfg,
		agent:     agent,
		finalizer: finalizer,
		clock:     RealClock(),
		observer:  nopObserver{},
		directory: specialist.Default(),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if agent == nil || cfg.AssistantID == "" {
		log.Error().Msg("voice agent or assistant id missing")
		c.status = StatusConfigError
	}
	return c
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Messages returns the live transcript
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// Session returns the consultation as last seen by the controller
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// StartCall opens a call with the session's selected specialist. A live or
// finalizing call must be ended first; a call still connecting is abandoned.
func (c *Controller) StartCall(ctx context.Context, session *domain.Session) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status == StatusConfigError {
		c.mu.Unlock()
		return ErrNotConfigured
	}
	if c.status.InCall() || c.status.finalizing() {
		c.mu.Unlock()
		return ErrCallInProgress
	}
	abandon := c.status == StatusConnecting
	c.attempt++
	attempt := c.attempt
	c.disarmTimer()
	c.timedOut = false
	c.session = session
	c.setStatus(StatusConnecting)
	c.mu.Unlock()

	if abandon {
		if err := c.agent.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop pending call")
		}
	}

	if c.dictation != nil {
		c.dictation.Stop()
	}

	if c.probe != nil {
		if err := c.probe.Probe(ctx); err != nil {
			log.Error().Err(err).Msg("microphone access denied or not found")
			c.transition(StatusMicError)
			return fmt.Errorf("%w: %v", domain.ErrDevice, err)
		}
	}

	var doctor domain.Specialist
	ok := false
	if session != nil && session.SelectedSpecialistID != nil {
		doctor, ok = c.directory.Get(*session.SelectedSpecialistID)
	}
	if !ok {
		c.transition(StatusConnectionFailed)
		return ErrNoSpecialist
	}

	events, err := c.agent.Start(ctx, c.cfg.AssistantID, &StartOptions{
		FirstMessage: FirstMessage(doctor.Name),
		SystemPrompt: doctor.PersonaPrompt,
	})
	if err != nil {
		log.Warn().Err(err).Msg("retrying call without overrides")
		events, err = c.agent.Start(ctx, c.cfg.AssistantID, nil)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to start call")
		if errors.Is(err, domain.ErrDevice) || strings.Contains(err.Error(), "Device") {
			c.transition(StatusNoMicFound)
		} else {
			c.transition(StatusConnectionFailed)
		}
		return err
	}

	go c.pump(attempt, events)
	return nil
}

// Send appends a user message and forwards it to the agent
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.closed || !c.status.InCall() {
		c.mu.Unlock()
		return ErrNotActive
	}
	c.setStatus(StatusThinking)
	c.armTimer()
	c.transcript.AppendUser(text)
	c.observer.TranscriptChanged(c.transcript.Messages())
	c.mu.Unlock()

	return c.agent.Send(ctx, text)
}

// SendInput sends the pending dictation input and clears it
func (c *Controller) SendInput(ctx context.Context) error {
	if c.dictation == nil {
		return ErrEmptyMessage
	}
	err := c.Send(ctx, c.dictation.Input())
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, ErrNotActive) {
		return err
	}
	c.dictation.ClearInput()
	return err
}

// EndCall stops the agent and persists the transcript. There is no retry.
func (c *Controller) EndCall(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.session == nil || c.status.finalizing() {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	c.disarmTimer()
	sessionID := c.session.ID
	c.mu.Unlock()

	if err := c.agent.Stop(); err != nil {
		log.Warn().Err(err).Msg("failed to stop agent")
	}

	c.mu.Lock()
	c.setStatus(StatusAnalysing)
	transcript := c.transcript.Entries()
	c.mu.Unlock()

	updated, err := c.finalizer.Finalize(ctx, sessionID, transcript)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Int64("session_id", sessionID).Msg("failed to save session")
		c.setStatus(StatusEnded)
		return nil, err
	}
	c.session = updated
	c.setStatus(StatusCompleted)
	return updated, nil
}

// Close disarms the timer, releases dictation and drops any further events
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.attempt++
	c.disarmTimer()
	c.mu.Unlock()

	if c.dictation != nil {
		c.dictation.Stop()
	}
}

func (c *Controller) pump(attempt uint64, events <-chan Event) {
	for ev := range events {
		c.handle(attempt, ev)
	}
}

func (c *Controller) handle(attempt uint64, ev Event) {
	c.mu.Lock()
	if c.closed || attempt != c.attempt {
		c.mu.Unlock()
		return
	}

	mute := false
	switch e := ev.(type) {
	case CallLifecycleEvent:
		switch e.Kind {
		case CallStarted:
			c.setStatus(StatusActive)
			c.armTimer()
			mute = true
		case CallEnded:
			c.disarmTimer()
			if !c.status.finalizing() {
				if c.timedOut {
					c.setStatus(StatusSessionExpired)
				} else {
					c.setStatus(StatusEnded)
				}
			}
			c.timedOut = false
		}

	case PartialTranscript:
		if c.status.finalizing() {
			break
		}
		c.rearm()
		if e.Role == domain.RoleAssistant && c.status == StatusThinking {
			c.setStatus(StatusActive)
		}
		if c.transcript.ApplyPartial(e.Role, e.Text) {
			c.observer.TranscriptChanged(c.transcript.Messages())
		}

	case FinalTranscript:
		if c.status.finalizing() {
			break
		}
		c.rearm()
		if c.transcript.ApplyFinal(e.Role, e.Text) {
			c.observer.TranscriptChanged(c.transcript.Messages())
		}

	case ConversationSnapshot:
		if c.status.finalizing() {
			break
		}
		c.rearm()
		if c.transcript.Replace(e.Messages) {
			c.observer.TranscriptChanged(c.transcript.Messages())
		}

	case ErrorEvent:
		c.disarmTimer()
		if strings.Contains(e.Message, "ejection") || strings.Contains(e.Message, "Meeting has ended") {
			log.Info().Str("reason", e.Message).Bool("timed_out", c.timedOut).Msg("call ended by backend")
			if !c.status.finalizing() {
				if c.timedOut {
					c.setStatus(StatusSessionExpired)
				} else {
					c.setStatus(StatusEnded)
				}
			}
		} else {
			log.Error().Str("error", e.Message).Msg("voice agent error")
			if !c.status.finalizing() {
				c.setStatus(StatusError)
			}
		}
	}
	c.mu.Unlock()

	if mute {
		if err := c.agent.SetMuted(true); err != nil {
			log.Warn().Err(err).Msg("failed to mute agent")
		}
	}
}

// rearm restarts the idle timer while a call is live. Caller holds mu.
func (c *Controller) rearm() {
	if c.status.InCall() {
		c.armTimer()
	}
}

// armTimer replaces any pending idle timer. Caller holds mu.
func (c *Controller) armTimer() {
	c.disarmTimer()
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.cfg.IdleTimeout, func() { c.onIdle(gen) })
}

// disarmTimer stops the idle timer and invalidates its callback. Caller holds mu.
func (c *Controller) disarmTimer() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) onIdle(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timerGen++
	c.timer = nil
	c.timedOut = true
	c.transcript.AppendAssistant(OfflineMessage)
	c.observer.TranscriptChanged(c.transcript.Messages())
	c.mu.Unlock()

	log.Info().Dur("idle_timeout", c.cfg.IdleTimeout).Msg("idle timeout reached, ending call")
	if err := c.agent.Stop(); err != nil {
		log.Warn().Err(err).Msg("failed to stop agent after idle timeout")
	}
}

func (c *Controller) transition(status Status) {
	c.mu.Lock()
	c.setStatus(status)
	c.mu.Unlock()
}

// setStatus records and announces a status. Caller holds mu.
func (c *Controller) setStatus(status Status) {
	if c.status == status {
		return
	}
	c.status = status
	c.observer.StatusChanged(status)
}
