package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Type names a session lifecycle event
type Type string

const (
	SessionCreated            Type = "created"
	SessionSpecialistSelected Type = "specialist_selected"
	SessionCompleted          Type = "completed"
)

// PublishFunc sends a payload to a subject
type PublishFunc func(subject string, data []byte) error

// Event is the JSON body published for every session transition
type Event struct {
	ID           uuid.UUID            `json:"id"`
	Type         Type                 `json:"type"`
	SessionID    int64                `json:"session_id"`
	UserID       *int64               `json:"user_id,omitempty"`
	SpecialistID *int                 `json:"specialist_id,omitempty"`
	Status       domain.SessionStatus `json:"status"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

// Publisher emits session events. A nil publish func makes it a no-op.
type Publisher struct {
	publish PublishFunc
	prefix  string
	close   func()
	now     func() time.Time
}

// NewPublisher wraps an arbitrary publish func
func NewPublisher(publish PublishFunc, prefix string) *Publisher {
	if prefix == "" {
		prefix = "consult"
	}
	return &Publisher{publish: publish, prefix: prefix, now: time.Now}
}

// Noop returns a publisher that discards every event
func Noop() *Publisher {
	return NewPublisher(nil, "")
}

// NewNATSPublisher connects to NATS and publishes core (non-JetStream) messages
func NewNATSPublisher(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("medical-agent"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	p := NewPublisher(func(subject string, data []byte) error {
		return nc.Publish(subject, data)
	}, prefix)
	p.close = func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return p, nil
}

// Subject returns the subject an event type is published on
func (p *Publisher) Subject(t Type) string {
	return p.prefix + ".session." + string(t)
}

// Publish emits an event for the session's current state. Failures are
// logged and never returned.
func (p *Publisher) Publish(ctx context.Context, t Type, session *domain.Session) {
	if p == nil || p.publish == nil || session == nil {
		return
	}

	evt := Event{
		ID:           uuid.New(),
		Type:         t,
		SessionID:    session.ID,
		UserID:       session.UserID,
		SpecialistID: session.SelectedSpecialistID,
		Status:       session.Status,
		OccurredAt:   p.now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal session event")
		return
	}

	subject := p.Subject(t)
	if err := p.publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Int64("session_id", session.ID).Msg("failed to publish session event")
	}
}

// Close drains the underlying connection, if any
func (p *Publisher) Close() {
	if p != nil && p.close != nil {
		p.close()
	}
}
