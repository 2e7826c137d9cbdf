package call

import (
	"context"

	"github.com/Rrens/medical-agent/internal/domain"
)

// Event is a message emitted by a voice agent during one call attempt.
// The set of implementations is closed.
type Event interface {
	isEvent()
}

// PartialTranscript is a not-yet-final fragment of an utterance
type PartialTranscript struct {
	Role domain.Role
	Text string
}

// FinalTranscript commits a fragment of an utterance
type FinalTranscript struct {
	Role domain.Role
	Text string
}

// ConversationSnapshot carries the complete conversation so far
type ConversationSnapshot struct {
	Messages []domain.TranscriptEntry
}

type LifecycleKind int

const (
	CallStarted LifecycleKind = iota + 1
	CallEnded
)

func (k LifecycleKind) String() string {
	switch k {
	case CallStarted:
		return "call-start"
	case CallEnded:
		return "call-end"
	}
	return "unknown"
}

// CallLifecycleEvent reports that the backend started or ended the call
type CallLifecycleEvent struct {
	Kind LifecycleKind
}

// ErrorEvent is a backend error raised while the call is running
type ErrorEvent struct {
	Message string
}

func (PartialTranscript) isEvent()    {}
func (FinalTranscript) isEvent()      {}
func (ConversationSnapshot) isEvent() {}
func (CallLifecycleEvent) isEvent()   {}
func (ErrorEvent) isEvent()           {}

// StartOptions override the assistant's defaults for one call
type StartOptions struct {
	FirstMessage string
	SystemPrompt string
}

// VoiceAgent is the conversational backend of a call.
// Start returns a channel that the agent closes when the attempt ends.
type VoiceAgent interface {
	Start(ctx context.Context, assistantID string, opts *StartOptions) (<-chan Event, error)
	Stop() error
	Send(ctx context.Context, text string) error
	SetMuted(muted bool) error
}
