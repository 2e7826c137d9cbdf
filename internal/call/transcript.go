package call

import (
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
)

// Message is one turn of the live transcript. Stable holds only text
// committed by final fragments; Content is what is shown, which may
// include a trailing partial.
type Message struct {
	Role    domain.Role
	Content string
	Stable  string
}

// Transcript merges streamed fragments into turns
type Transcript struct {
	messages []Message
}

// ApplyPartial shows a partial assistant fragment. Other roles are ignored.
func (t *Transcript) ApplyPartial(role domain.Role, text string) bool {
	if role != domain.RoleAssistant {
		return false
	}

	if last := t.last(); last != nil && last.Role == role {
		last.Content = appendSegment(last.Stable, text)
		return true
	}

	t.messages = append(t.messages, Message{Role: role, Content: text})
	return true
}

// ApplyFinal commits an assistant fragment to the current turn. Other roles are ignored.
func (t *Transcript) ApplyFinal(role domain.Role, text string) bool {
	if role != domain.RoleAssistant {
		return false
	}

	if last := t.last(); last != nil && last.Role == role {
		last.Stable = appendSegment(last.Stable, text)
		last.Content = last.Stable
		return true
	}

	t.messages = append(t.messages, Message{Role: role, Content: text, Stable: text})
	return true
}

// Replace swaps in a full conversation, every message stable. An empty
// snapshot is ignored, as are entries that are neither user nor assistant.
func (t *Transcript) Replace(entries []domain.TranscriptEntry) bool {
	if len(entries) == 0 {
		return false
	}

	messages := make([]Message, 0, len(entries))
	for _, e := range entries {
		if !e.Role.Valid() {
			continue
		}
		messages = append(messages, Message{Role: e.Role, Content: e.Content, Stable: e.Content})
	}
	t.messages = messages
	return true
}

// AppendUser adds a typed or dictated message as its own turn
func (t *Transcript) AppendUser(text string) {
	t.messages = append(t.messages, Message{Role: domain.RoleUser, Content: text, Stable: text})
}

// AppendAssistant adds a complete assistant message as its own turn
func (t *Transcript) AppendAssistant(text string) {
	t.messages = append(t.messages, Message{Role: domain.RoleAssistant, Content: text, Stable: text})
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the turns
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Entries returns the transcript in its persisted form
func (t *Transcript) Entries() []domain.TranscriptEntry {
	out := make([]domain.TranscriptEntry, 0, len(t.messages))
	for _, m := range t.messages {
		out = append(out, domain.TranscriptEntry{Role: m.Role, Content: m.Content})
	}
	return out
}

func (t *Transcript) last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return &t.messages[len(t.messages)-1]
}

// appendSegment joins with a single space unless base already ends in one
func appendSegment(base, next string) string {
	if base == "" {
		return next
	}
	if strings.HasSuffix(base, " ") {
		return base + next
	}
	return base + " " + next
}
