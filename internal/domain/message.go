package domain

// Role represents the author of a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role may appear in a persisted transcript
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// TranscriptEntry is one chronological message of a consultation
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
