package llm

import "context"

// Message is one prior turn of a chat history
type Message struct {
	Role    string
	Content string
}

// Request contains generation parameters
type Request struct {
	// System is the persona or instruction block, if the provider supports one
	System string

	// Prompt is the latest user turn
	Prompt string

	// History holds earlier turns, oldest first
	History []Message

	Temperature *float32
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate runs a single request/response completion
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}

// Float32 is a helper for Request.Temperature
func Float32(v float32) *float32 {
	return &v
}
