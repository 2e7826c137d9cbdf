package deepseek

import (
	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/llm/openai"
)

const defaultBaseURL = "https://api.deepseek.com/v1"

// NewProvider creates a DeepSeek provider. DeepSeek speaks the OpenAI
// chat completion protocol, so the go-openai client is reused.
func NewProvider(cfg config.DeepSeekConfig) *openai.Provider {
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openai.NewCompatibleProvider(
		"deepseek",
		cfg.APIKey,
		baseURL,
		model,
		[]string{"deepseek-chat", "deepseek-reasoner"},
	)
}
