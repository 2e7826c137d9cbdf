// Package registry builds an llm.Router from configuration.
package registry

import (
	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/Rrens/medical-agent/internal/llm/anthropic"
	"github.com/Rrens/medical-agent/internal/llm/deepseek"
	"github.com/Rrens/medical-agent/internal/llm/gemini"
	"github.com/Rrens/medical-agent/internal/llm/ollama"
	"github.com/Rrens/medical-agent/internal/llm/openai"
	"github.com/rs/zerolog/log"
)

// New registers every provider that has credentials
func New(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek))
	}
	if cfg.Gemini.APIKey != "" {
		log.Info().Int("key_len", len(cfg.Gemini.APIKey)).Msg("Registering Gemini provider")
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, reports will use the unavailable summary")
	}

	return router
}
