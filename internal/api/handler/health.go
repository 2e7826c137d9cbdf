package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/medical-agent/internal/api/response"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/Rrens/medical-agent/internal/specialist"
)

// Pinger reports whether the session store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheFlusher drops every cached match result
type CacheFlusher interface {
	FlushAll(ctx context.Context) (int64, error)
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity
func ReadyCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListSpecialists returns the specialist directory
func ListSpecialists(dir *specialist.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, dir.All())
	}
}

// ListLLMProviders returns the registered LLM providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}

// FlushCache clears the match cache. A nil cache means caching is disabled.
func FlushCache(cache CacheFlusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			response.ServiceUnavailable(w, "match cache is not enabled")
			return
		}

		deleted, err := cache.FlushAll(r.Context())
		if err != nil {
			response.InternalError(w, "failed to flush cache: "+err.Error())
			return
		}

		response.OK(w, map[string]any{
			"message":      "cache flushed successfully",
			"keys_deleted": deleted,
		})
	}
}
