package matcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/rs/zerolog/log"
)

// Cache stores remote match results keyed by normalized symptoms
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.MatchResult, bool, error)
	Set(ctx context.Context, key string, results []domain.MatchResult) error
}

// Matcher prefers the remote strategy and silently falls back to keywords
type Matcher struct {
	remote   Strategy
	fallback Strategy
	cache    Cache
}

// New creates a matcher. remote and cache may be nil.
func New(remote, fallback Strategy, cache Cache) *Matcher {
	return &Matcher{remote: remote, fallback: fallback, cache: cache}
}

// Match never fails: any remote failure degrades to the keyword result
func (m *Matcher) Match(ctx context.Context, symptoms string) []domain.MatchResult {
	if m.remote != nil && m.remoteAvailable() {
		key := CacheKey(symptoms)

		if m.cache != nil {
			cached, ok, err := m.cache.Get(ctx, key)
			if err != nil {
				log.Debug().Err(err).Msg("match cache read failed")
			} else if ok && len(cached) > 0 {
				return cached
			}
		}

		results, err := m.remote.Match(ctx, symptoms)
		if err == nil {
			if m.cache != nil {
				if err := m.cache.Set(ctx, key, results); err != nil {
					log.Debug().Err(err).Msg("match cache write failed")
				}
			}
			return results
		}

		log.Debug().Err(err).Str("strategy", m.remote.Name()).Msg("falling back to keyword matching")
	}

	results, _ := m.fallback.Match(ctx, symptoms)
	return results
}

func (m *Matcher) remoteAvailable() bool {
	if a, ok := m.remote.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

// CacheKey normalizes symptoms so trivially different inputs share an entry
func CacheKey(symptoms string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(symptoms))))
	return hex.EncodeToString(sum[:])
}
