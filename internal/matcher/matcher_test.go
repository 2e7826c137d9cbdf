package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	entries map[string][]domain.MatchResult
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]domain.MatchResult)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]domain.MatchResult, bool, error) {
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, results []domain.MatchResult) error {
	c.sets++
	c.entries[key] = results
	return nil
}

func TestMatcher_PrefersRemote(t *testing.T) {
	dir := specialist.Default()
	p := &stubProvider{configured: true, text: `[{"id": 9, "matchScore": 88, "reasoning": "stress"}]`}
	m := New(NewRemoteStrategy(p, "", dir), NewKeywordStrategy(dir), nil)

	got := m.Match(context.Background(), "I have a bad headache")
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].SpecialistID)
}

func TestMatcher_FallsBackSilently(t *testing.T) {
	dir := specialist.Default()
	p := &stubProvider{configured: true, err: errors.New("503")}
	m := New(NewRemoteStrategy(p, "", dir), NewKeywordStrategy(dir), nil)

	got := m.Match(context.Background(), "I have a bad headache and dizziness")
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].SpecialistID)
	assert.Equal(t, 95, got[0].MatchScore)
	assert.Equal(t, 1, p.calls)
}

func TestMatcher_SkipsUnconfiguredRemote(t *testing.T) {
	dir := specialist.Default()
	p := &stubProvider{configured: false}
	m := New(NewRemoteStrategy(p, "", dir), NewKeywordStrategy(dir), nil)

	got := m.Match(context.Background(), "rash")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].SpecialistID)
	assert.Equal(t, 0, p.calls)
}

func TestMatcher_NilRemote(t *testing.T) {
	m := New(nil, NewKeywordStrategy(specialist.Default()), nil)

	got := m.Match(context.Background(), "nothing relevant")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].SpecialistID)
}

func TestMatcher_CachesRemoteSuccessOnly(t *testing.T) {
	dir := specialist.Default()
	cache := newMemoryCache()
	p := &stubProvider{configured: true, text: `[{"id": 4, "matchScore": 91, "reasoning": "cardiac"}]`}
	m := New(NewRemoteStrategy(p, "", dir), NewKeywordStrategy(dir), cache)

	first := m.Match(context.Background(), "Chest pain")
	second := m.Match(context.Background(), "  chest PAIN ")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, cache.sets)

	p.err = errors.New("down")
	m.Match(context.Background(), "rash")
	assert.Equal(t, 1, cache.sets)
}

func TestCacheKey_Normalizes(t *testing.T) {
	assert.Equal(t, CacheKey("Headache"), CacheKey("  headache\n"))
	assert.NotEqual(t, CacheKey("headache"), CacheKey("rash"))
}
