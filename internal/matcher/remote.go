package matcher

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/Rrens/medical-agent/internal/specialist"
)

const remoteMaxResults = 5

type remoteMatch struct {
	ID         int     `json:"id"`
	MatchScore float64 `json:"matchScore"`
	Reasoning  string  `json:"reasoning"`
}

// RemoteStrategy asks an LLM to rank the directory against the symptoms
type RemoteStrategy struct {
	provider llm.Provider
	model    string
	dir      *specialist.Directory
}

func NewRemoteStrategy(provider llm.Provider, model string, dir *specialist.Directory) *RemoteStrategy {
	return &RemoteStrategy{provider: provider, model: model, dir: dir}
}

func (s *RemoteStrategy) Name() string {
	return "remote"
}

// Available reports whether the backing provider has credentials
func (s *RemoteStrategy) Available() bool {
	return s.provider != nil && s.provider.IsConfigured()
}

func (s *RemoteStrategy) Match(ctx context.Context, symptoms string) ([]domain.MatchResult, error) {
	if !s.Available() {
		return nil, failure(s.Name(), "provider not configured", nil)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		Prompt: llm.BuildMatchPrompt(symptoms, s.dir.Catalog()),
	}, s.model)
	if err != nil {
		return nil, failure(s.Name(), "generation failed", err)
	}

	return s.parse(resp.Text)
}

func (s *RemoteStrategy) parse(text string) ([]domain.MatchResult, error) {
	raw := llm.ExtractJSONArray(text)
	if raw == "" {
		return nil, failure(s.Name(), "no JSON array in response", nil)
	}

	var matches []remoteMatch
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		return nil, failure(s.Name(), "malformed JSON array", err)
	}

	results := make([]domain.MatchResult, 0, len(matches))
	for _, m := range matches {
		sp, ok := s.dir.Get(m.ID)
		if !ok {
			continue
		}
		results = append(results, domain.NewMatchResult(sp, clampScore(m.MatchScore), m.Reasoning))
	}
	if len(results) == 0 {
		return nil, failure(s.Name(), "no known specialists in response", nil)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > remoteMaxResults {
		results = results[:remoteMaxResults]
	}
	return results, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}
