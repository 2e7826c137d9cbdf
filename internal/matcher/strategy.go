package matcher

import (
	"context"
	"fmt"

	"github.com/Rrens/medical-agent/internal/domain"
)

// Strategy produces a ranked specialist list from free-text symptoms
type Strategy interface {
	Name() string
	Match(ctx context.Context, symptoms string) ([]domain.MatchResult, error)
}

// StrategyFailure reports why a strategy produced no usable result
type StrategyFailure struct {
	Strategy string
	Reason   string
	Err      error
}

func (f *StrategyFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s strategy failed: %s: %v", f.Strategy, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s strategy failed: %s", f.Strategy, f.Reason)
}

// Unwrap exposes both the upstream sentinel and the underlying cause
func (f *StrategyFailure) Unwrap() []error {
	if f.Err != nil {
		return []error{domain.ErrUpstream, f.Err}
	}
	return []error{domain.ErrUpstream}
}

func failure(strategy, reason string, err error) *StrategyFailure {
	return &StrategyFailure{Strategy: strategy, Reason: reason, Err: err}
}
