package llm

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrUnknownProvider       = errors.New("provider not found")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Router is the registry of generation backends. The specialist matcher,
// the report summarizer and the text agent each resolve a backend by name,
// falling back to the configured default when the name is empty.
type Router struct {
	mu       sync.RWMutex
	backends map[string]Provider
	fallback string
}

func NewRouter(defaultProvider string) *Router {
	return &Router{
		backends: make(map[string]Provider),
		fallback: strings.ToLower(defaultProvider),
	}
}

// RegisterProvider adds p, replacing any backend registered under the same name.
func (r *Router) RegisterProvider(p Provider) {
	r.mu.Lock()
	r.backends[strings.ToLower(p.Name())] = p
	r.mu.Unlock()
}

func (r *Router) resolve(name string) (Provider, string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = r.fallback
	}

	r.mu.RLock()
	p, ok := r.backends[key]
	r.mu.RUnlock()
	return p, key, ok
}

// GetProvider returns a backend that is ready to serve requests.
func (r *Router) GetProvider(name string) (Provider, error) {
	p, key, ok := r.resolve(name)
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, key)
	case !p.IsConfigured():
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, key)
	}
	return p, nil
}

// Lookup returns a registered backend even if it lacks credentials.
// Callers that degrade gracefully check IsConfigured themselves.
func (r *Router) Lookup(name string) (Provider, bool) {
	p, _, ok := r.resolve(name)
	return p, ok
}

func (r *Router) DefaultProvider() string {
	return r.fallback
}

// ListProviders names the backends holding credentials, sorted.
func (r *Router) ListProviders() []string {
	names := make([]string, 0)
	for _, info := range r.GetProvidersInfo() {
		if info.Configured {
			names = append(names, info.Name)
		}
	}
	return names
}

// ProviderInfo is the public view of a backend served by /llm-providers.
type ProviderInfo struct {
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
	Default      bool     `json:"default"`
	Configured   bool     `json:"configured"`
}

func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	infos := make([]ProviderInfo, 0, len(r.backends))
	for key, p := range r.backends {
		infos = append(infos, ProviderInfo{
			Name:         key,
			Models:       p.AvailableModels(),
			DefaultModel: p.DefaultModel(),
			Default:      key == r.fallback,
			Configured:   p.IsConfigured(),
		})
	}
	r.mu.RUnlock()

	slices.SortFunc(infos, func(a, b ProviderInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos
}
