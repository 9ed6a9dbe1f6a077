package llm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrProviderNotFound      = errors.New("provider not found")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Router manages LLM providers and routing
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new LLM router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers an LLM provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// ListProviders returns the sorted names of configured providers
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var providers []string
	for name, p := range r.providers {
		if p.IsConfigured() {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

// GetProvider returns a provider by name
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	if !p.IsConfigured() {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, name)
	}

	return p, nil
}

// Transcriber returns the named provider if it can transcribe audio. With an
// empty name the default provider is preferred, then any configured provider
// that supports transcription.
func (r *Router) Transcriber(name string) (Transcriber, error) {
	p, err := r.capable(name, func(p Provider) bool {
		_, ok := p.(Transcriber)
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return p.(Transcriber), nil
}

// Synthesizer returns a provider that can synthesize speech, chosen the same
// way as Transcriber
func (r *Router) Synthesizer(name string) (Synthesizer, error) {
	p, err := r.capable(name, func(p Provider) bool {
		_, ok := p.(Synthesizer)
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}
	return p.(Synthesizer), nil
}

func (r *Router) capable(name string, supports func(Provider) bool) (Provider, error) {
	if name != "" {
		p, err := r.GetProvider(name)
		if err != nil {
			return nil, err
		}
		if !supports(p) {
			return nil, fmt.Errorf("provider %s does not support this capability", name)
		}
		return p, nil
	}

	if p, err := r.GetProvider(""); err == nil && supports(p) {
		return p, nil
	}

	for _, n := range r.ListProviders() {
		r.mu.RLock()
		p := r.providers[n]
		r.mu.RUnlock()
		if supports(p) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no configured provider supports this capability")
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo contains information about an LLM provider
type ProviderInfo struct {
	Name          string   `json:"name"`
	Models        []string `json:"models"`
	DefaultModel  string   `json:"default_model"`
	Default       bool     `json:"default"`
	Configured    bool     `json:"configured"`
	Transcription bool     `json:"transcription"`
	Speech        bool     `json:"speech"`
}

// GetProvidersInfo returns information about all providers sorted by name
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(r.providers))
	for name, p := range r.providers {
		_, stt := p.(Transcriber)
		_, tts := p.(Synthesizer)
		infos = append(infos, ProviderInfo{
			Name:          name,
			Models:        p.AvailableModels(),
			DefaultModel:  p.DefaultModel(),
			Default:       name == r.defaultProvider,
			Configured:    p.IsConfigured(),
			Transcription: stt,
			Speech:        tts,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
