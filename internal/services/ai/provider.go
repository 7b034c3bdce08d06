package ai

import (
	"context"
	"sort"
)

// Provider is the boundary to a hosted language model
type Provider interface {
	// GenerateContent runs a single stateless generation
	GenerateContent(ctx context.Context, prompt, systemInstruction string) (string, error)

	// StartChat opens a session that keeps prior turns as context
	StartChat(ctx context.Context, systemInstruction string) (ChatSession, error)
}

// ChatSession is a provider-side conversation
type ChatSession interface {
	// SendMessage submits one turn and returns the model's reply
	SendMessage(ctx context.Context, text string) (string, error)
}

// Provider config keys understood by the registered factories
const (
	ConfigAPIKey  = "api_key"
	ConfigModel   = "model"
	ConfigBaseURL = "base_url"
)

// ProviderFactory creates a provider from configuration
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available AI providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Factory returns the factory registered under name
func (r *ProviderRegistry) Factory(name string) (ProviderFactory, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory, nil
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, err := r.Factory(name)
	if err != nil {
		return nil, err
	}
	return factory(config)
}

// Names returns the registered provider names, sorted
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
