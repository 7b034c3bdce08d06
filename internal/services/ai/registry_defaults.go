package ai

import "go.uber.org/zap"

// NewDefaultRegistry returns a registry with every built-in provider
func NewDefaultRegistry(logger *zap.Logger, debugMode bool) *ProviderRegistry {
	registry := NewProviderRegistry()
	RegisterGemini(registry, logger, debugMode)
	RegisterOpenAI(registry, logger, debugMode)
	return registry
}
