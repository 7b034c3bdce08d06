package ai

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/benvon/homework-helper/internal/models"
	"go.uber.org/zap"
)

// DefaultAPIKeyEnv is the environment variable holding the provider credential
const DefaultAPIKeyEnv = "API_KEY"

// KeySource resolves the provider credential. It is consulted on every
// session establishment attempt, so a key added later is picked up.
type KeySource func() (string, bool)

// EnvKeySource reads the credential from the named environment variable
func EnvKeySource(name string) KeySource {
	return func() (string, bool) {
		value, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(value) == "" {
			return "", false
		}
		return value, true
	}
}

// ConversationClient mediates between the chat transcript and one
// long-lived provider session.
//
// The session is created on the first SendMessage and reused afterwards.
// A failed establishment caches nothing. Only one SendMessage may be
// outstanding at a time; overlapping calls get ErrRequestInFlight.
type ConversationClient struct {
	factory           ProviderFactory
	providerName      string
	model             string
	baseURL           string
	keyName           string
	keySource         KeySource
	systemInstruction string
	logger            *zap.Logger

	mu       sync.Mutex // guards session establishment
	session  ChatSession
	inFlight atomic.Bool
}

// ConversationOption configures a ConversationClient
type ConversationOption func(*ConversationClient)

// WithProviderName sets the provider name used in errors and logs
func WithProviderName(name string) ConversationOption {
	return func(c *ConversationClient) {
		c.providerName = name
	}
}

// WithModel sets the model identifier passed to the provider
func WithModel(model string) ConversationOption {
	return func(c *ConversationClient) {
		c.model = model
	}
}

// WithBaseURL overrides the provider endpoint
func WithBaseURL(baseURL string) ConversationOption {
	return func(c *ConversationClient) {
		c.baseURL = baseURL
	}
}

// WithKeySource sets where the credential comes from; name is used in errors
func WithKeySource(name string, source KeySource) ConversationOption {
	return func(c *ConversationClient) {
		c.keyName = name
		c.keySource = source
	}
}

// WithSystemInstruction overrides the system instruction
func WithSystemInstruction(instruction string) ConversationOption {
	return func(c *ConversationClient) {
		c.systemInstruction = instruction
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ConversationOption {
	return func(c *ConversationClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConversationClient creates a client that builds its provider with factory
func NewConversationClient(factory ProviderFactory, opts ...ConversationOption) *ConversationClient {
	c := &ConversationClient{
		factory:           factory,
		providerName:      ProviderGemini,
		keyName:           DefaultAPIKeyEnv,
		keySource:         EnvKeySource(DefaultAPIKeyEnv),
		systemInstruction: SystemInstruction,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetInitialMessage asks the provider for an opening greeting without using
// the session. It never fails: any error yields FallbackGreeting.
func (c *ConversationClient) GetInitialMessage(ctx context.Context) string {
	provider, _, err := c.newProvider()
	if err != nil {
		c.logger.Warn("initial_message_provider_unavailable",
			zap.String("provider", c.providerName),
			zap.Error(err),
		)
		return FallbackGreeting
	}

	text, err := provider.GenerateContent(ctx, GreetingPrompt, c.systemInstruction)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		c.logger.Warn("initial_message_failed_using_fallback",
			zap.String("provider", c.providerName),
			zap.Bool("rate_limited", IsRateLimitError(err)),
			zap.Error(err),
		)
		return FallbackGreeting
	}
	return text
}

// SendMessage sends the user's question, prefixed with a snapshot of tasks,
// through the session and returns the reply verbatim. Failures are returned
// as *ProviderError.
func (c *ConversationClient) SendMessage(ctx context.Context, rawUserText string, tasks []models.HomeworkItem) (string, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer c.inFlight.Store(false)

	message := BuildAugmentedMessage(rawUserText, tasks)

	session, err := c.ensureSession(ctx)
	if err != nil {
		c.logger.Error("chat_session_unavailable",
			zap.String("provider", c.providerName),
			zap.Bool("configuration_error", IsConfigurationError(err)),
			zap.Error(err),
		)
		return "", newProviderError("start_chat", c.providerName, err)
	}

	reply, err := session.SendMessage(ctx, message)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		pe := newProviderError("send_message", c.providerName, err)
		c.logger.Error("chat_message_failed",
			zap.String("provider", c.providerName),
			zap.Int("status_code", pe.StatusCode),
			zap.Bool("rate_limited", IsRateLimitError(pe)),
			zap.Error(err),
		)
		return "", pe
	}
	return reply, nil
}

// InFlight reports whether a SendMessage call is outstanding
func (c *ConversationClient) InFlight() bool {
	return c.inFlight.Load()
}

// SessionReady reports whether the session has been established
func (c *ConversationClient) SessionReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// CredentialPresent reports whether the key source currently yields a key
func (c *ConversationClient) CredentialPresent() bool {
	_, ok := c.keySource()
	return ok
}

func (c *ConversationClient) ensureSession(ctx context.Context) (ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	provider, apiKey, err := c.newProvider()
	if err != nil {
		return nil, err
	}

	session, err := provider.StartChat(ctx, c.systemInstruction)
	if err != nil {
		return nil, err
	}

	c.session = session
	c.logger.Info("chat_session_established",
		zap.String("provider", c.providerName),
		zap.String("model", c.model),
		zap.String("api_key", SanitizeAPIKey(apiKey)),
	)
	return session, nil
}

// newProvider resolves the credential and builds a provider with it
func (c *ConversationClient) newProvider() (Provider, string, error) {
	apiKey, ok := c.keySource()
	if !ok {
		return nil, "", &ConfigurationError{Key: c.keyName, Err: ErrMissingCredential}
	}
	provider, err := c.factory(map[string]string{
		ConfigAPIKey:  apiKey,
		ConfigModel:   c.model,
		ConfigBaseURL: c.baseURL,
	})
	return provider, apiKey, err
}
