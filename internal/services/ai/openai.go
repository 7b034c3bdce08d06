package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// ProviderOpenAI is the registry name of the OpenAI provider
	ProviderOpenAI = "openai"
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIProvider implements Provider using OpenAI's chat completions API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	// A turn is issued exactly once and waits as long as the provider takes.
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// GenerateContent runs a single completion without a session
func (p *OpenAIProvider) GenerateContent(ctx context.Context, prompt, systemInstruction string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	info := callInfo{provider: ProviderOpenAI, model: p.model, operation: "generate_content", prompt: prompt}
	return observeCall(ctx, p.logger, p.debugMode, info, func(ctx context.Context) (string, error) {
		return p.complete(ctx, messages)
	})
}

// StartChat opens a session. Chat completions are stateless, so the session
// replays its own history on every turn.
func (p *OpenAIProvider) StartChat(_ context.Context, systemInstruction string) (ChatSession, error) {
	s := &openAISession{provider: p}
	if systemInstruction != "" {
		s.history = append(s.history, openai.SystemMessage(systemInstruction))
	}
	return s, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	// Temperature omitted - some models only support their default value
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
	}

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to chat: %w", apiErr)
		}
		return "", fmt.Errorf("failed to chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response: %w", ErrEmptyResponse)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

type openAISession struct {
	provider *OpenAIProvider
	mu       sync.Mutex
	history  []openai.ChatCompletionMessageParamUnion
}

// SendMessage records the turn in the history only when the call succeeds
func (s *openAISession) SendMessage(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]openai.ChatCompletionMessageParamUnion, len(s.history), len(s.history)+1)
	copy(messages, s.history)
	messages = append(messages, openai.UserMessage(text))

	p := s.provider
	info := callInfo{provider: ProviderOpenAI, model: p.model, operation: "chat", prompt: text}
	reply, err := observeCall(ctx, p.logger, p.debugMode, info, func(ctx context.Context) (string, error) {
		return p.complete(ctx, messages)
	})
	if err != nil {
		return "", err
	}

	s.history = append(messages, openai.AssistantMessage(reply))
	return reply, nil
}

// RegisterOpenAI registers the OpenAI provider factory
func RegisterOpenAI(registry *ProviderRegistry, logger *zap.Logger, debugMode bool) {
	registry.Register(ProviderOpenAI, func(config map[string]string) (Provider, error) {
		apiKey := config[ConfigAPIKey]
		if apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required: %w", ErrMissingCredential)
		}
		return NewOpenAIProviderWithLogger(apiKey, config[ConfigBaseURL], config[ConfigModel], logger, debugMode), nil
	})
}
