package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// ProviderGemini is the registry name of the Gemini provider
	ProviderGemini = "gemini"
	// DefaultGeminiModel is the default model to use
	DefaultGeminiModel = "gemini-2.5-flash"
)

// GeminiProvider implements Provider using Google's Gemini API
type GeminiProvider struct {
	client    *genai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required: %w", ErrMissingCredential)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}, nil
}

func (p *GeminiProvider) contentConfig(systemInstruction string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}
	return cfg
}

// GenerateContent runs a single generation without a session
func (p *GeminiProvider) GenerateContent(ctx context.Context, prompt, systemInstruction string) (string, error) {
	info := callInfo{provider: ProviderGemini, model: p.model, operation: "generate_content", prompt: prompt}
	return observeCall(ctx, p.logger, p.debugMode, info, func(ctx context.Context) (string, error) {
		resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), p.contentConfig(systemInstruction))
		if err != nil {
			return "", fmt.Errorf("GenAI generate failed: %w", err)
		}
		return responseText(resp)
	})
}

// StartChat opens a Gemini chat; the SDK keeps the turn history
func (p *GeminiProvider) StartChat(ctx context.Context, systemInstruction string) (ChatSession, error) {
	chat, err := p.client.Chats.Create(ctx, p.model, p.contentConfig(systemInstruction), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI chat: %w", err)
	}
	return &geminiSession{provider: p, chat: chat}, nil
}

type geminiSession struct {
	provider *GeminiProvider
	chat     *genai.Chat
}

func (s *geminiSession) SendMessage(ctx context.Context, text string) (string, error) {
	p := s.provider
	info := callInfo{provider: ProviderGemini, model: p.model, operation: "chat", prompt: text}
	return observeCall(ctx, p.logger, p.debugMode, info, func(ctx context.Context) (string, error) {
		resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
		if err != nil {
			return "", fmt.Errorf("GenAI chat failed: %w", err)
		}
		return responseText(resp)
	})
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// RegisterGemini registers the Gemini provider factory
func RegisterGemini(registry *ProviderRegistry, logger *zap.Logger, debugMode bool) {
	registry.Register(ProviderGemini, func(config map[string]string) (Provider, error) {
		apiKey := config[ConfigAPIKey]
		if apiKey == "" {
			return nil, fmt.Errorf("gemini api_key is required: %w", ErrMissingCredential)
		}
		return NewGeminiProvider(context.Background(), apiKey, config[ConfigBaseURL], config[ConfigModel], logger, debugMode)
	})
}
