// Package llm talks to chat-completion providers. Every provider is reached
// through Client, which adds the outbound rate budget, the concurrency cap,
// a circuit breaker and retries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studyforge-backend/internal/config"
)

var (
	// ErrUnavailable means the provider's circuit is open.
	ErrUnavailable = errors.New("AI service temporarily unavailable")
	// ErrNotConfigured is returned by feeds that need a live provider.
	ErrNotConfigured = errors.New("LLM API key not configured")
	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("no content received from LLM provider")
)

type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Completer is what the content services depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Provider is a single vendor integration.
type Provider interface {
	Completer
	Name() string
}

// StatusError carries a non-2xx answer from the provider.
type StatusError struct {
	StatusCode int
	Provider   string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, e.Message)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// NewFromConfig builds the guarded client for the provider selected in cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	var (
		p   Provider
		err error
	)
	switch strings.ToLower(cfg.LLMProvider) {
	case "", "perplexity":
		p = NewPerplexity(cfg.PerplexityAPIKey, cfg.PerplexityBaseURL, cfg.PerplexityModel)
	case "gemini":
		p, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "anthropic":
		p = NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}

	return NewClient(p, Options{
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
		MaxConcurrent:     cfg.LLMConcurrentRequests,
		Timeout:           cfg.LLMTimeout,
	}), nil
}
