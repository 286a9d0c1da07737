// Package llm wraps the language-model providers used for sentiment scoring
// and article analysis behind a single Client interface.
package llm

import (
	"context"
	"fmt"
	"strings"

	"veille-strategique/config"
	"veille-strategique/models"
)

// Request is a single-turn completion request.
type Request struct {
	System string
	Prompt string
	// Schema, when set, asks the provider for a strict JSON document.
	Schema     map[string]any
	SchemaName string
	MaxTokens  int
}

// Client completes prompts.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the provider selected by cfg.Provider.
func New(cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY is not set", models.ErrNotConfigured)
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		return NewChatClient(cfg), nil
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", models.ErrNotConfigured, cfg.Provider)
	}
}
