package llm

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"veille-strategique/config"
	"veille-strategique/models"
)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// DefaultChatBaseURL is used when no base URL is configured.
const DefaultChatBaseURL = "https://api.openai.com/v1"

// ChatClient talks to any OpenAI-compatible chat-completions endpoint.
type ChatClient struct {
	http      *resty.Client
	model     string
	maxTokens int
}

// NewChatClient creates a chat-completions client.
func NewChatClient(cfg config.LLMConfig) *ChatClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultChatBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ChatClient{http: c, model: cfg.Model, maxTokens: cfg.MaxTokens}
}

// Complete sends a single user prompt and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if req.System != "" {
		body.Messages = append(body.Messages, Message{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, Message{Role: "user", Content: req.Prompt})
	if req.Schema != nil {
		body.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: schemaName(req), Strict: true, Schema: req.Schema},
		}
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm.Complete: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: llm status %d: %s", models.ErrUpstream, resp.StatusCode(), truncate(resp.String(), 300))
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: llm returned no choices", models.ErrParse)
	}

	return out.Choices[0].Message.Content, nil
}

func schemaName(req Request) string {
	if req.SchemaName != "" {
		return req.SchemaName
	}
	return "response"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
