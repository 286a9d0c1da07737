package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"veille-strategique/config"
	"veille-strategique/llm"
	"veille-strategique/models"
)

// SearchResult is one article returned by the web-search API.
type SearchResult struct {
	Title       string `json:"titre"`
	Summary     string `json:"resume"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"date_publication"`
}

var searchSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"articles": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"titre":            map[string]any{"type": "string"},
					"resume":           map[string]any{"type": "string"},
					"url":              map[string]any{"type": "string"},
					"source":           map[string]any{"type": "string"},
					"date_publication": map[string]any{"type": "string"},
				},
				"required": []string{"titre", "resume", "url", "source", "date_publication"},
			},
		},
	},
	"required": []string{"articles"},
}

const searchSystemPrompt = `Tu es un assistant de veille pour le régulateur des télécommunications.
Recherche des actualités récentes et réponds uniquement avec le JSON demandé.
Les champs titre et resume sont en français; date_publication est au format AAAA-MM-JJ.`

type searchRequest struct {
	Model          string         `json:"model"`
	Messages       []llm.Message  `json:"messages"`
	RecencyFilter  string         `json:"search_recency_filter,omitempty"`
	ResponseFormat map[string]any `json:"response_format"`
}

type searchResponse struct {
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
}

// SearchClient queries a chat-completions endpoint with built-in web search.
type SearchClient struct {
	http  *resty.Client
	model string
}

// NewSearchClient returns nil when no API key is configured.
func NewSearchClient(cfg config.SearchConfig) *SearchClient {
	if cfg.APIKey == "" {
		return nil
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &SearchClient{http: c, model: cfg.Model}
}

// Search returns the articles found for query within recency (day, week, month).
func (c *SearchClient) Search(ctx context.Context, query, recency string) ([]SearchResult, error) {
	body := searchRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: query},
		},
		RecencyFilter: recency,
		ResponseFormat: map[string]any{
			"type":        "json_schema",
			"json_schema": map[string]any{"schema": searchSchema},
		},
	}

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("collector.Search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: search status %d: %s", models.ErrUpstream, resp.StatusCode(), excerpt(resp.String(), 300))
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: search returned no choices", models.ErrParse)
	}
	return ParseSearchResults(out.Choices[0].Message.Content)
}

// ParseSearchResults decodes the {"articles": [...]} document. Unknown
// fields or a missing articles key are parse errors.
func ParseSearchResults(content string) ([]SearchResult, error) {
	raw, err := llm.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var payload struct {
		Articles *[]SearchResult `json:"articles"`
	}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: search payload: %v", models.ErrParse, err)
	}
	if payload.Articles == nil {
		return nil, fmt.Errorf("%w: search payload has no articles", models.ErrParse)
	}
	return *payload.Articles, nil
}

var publishedLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", models.DateLayout, "02/01/2006"}

// parsePublished reads the date of a search result, falling back to now.
func parsePublished(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return now
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
