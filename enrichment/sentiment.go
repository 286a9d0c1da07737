package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"veille-strategique/config"
	"veille-strategique/llm"
	"veille-strategique/metrics"
	"veille-strategique/models"
	"veille-strategique/scoring"
)

const summaryPromptRunes = 300

const sentimentSystemPrompt = `Tu es un analyste de veille pour un régulateur des télécommunications.
Pour chaque actualité numérotée, estime la tonalité envers le secteur des télécommunications
entre -1 (très négative) et 1 (très positive). Réponds uniquement avec le JSON demandé,
un score par actualité, dans le même ordre.`

var sentimentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"scores": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "number"},
		},
	},
	"required":             []string{"scores"},
	"additionalProperties": false,
}

// SentimentResult is the outcome of one sentiment sweep.
type SentimentResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

// ScoreSentiments scores up to limit unscored articles, most recent first.
// A limit <= 0 means the configured default; the configured maximum caps it.
// Failed chunks are skipped and their articles stay unscored.
func (s *Service) ScoreSentiments(ctx context.Context, limit int) (SentimentResult, error) {
	started := time.Now()

	res, errs, err := s.scoreSentiments(ctx, limit)

	status := models.StatusSuccess
	switch {
	case err != nil:
		status = models.StatusError
		errs = append(errs, err)
	case len(errs) > 0 && res.Updated == 0:
		status = models.StatusError
	case len(errs) > 0:
		status = models.StatusPartial
	}
	msg := ""
	if len(errs) > 0 {
		msg = errors.Join(errs...).Error()
	}
	s.writeRun(ctx, models.NewRunLog(RunSentiment, status, res.Updated, started, msg))
	metrics.RecordRun(RunSentiment, status, time.Since(started))

	s.log.InfoContext(ctx, "sentiment sweep finished",
		slog.Int("processed", res.Processed),
		slog.Int("updated", res.Updated),
		slog.Int("errors", len(errs)),
		slog.String("status", status),
	)
	return res, err
}

func (s *Service) scoreSentiments(ctx context.Context, limit int) (SentimentResult, []error, error) {
	var res SentimentResult
	if s.llm == nil {
		return res, nil, fmt.Errorf("enrichment.ScoreSentiments: %w: no language model configured", models.ErrNotConfigured)
	}

	articles, err := s.articles.ListUnscored(ctx, s.effectiveLimit(limit))
	if err != nil {
		return res, nil, fmt.Errorf("enrichment.ScoreSentiments: %w", err)
	}
	res.Processed = len(articles)

	chunkSize := max(1, s.sentiment.ChunkSize)
	var chunkErrs []error
	for start := 0; start < len(articles); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return res, chunkErrs, fmt.Errorf("enrichment.ScoreSentiments: %w", err)
		}
		chunk := articles[start:min(start+chunkSize, len(articles))]

		scores, err := s.scoreChunk(ctx, chunk)
		if err != nil {
			s.log.WarnContext(ctx, "sentiment chunk skipped",
				slog.Int("offset", start),
				slog.Int("size", len(chunk)),
				slog.String("error", err.Error()),
			)
			chunkErrs = append(chunkErrs, fmt.Errorf("chunk %d: %w", start/chunkSize, err))
			continue
		}

		for i, a := range chunk {
			if err := s.articles.UpdateSentiment(ctx, a.ID, scores[i]); err != nil {
				s.log.WarnContext(ctx, "sentiment write failed",
					slog.String("article_id", a.ID.String()),
					slog.String("error", err.Error()),
				)
				chunkErrs = append(chunkErrs, fmt.Errorf("article %s: %w", a.ID, err))
				continue
			}
			res.Updated++
		}
	}
	return res, chunkErrs, nil
}

func (s *Service) effectiveLimit(limit int) int {
	if limit <= 0 {
		limit = s.sentiment.DefaultLimit
	}
	if s.sentiment.MaxLimit > 0 && limit > s.sentiment.MaxLimit {
		limit = s.sentiment.MaxLimit
	}
	return min(limit, config.SentimentHardLimit)
}

func (s *Service) scoreChunk(ctx context.Context, chunk []models.Article) ([]float64, error) {
	out, err := s.llm.Complete(ctx, llm.Request{
		System:     sentimentSystemPrompt,
		Prompt:     sentimentPrompt(chunk),
		Schema:     sentimentSchema,
		SchemaName: "sentiment_scores",
	})
	metrics.RecordLLMCall("sentiment", err)
	if err != nil {
		return nil, err
	}
	return ParseScores(out, len(chunk))
}

func sentimentPrompt(chunk []models.Article) string {
	var b strings.Builder
	b.WriteString("Actualités :\n")
	for i, a := range chunk {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, a.Title, truncateRunes(a.Summary, summaryPromptRunes))
	}
	fmt.Fprintf(&b, "\nRetourne exactement %d scores.", len(chunk))
	return b.String()
}

// ParseScores reads the first JSON array of out as exactly want scores,
// clamped to [-1, 1] and rounded to two decimals. Anything else is an
// ErrParse.
func ParseScores(out string, want int) ([]float64, error) {
	raw, err := llm.ExtractJSONArray(out)
	if err != nil {
		return nil, err
	}

	var values []*float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: scores are not numbers: %v", models.ErrParse, err)
	}
	if len(values) != want {
		return nil, fmt.Errorf("%w: got %d scores for %d articles", models.ErrParse, len(values), want)
	}

	scores := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: score %d is null", models.ErrParse, i+1)
		}
		scores[i] = scoring.Round2(math.Max(-1, math.Min(1, *v)))
	}
	return scores, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
