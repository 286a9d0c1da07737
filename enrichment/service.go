// Package enrichment runs the keyword pipeline on articles, raises alerts,
// scores sentiment in batches and produces AI analyses.
package enrichment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"veille-strategique/config"
	"veille-strategique/llm"
	"veille-strategique/models"
	"veille-strategique/repository"
)

// Run types written to collectes_log.
const (
	RunEnrichment = "enrichissement"
	RunSentiment  = "sentiment_batch"
)

type articleRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Article, error)
	UpdateEnrichment(ctx context.Context, id uuid.UUID, e repository.Enrichment) error
	UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis models.ArticleAnalysis) error
	UpdateSentiment(ctx context.Context, id uuid.UUID, sentiment float64) error
	ListUnscored(ctx context.Context, limit int) ([]models.Article, error)
}

type keywordRepo interface {
	ListActive(ctx context.Context) ([]models.KeywordRule, error)
}

type alertRepo interface {
	Create(ctx context.Context, a *models.Alert) error
}

type logRepo interface {
	Write(ctx context.Context, l *models.CollectionLog) error
}

// Service is the enrichment pipeline.
type Service struct {
	log       *slog.Logger
	articles  articleRepo
	keywords  keywordRepo
	alerts    alertRepo
	logs      logRepo
	llm       llm.Client
	sentiment config.SentimentConfig
}

// NewService creates the enrichment service. client may be nil, in which
// case the AI operations fail with models.ErrNotConfigured.
func NewService(
	log *slog.Logger,
	articles articleRepo,
	keywords keywordRepo,
	alerts alertRepo,
	logs logRepo,
	client llm.Client,
	sentiment config.SentimentConfig,
) *Service {
	return &Service{
		log:       log.With("service", "enrichment"),
		articles:  articles,
		keywords:  keywords,
		alerts:    alerts,
		logs:      logs,
		llm:       client,
		sentiment: sentiment,
	}
}

// writeRun stores the audit row, even when ctx is already cancelled.
// A failure is only logged.
func (s *Service) writeRun(ctx context.Context, l *models.CollectionLog) {
	if err := s.logs.Write(context.WithoutCancel(ctx), l); err != nil {
		s.log.ErrorContext(ctx, "write run log", slog.String("type", l.Type), slog.String("error", err.Error()))
	}
}
