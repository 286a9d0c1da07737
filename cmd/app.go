package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"veille-strategique/collector"
	"veille-strategique/database"
	"veille-strategique/enrichment"
	"veille-strategique/llm"
	"veille-strategique/models"
	"veille-strategique/repository"
	"veille-strategique/spdi"
)

// feedMaxAge bounds RSS items before the per-request recency window applies.
const feedMaxAge = 31 * 24 * time.Hour

// app is the wired service graph shared by every command.
type app struct {
	db        *gorm.DB
	store     *repository.Store
	enrich    *enrichment.Service
	spdi      *spdi.Service
	collector *collector.Service
}

func newApp() (*app, error) {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	store := repository.NewStore(db)

	// LLM не обязателен: без ключа работают только правила
	client, err := llm.New(cfg.LLM)
	switch {
	case errors.Is(err, models.ErrNotConfigured):
		log.Warn("language model disabled", slog.String("reason", err.Error()))
		client = nil
	case err != nil:
		return nil, err
	}

	enrich := enrichment.NewService(log, store.Articles, store.Keywords, store.Alerts, store.Logs, client, cfg.Sentiment)
	spdiSvc := spdi.NewService(log, store.Actors, store.Mentions, store.Articles, store.Social, store.Spdi, store.Logs)

	search := collector.NewSearchClient(cfg.Search)
	if search == nil {
		log.Warn("web search disabled: SEARCH_API_KEY is not set")
	}
	coll := newCollector(search, store, enrich)

	return &app{db: db, store: store, enrich: enrich, spdi: spdiSvc, collector: coll}, nil
}

// newCollector keeps a missing search client a nil interface.
func newCollector(search *collector.SearchClient, store *repository.Store, enrich *enrichment.Service) *collector.Service {
	feeds := collector.NewRSSFetcher(feedMaxAge)
	if search == nil {
		return collector.NewService(log, nil, feeds, store.Keywords, store.Articles, enrich, store.Logs, cfg.Collector)
	}
	return collector.NewService(log, search, feeds, store.Keywords, store.Articles, enrich, store.Logs, cfg.Collector)
}

func (a *app) ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("close database", slog.String("error", err.Error()))
		}
	}
}
