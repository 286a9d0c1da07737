// Package collector gathers news from the web-search API and RSS feeds,
// stores new articles and enriches them inline.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"veille-strategique/config"
	"veille-strategique/enrichment"
	"veille-strategique/metrics"
	"veille-strategique/models"
)

// Collection types.
const (
	TypeCritical = "critique"
	TypeDaily    = "quotidienne"
)

// Recency filters.
const (
	RecencyDay   = "day"
	RecencyWeek  = "week"
	RecencyMonth = "month"
)

// termsPerQuery bounds the number of keywords sent in one search call.
const termsPerQuery = 8

// Request selects what to collect.
type Request struct {
	Type    string `json:"type"`
	Recency string `json:"recency"`
}

// Validate normalises r and checks its fields.
func (r *Request) Validate() error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Recency = strings.ToLower(strings.TrimSpace(r.Recency))
	if r.Type != TypeCritical && r.Type != TypeDaily {
		return models.NewFieldError("type", "must be critique or quotidienne")
	}
	switch r.Recency {
	case "":
		r.Recency = RecencyDay
	case RecencyDay, RecencyWeek, RecencyMonth:
	default:
		return models.NewFieldError("recency", "must be day, week or month")
	}
	return nil
}

// Result summarises one collection run.
type Result struct {
	Inserted   int   `json:"nb_resultats"`
	Duplicates int   `json:"nb_doublons"`
	DurationMs int64 `json:"duree_ms"`
}

type searcher interface {
	Search(ctx context.Context, query, recency string) ([]SearchResult, error)
}

type feedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

type keywordRepo interface {
	ListActive(ctx context.Context) ([]models.KeywordRule, error)
}

type articleRepo interface {
	ExistingTitles(ctx context.Context, titles []string) (map[string]bool, error)
	Create(ctx context.Context, a *models.Article) error
}

type enricher interface {
	Apply(ctx context.Context, article *models.Article, rules *enrichment.RuleSet) (*enrichment.Result, error)
}

type logRepo interface {
	Write(ctx context.Context, l *models.CollectionLog) error
}

// Service runs collections.
type Service struct {
	log      *slog.Logger
	search   searcher
	feeds    feedFetcher
	keywords keywordRepo
	articles articleRepo
	enricher enricher
	logs     logRepo
	cfg      config.CollectorConfig
}

// NewService creates the collector. search may be nil when no search API
// key is configured; collections then fail with models.ErrNotConfigured.
func NewService(
	log *slog.Logger,
	search searcher,
	feeds feedFetcher,
	keywords keywordRepo,
	articles articleRepo,
	enricher enricher,
	logs logRepo,
	cfg config.CollectorConfig,
) *Service {
	return &Service{
		log:      log.With("service", "collector"),
		search:   search,
		feeds:    feeds,
		keywords: keywords,
		articles: articles,
		enricher: enricher,
		logs:     logs,
		cfg:      cfg,
	}
}

// candidate is a collected item before deduplication.
type candidate struct {
	origin  string
	article models.Article
}

// Collect runs one collection and writes one collecte_<type> row.
func (s *Service) Collect(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	started := time.Now()
	runType := "collecte_" + req.Type

	res, errs, err := s.collect(ctx, req)
	res.DurationMs = time.Since(started).Milliseconds()

	status := models.StatusSuccess
	switch {
	case err != nil:
		status = models.StatusError
		errs = append(errs, err)
	case len(errs) > 0 && res.Inserted == 0:
		status = models.StatusError
	case len(errs) > 0:
		status = models.StatusPartial
	}
	msg := ""
	if len(errs) > 0 {
		msg = errors.Join(errs...).Error()
	}
	if werr := s.logs.Write(context.WithoutCancel(ctx), models.NewRunLog(runType, status, res.Inserted, started, msg)); werr != nil {
		s.log.ErrorContext(ctx, "write run log", slog.String("type", runType), slog.String("error", werr.Error()))
	}
	metrics.RecordRun(runType, status, time.Since(started))

	s.log.InfoContext(ctx, "collection finished",
		slog.String("type", req.Type),
		slog.String("recency", req.Recency),
		slog.Int("inserted", res.Inserted),
		slog.Int("duplicates", res.Duplicates),
		slog.String("status", status),
	)
	return res, err
}

func (s *Service) collect(ctx context.Context, req Request) (Result, []error, error) {
	var res Result
	if s.search == nil {
		return res, nil, fmt.Errorf("collector.Collect: %w: SEARCH_API_KEY is not set", models.ErrNotConfigured)
	}

	rules, err := s.keywords.ListActive(ctx)
	if err != nil {
		return res, nil, fmt.Errorf("collector.Collect: %w", err)
	}
	terms := s.selectTerms(req.Type, rules)
	ruleSet := enrichment.NewRuleSet(rules)

	var errs []error
	var candidates []candidate
	searchFailures, searchCalls := 0, 0

	for start := 0; start < len(terms); start += termsPerQuery {
		batch := terms[start:min(start+termsPerQuery, len(terms))]
		searchCalls++
		found, err := s.search.Search(ctx, s.query(batch), req.Recency)
		if err != nil {
			searchFailures++
			s.log.WarnContext(ctx, "search failed", slog.Any("terms", batch), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		now := time.Now().UTC()
		for _, r := range found {
			candidates = append(candidates, candidate{origin: "search", article: models.Article{
				Title:       strings.TrimSpace(r.Title),
				Summary:     cleanText(r.Summary),
				SourceName:  strings.TrimSpace(r.Source),
				SourceURL:   strings.TrimSpace(r.URL),
				PublishedAt: parsePublished(r.PublishedAt, now),
			}})
		}
	}
	if searchCalls > 0 && searchFailures == searchCalls {
		return res, nil, errors.Join(errs...)
	}

	if req.Type == TypeDaily && s.feeds != nil {
		for _, url := range s.cfg.Feeds {
			items, err := s.feeds.Fetch(ctx, url)
			if err != nil {
				s.log.WarnContext(ctx, "feed failed", slog.String("url", url), slog.String("error", err.Error()))
				errs = append(errs, err)
				continue
			}
			for _, it := range items {
				a := models.Article{
					Title:       strings.TrimSpace(cleanText(it.Title)),
					Summary:     cleanText(it.Summary),
					SourceName:  it.Source,
					SourceURL:   it.Link,
					PublishedAt: it.PublishedAt,
				}
				if it.PublishedAt.Before(time.Now().Add(-recencyWindow(req.Recency))) {
					continue
				}
				if len(ruleSet.Match(a.Text()).Tags) == 0 {
					continue
				}
				candidates = append(candidates, candidate{origin: "rss", article: a})
			}
		}
	}

	fresh, dups, err := s.dedupe(ctx, candidates)
	if err != nil {
		return res, errs, fmt.Errorf("collector.Collect: %w", err)
	}
	res.Duplicates = dups

	for i := range fresh {
		c := &fresh[i]
		if err := s.articles.Create(ctx, &c.article); err != nil {
			s.log.WarnContext(ctx, "article insert failed", slog.String("title", c.article.Title), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		res.Inserted++
		metrics.ArticlesCollected.WithLabelValues(c.origin).Inc()

		if _, err := s.enricher.Apply(ctx, &c.article, ruleSet); err != nil {
			s.log.WarnContext(ctx, "inline enrichment failed",
				slog.String("article_id", c.article.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, errs, nil
}

// selectTerms picks the keywords searched for a collection type. rules are
// ordered by descending criticality.
func (s *Service) selectTerms(collectionType string, rules []models.KeywordRule) []string {
	var terms []string
	for _, r := range rules {
		if collectionType == TypeCritical {
			if r.AutoAlert || r.Criticality >= s.cfg.CriticalMinimum {
				terms = append(terms, r.Term)
			}
			continue
		}
		if s.cfg.MaxDailyTerms > 0 && len(terms) >= s.cfg.MaxDailyTerms {
			break
		}
		terms = append(terms, r.Term)
	}
	return terms
}

func (s *Service) query(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return fmt.Sprintf("Actualités télécommunications %s concernant : %s",
		s.cfg.Region, strings.Join(quoted, " OR "))
}

// dedupe drops empty titles, titles repeated within the run and titles
// already stored.
func (s *Service) dedupe(ctx context.Context, candidates []candidate) ([]candidate, int, error) {
	seen := make(map[string]bool, len(candidates))
	unique := make([]candidate, 0, len(candidates))
	titles := make([]string, 0, len(candidates))
	dups := 0

	for _, c := range candidates {
		if c.article.Title == "" {
			continue
		}
		if seen[c.article.Title] {
			dups++
			continue
		}
		seen[c.article.Title] = true
		unique = append(unique, c)
		titles = append(titles, c.article.Title)
	}

	existing, err := s.articles.ExistingTitles(ctx, titles)
	if err != nil {
		return nil, 0, err
	}
	fresh := unique[:0]
	for _, c := range unique {
		if existing[c.article.Title] {
			dups++
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, dups, nil
}
