package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veille-strategique/metrics"
	"veille-strategique/models"
	"veille-strategique/repository"
	"veille-strategique/scoring"
)

// criticalAlertThreshold is the number of auto-alert matches in one article
// from which its alerts are raised as critical.
const criticalAlertThreshold = 3

// Result is the enrichment written to one article.
type Result struct {
	ArticleID            uuid.UUID               `json:"actualite_id"`
	Tags                 []string                `json:"tags"`
	Category             string                  `json:"categorie"`
	Importance           int                     `json:"importance"`
	DominantQuadrant     models.Quadrant         `json:"quadrant_dominant"`
	QuadrantDistribution map[models.Quadrant]int `json:"quadrant_distribution"`
	TriggeredAlerts      []string                `json:"alertes_declenchees"`
	AlertsCreated        int                     `json:"alertes_creees"`
}

// EnrichArticle runs the keyword pipeline on one stored article and writes
// one collectes_log row.
func (s *Service) EnrichArticle(ctx context.Context, id uuid.UUID) (*Result, error) {
	started := time.Now()

	res, err := s.enrichByID(ctx, id)

	status, count, msg := models.StatusSuccess, 1, ""
	if err != nil {
		status, count, msg = models.StatusError, 0, err.Error()
	}
	s.writeRun(ctx, models.NewRunLog(RunEnrichment, status, count, started, msg))
	metrics.RecordRun(RunEnrichment, status, time.Since(started))

	return res, err
}

func (s *Service) enrichByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("enrichment.EnrichArticle: %w", err)
	}
	rules, err := s.keywords.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("enrichment.EnrichArticle: %w", err)
	}
	return s.Apply(ctx, article, NewRuleSet(rules))
}

// RuleSet is a compiled keyword dictionary reusable across articles.
type RuleSet struct {
	matcher    *scoring.Matcher
	categories map[string]string
}

// NewRuleSet compiles the active rules once.
func NewRuleSet(rules []models.KeywordRule) *RuleSet {
	rs := &RuleSet{
		matcher:    scoring.NewMatcher(rules),
		categories: make(map[string]string, len(rules)),
	}
	for _, r := range rules {
		if _, ok := rs.categories[r.Term]; !ok && r.Category != "" {
			rs.categories[r.Term] = r.Category
		}
	}
	return rs
}

// Match runs the dictionary over text.
func (rs *RuleSet) Match(text string) scoring.Match {
	return rs.matcher.Match(text)
}

// category is the category of the most critical matched rule, else the
// dominant quadrant key.
func (rs *RuleSet) category(m scoring.Match) string {
	for _, tag := range m.Tags {
		if c, ok := rs.categories[tag]; ok {
			return c
		}
	}
	return string(m.DominantQuadrant)
}

// Apply enriches an article already loaded in memory and raises its alerts.
// It does not write a run log, so callers batching articles log once.
func (s *Service) Apply(ctx context.Context, article *models.Article, rules *RuleSet) (*Result, error) {
	m := rules.Match(article.Text())
	category := rules.category(m)

	analysis := article.Analysis.Data()
	analysis.DominantQuadrant = m.DominantQuadrant
	analysis.QuadrantDistribution = m.QuadrantDistribution
	analysis.TriggeredAlerts = m.TriggeredAlerts
	analysis.Summary = summarize(m)

	err := s.articles.UpdateEnrichment(ctx, article.ID, repository.Enrichment{
		Tags:       m.Tags,
		Category:   category,
		Quadrant:   m.DominantQuadrant,
		Importance: m.Importance,
		Analysis:   analysis,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment.Apply: %w", err)
	}
	metrics.ArticlesEnriched.Inc()

	created := s.raiseAlerts(ctx, article, m.TriggeredAlerts)

	s.log.InfoContext(ctx, "article enriched",
		slog.String("article_id", article.ID.String()),
		slog.Int("importance", m.Importance),
		slog.String("quadrant", string(m.DominantQuadrant)),
		slog.Int("alerts", created),
	)

	return &Result{
		ArticleID:            article.ID,
		Tags:                 m.Tags,
		Category:             category,
		Importance:           m.Importance,
		DominantQuadrant:     m.DominantQuadrant,
		QuadrantDistribution: m.QuadrantDistribution,
		TriggeredAlerts:      m.TriggeredAlerts,
		AlertsCreated:        created,
	}, nil
}

// raiseAlerts inserts one alert per triggered term. Insert failures are
// logged and counted but never returned.
func (s *Service) raiseAlerts(ctx context.Context, article *models.Article, terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	level := models.AlertWarning
	if len(terms) >= criticalAlertThreshold {
		level = models.AlertCritical
	}

	created := 0
	for _, term := range terms {
		alert := &models.Alert{
			Type:          models.AlertTypeCriticalKeyword,
			Level:         level,
			Title:         fmt.Sprintf("Mot-clé critique détecté : %s", term),
			Message:       article.Title,
			ReferenceType: models.ReferenceArticle,
			ReferenceID:   article.ID,
		}
		err := s.alerts.Create(ctx, alert)
		metrics.RecordAlert(string(level), err)
		if err != nil {
			s.log.WarnContext(ctx, "alert insert failed",
				slog.String("article_id", article.ID.String()),
				slog.String("term", term),
				slog.String("error", err.Error()),
			)
			continue
		}
		created++
	}
	return created
}

func summarize(m scoring.Match) string {
	if len(m.Tags) == 0 {
		return "Aucun mot-clé de veille détecté."
	}
	return fmt.Sprintf("%d mot(s)-clé(s) détecté(s), quadrant dominant : %s, importance %d/100.",
		len(m.Tags), m.DominantQuadrant.Info().Label, m.Importance)
}
