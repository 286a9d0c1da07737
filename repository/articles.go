package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"veille-strategique/models"
)

// ArticleRepo persists actualites.
type ArticleRepo struct {
	db *gorm.DB
}

// ArticleFilter narrows List. Zero values disable a filter.
type ArticleFilter struct {
	Category      string
	Quadrant      models.Quadrant
	Tag           string
	MinImportance int
	DateFrom      *time.Time
	Limit         int
}

// Enrichment is the set of pipeline-owned columns.
type Enrichment struct {
	Tags       []string
	Category   string
	Quadrant   models.Quadrant
	Importance int
	Analysis   models.ArticleAnalysis
}

// ArticleStats summarises the corpus for the dashboard.
type ArticleStats struct {
	Total            int64   `json:"total"`
	HighImportance   int64   `json:"importance_haute"`
	MediumImportance int64   `json:"importance_moyenne"`
	AvgImportance    float64 `json:"importance_moyenne_globale"`
	Positive         int64   `json:"positives"`
	Negative         int64   `json:"negatives"`
	Unscored         int64   `json:"sans_sentiment"`
	Categories       int64   `json:"categories"`
}

// QuadrantCount is the number of articles per dominant quadrant.
type QuadrantCount struct {
	Quadrant models.Quadrant `json:"quadrant"`
	Count    int64           `json:"count"`
}

func (r *ArticleRepo) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var a models.Article
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, mapErr("articles.Get", err)
	}
	return &a, nil
}

func (r *ArticleRepo) Create(ctx context.Context, a *models.Article) error {
	return mapErr("articles.Create", r.db.WithContext(ctx).Create(a).Error)
}

// UpdateEnrichment overwrites the pipeline-owned columns of one article.
func (r *ArticleRepo) UpdateEnrichment(ctx context.Context, id uuid.UUID, e Enrichment) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(map[string]any{
		"tags":       datatypes.JSONSlice[string](e.Tags),
		"categorie":  e.Category,
		"quadrant":   e.Quadrant,
		"importance": e.Importance,
		"analyse_ia": datatypes.NewJSONType(e.Analysis),
	})
	return notFoundIfNone("articles.UpdateEnrichment", res)
}

// UpdateAnalysis replaces the analyse_ia document.
func (r *ArticleRepo) UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis models.ArticleAnalysis) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).
		Update("analyse_ia", datatypes.NewJSONType(analysis))
	return notFoundIfNone("articles.UpdateAnalysis", res)
}

// UpdateSentiment sets the sentiment of one article.
func (r *ArticleRepo) UpdateSentiment(ctx context.Context, id uuid.UUID, sentiment float64) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Update("sentiment", sentiment)
	return notFoundIfNone("articles.UpdateSentiment", res)
}

// ListUnscored returns the most recent articles whose sentiment is still null.
func (r *ArticleRepo) ListUnscored(ctx context.Context, limit int) ([]models.Article, error) {
	var out []models.Article
	err := r.db.WithContext(ctx).
		Where("sentiment IS NULL").
		Order("date_publication DESC").
		Limit(limit).
		Find(&out).Error
	return out, mapErr("articles.ListUnscored", err)
}

// ExistingTitles returns which of titles are already stored.
func (r *ArticleRepo) ExistingTitles(ctx context.Context, titles []string) (map[string]bool, error) {
	out := make(map[string]bool, len(titles))
	if len(titles) == 0 {
		return out, nil
	}
	var found []string
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Where("titre IN ?", titles).Pluck("titre", &found).Error; err != nil {
		return nil, mapErr("articles.ExistingTitles", err)
	}
	for _, t := range found {
		out[t] = true
	}
	return out, nil
}

// PublishedSince returns every article published at or after from.
func (r *ArticleRepo) PublishedSince(ctx context.Context, from time.Time) ([]models.Article, error) {
	var out []models.Article
	err := r.db.WithContext(ctx).Where("date_publication >= ?", from).Order("date_publication DESC").Find(&out).Error
	return out, mapErr("articles.PublishedSince", err)
}

// List returns articles matching f, most recent first.
func (r *ArticleRepo) List(ctx context.Context, f ArticleFilter) ([]models.Article, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})

	if f.Category != "" {
		query = query.Where("categorie = ?", f.Category)
	}
	if f.Quadrant != "" {
		query = query.Where("quadrant = ?", f.Quadrant)
	}
	if f.MinImportance > 0 {
		query = query.Where("importance >= ?", f.MinImportance)
	}
	if f.DateFrom != nil {
		query = query.Where("date_publication >= ?", *f.DateFrom)
	}
	if f.Tag != "" {
		query = whereTag(query, f.Tag)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []models.Article
	err := query.Order("date_publication DESC").Limit(limit).Find(&out).Error
	return out, mapErr("articles.List", err)
}

// whereTag filters on membership in the tags JSON array.
func whereTag(query *gorm.DB, tag string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		arr, _ := json.Marshal([]string{tag})
		return query.Where("tags::jsonb @> ?::jsonb", string(arr))
	}
	return query.Where("EXISTS (SELECT 1 FROM json_each(actualites.tags) WHERE json_each.value = ?)", tag)
}

// Stats computes the dashboard counters.
func (r *ArticleRepo) Stats(ctx context.Context) (ArticleStats, error) {
	var s ArticleStats
	db := r.db.WithContext(ctx)
	base := func() *gorm.DB { return db.Model(&models.Article{}) }

	steps := []error{
		base().Count(&s.Total).Error,
		base().Where("importance >= ?", 70).Count(&s.HighImportance).Error,
		base().Where("importance >= ? AND importance < ?", 40, 70).Count(&s.MediumImportance).Error,
		base().Select("COALESCE(AVG(importance), 0)").Scan(&s.AvgImportance).Error,
		base().Where("sentiment > ?", 0).Count(&s.Positive).Error,
		base().Where("sentiment < ?", 0).Count(&s.Negative).Error,
		base().Where("sentiment IS NULL").Count(&s.Unscored).Error,
		base().Distinct("categorie").Count(&s.Categories).Error,
	}
	for _, err := range steps {
		if err != nil {
			return ArticleStats{}, mapErr("articles.Stats", err)
		}
	}
	return s, nil
}

// CountByQuadrant returns article counts per dominant quadrant since from.
func (r *ArticleRepo) CountByQuadrant(ctx context.Context, from time.Time) ([]QuadrantCount, error) {
	var rows []QuadrantCount
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Select("quadrant, COUNT(*) AS count").
		Where("date_publication >= ? AND quadrant <> ''", from).
		Group("quadrant").
		Scan(&rows).Error
	return rows, mapErr("articles.CountByQuadrant", err)
}
