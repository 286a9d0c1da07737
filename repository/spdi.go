package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"veille-strategique/models"
)

// SpdiRepo persists presence_digitale_metrics.
type SpdiRepo struct {
	db *gorm.DB
}

// Upsert writes m keyed by (personnalite_id, date_mesure); a second run on
// the same day replaces the first.
func (r *SpdiRepo) Upsert(ctx context.Context, m *models.SpdiMetric) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "personnalite_id"}, {Name: "date_mesure"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score_visibilite", "score_qualite", "score_autorite", "score_presence",
			"nb_mentions", "nb_sources", "nb_jours_actifs", "sentiment_moyen",
			"nb_controverses", "nb_mentions_influentes", "nb_articles_importants",
			"nb_posts_linkedin", "engagement_total", "taux_thematiques",
			"score_final", "interpretation", "updated_at",
		}),
	}).Create(m).Error
	return mapErr("spdi.Upsert", err)
}

// History returns the last limit measurements of an actor, newest first.
func (r *SpdiRepo) History(ctx context.Context, actorID uuid.UUID, limit int) ([]models.SpdiMetric, error) {
	if limit <= 0 {
		limit = 30
	}
	var out []models.SpdiMetric
	err := r.db.WithContext(ctx).
		Where("personnalite_id = ?", actorID).
		Order("date_mesure DESC").
		Limit(limit).
		Find(&out).Error
	return out, mapErr("spdi.History", err)
}
