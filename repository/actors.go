package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"veille-strategique/models"
)

// ActorRepo persists personnalites.
type ActorRepo struct {
	db *gorm.DB
}

func (r *ActorRepo) Get(ctx context.Context, id uuid.UUID) (*models.ActorProfile, error) {
	var p models.ActorProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, mapErr("actors.Get", err)
	}
	return &p, nil
}

func (r *ActorRepo) Create(ctx context.Context, p *models.ActorProfile) error {
	return mapErr("actors.Create", r.db.WithContext(ctx).Create(p).Error)
}

// List returns active actors, optionally restricted to one circle.
func (r *ActorRepo) List(ctx context.Context, circle int) ([]models.ActorProfile, error) {
	query := r.db.WithContext(ctx).Where("actif = ?", true)
	if circle > 0 {
		query = query.Where("cercle = ?", circle)
	}
	var out []models.ActorProfile
	err := query.Order("cercle ASC").Order("nom ASC").Find(&out).Error
	return out, mapErr("actors.List", err)
}

// ListTracked returns actors with SPDI tracking enabled.
func (r *ActorRepo) ListTracked(ctx context.Context) ([]models.ActorProfile, error) {
	var out []models.ActorProfile
	err := r.db.WithContext(ctx).
		Where("suivi_spdi_actif = ?", true).
		Order("nom ASC").
		Find(&out).Error
	return out, mapErr("actors.ListTracked", err)
}

// UpdateSpdi stores the latest SPDI snapshot on the actor row.
func (r *ActorRepo) UpdateSpdi(ctx context.Context, id uuid.UUID, score float64, trend models.Trend, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.ActorProfile{}).Where("id = ?", id).Updates(map[string]any{
		"score_spdi_actuel":    score,
		"tendance_spdi":        trend,
		"derniere_mesure_spdi": at,
	})
	return notFoundIfNone("actors.UpdateSpdi", res)
}

// MentionRepo persists mentions.
type MentionRepo struct {
	db *gorm.DB
}

func (r *MentionRepo) Create(ctx context.Context, m *models.Mention) error {
	return mapErr("mentions.Create", r.db.WithContext(ctx).Create(m).Error)
}

// ForActorSince returns the mentions of one actor dated at or after from.
func (r *MentionRepo) ForActorSince(ctx context.Context, actorID uuid.UUID, from time.Time) ([]models.Mention, error) {
	var out []models.Mention
	err := r.db.WithContext(ctx).
		Where("personnalite_id = ? AND date_mention >= ?", actorID, from).
		Order("date_mention DESC").
		Find(&out).Error
	return out, mapErr("mentions.ForActorSince", err)
}

// SocialRepo persists social_insights.
type SocialRepo struct {
	db *gorm.DB
}

func (r *SocialRepo) Create(ctx context.Context, s *models.SocialInsight) error {
	return mapErr("social.Create", r.db.WithContext(ctx).Create(s).Error)
}

// Since returns the insights published at or after from.
func (r *SocialRepo) Since(ctx context.Context, from time.Time) ([]models.SocialInsight, error) {
	var out []models.SocialInsight
	err := r.db.WithContext(ctx).
		Where("date_publication >= ?", from).
		Order("date_publication DESC").
		Find(&out).Error
	return out, mapErr("social.Since", err)
}
