package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"veille-strategique/models"
)

// KeywordRepo persists mots_cles_veille.
type KeywordRepo struct {
	db *gorm.DB
}

// ListActive returns the active rules ordered by descending criticality.
func (r *KeywordRepo) ListActive(ctx context.Context) ([]models.KeywordRule, error) {
	var out []models.KeywordRule
	err := r.db.WithContext(ctx).
		Where("actif = ?", true).
		Order("criticite DESC").
		Order("terme ASC").
		Find(&out).Error
	return out, mapErr("keywords.ListActive", err)
}

// List returns every rule, inactive ones included.
func (r *KeywordRepo) List(ctx context.Context) ([]models.KeywordRule, error) {
	var out []models.KeywordRule
	err := r.db.WithContext(ctx).Order("criticite DESC").Order("terme ASC").Find(&out).Error
	return out, mapErr("keywords.List", err)
}

func (r *KeywordRepo) Get(ctx context.Context, id uuid.UUID) (*models.KeywordRule, error) {
	var k models.KeywordRule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&k).Error; err != nil {
		return nil, mapErr("keywords.Get", err)
	}
	return &k, nil
}

func (r *KeywordRepo) Create(ctx context.Context, k *models.KeywordRule) error {
	return mapErr("keywords.Create", r.db.WithContext(ctx).Create(k).Error)
}

// Update saves every column of k, zero values included.
func (r *KeywordRepo) Update(ctx context.Context, k *models.KeywordRule) error {
	res := r.db.WithContext(ctx).Model(k).
		Select("terme", "synonymes", "quadrant", "criticite", "alerte_auto", "categorie", "actif", "updated_at").
		Updates(k)
	return notFoundIfNone("keywords.Update", res)
}

// Deactivate soft-disables a rule; rows are never deleted.
func (r *KeywordRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.KeywordRule{}).Where("id = ?", id).Update("actif", false)
	return notFoundIfNone("keywords.Deactivate", res)
}
