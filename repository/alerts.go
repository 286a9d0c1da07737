package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"veille-strategique/models"
)

// AlertRepo persists alertes.
type AlertRepo struct {
	db *gorm.DB
}

func (r *AlertRepo) Create(ctx context.Context, a *models.Alert) error {
	return mapErr("alerts.Create", r.db.WithContext(ctx).Create(a).Error)
}

// List returns the latest alerts, optionally only the unread ones.
func (r *AlertRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	if unreadOnly {
		query = query.Where("lue = ?", false)
	}
	var out []models.Alert
	err := query.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, mapErr("alerts.List", err)
}

// ForReference returns the alerts raised for one referenced row.
func (r *AlertRepo) ForReference(ctx context.Context, refType string, refID uuid.UUID) ([]models.Alert, error) {
	var out []models.Alert
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&out).Error
	return out, mapErr("alerts.ForReference", err)
}

func (r *AlertRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", id).Update("lue", true)
	return notFoundIfNone("alerts.MarkRead", res)
}

// MarkTreated flags an alert as handled; a treated alert is also read.
func (r *AlertRepo) MarkTreated(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", id).Updates(map[string]any{
		"lue":     true,
		"traitee": true,
	})
	return notFoundIfNone("alerts.MarkTreated", res)
}

func (r *AlertRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Alert{}).Where("lue = ?", false).Count(&n).Error
	return n, mapErr("alerts.CountUnread", err)
}

// LogRepo persists collectes_log.
type LogRepo struct {
	db *gorm.DB
}

// Write appends one audit row.
func (r *LogRepo) Write(ctx context.Context, l *models.CollectionLog) error {
	return mapErr("logs.Write", r.db.WithContext(ctx).Create(l).Error)
}

// Recent returns the latest runs, newest first.
func (r *LogRepo) Recent(ctx context.Context, limit int) ([]models.CollectionLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []models.CollectionLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, mapErr("logs.Recent", err)
}

// LastRun returns the most recent row of the given type.
func (r *LogRepo) LastRun(ctx context.Context, runType string) (*models.CollectionLog, error) {
	var l models.CollectionLog
	err := r.db.WithContext(ctx).Where("type = ?", runType).Order("id DESC").First(&l).Error
	if err != nil {
		return nil, mapErr("logs.LastRun", err)
	}
	return &l, nil
}
