package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert types and reference types.
const (
	AlertTypeCriticalKeyword = "mot_cle_critique"
	ReferenceArticle         = "actualite"
)

// Alert is a notification raised by the pipeline ("alerte").
type Alert struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Type          string     `json:"type" gorm:"column:type;index"`
	Level         AlertLevel `json:"niveau" gorm:"column:niveau;index"`
	Title         string     `json:"titre" gorm:"column:titre"`
	Message       string     `json:"message" gorm:"column:message"`
	ReferenceType string     `json:"reference_type" gorm:"column:reference_type"`
	ReferenceID   uuid.UUID  `json:"reference_id" gorm:"column:reference_id;type:uuid;index"`
	Read          bool       `json:"lue" gorm:"column:lue;index"`
	Treated       bool       `json:"traitee" gorm:"column:traitee"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Alert) TableName() string { return "alertes" }

func (a *Alert) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
