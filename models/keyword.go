package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KeywordRule is an administrator-managed monitoring keyword.
type KeywordRule struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Term        string                      `json:"terme" gorm:"column:terme;not null"`
	Synonyms    datatypes.JSONSlice[string] `json:"synonymes" gorm:"column:synonymes"`
	Quadrant    Quadrant                    `json:"quadrant" gorm:"column:quadrant;not null"`
	Criticality int                         `json:"criticite" gorm:"column:criticite;not null;index"`
	AutoAlert   bool                        `json:"alerte_auto" gorm:"column:alerte_auto"`
	Category    string                      `json:"categorie" gorm:"column:categorie"`
	Active      bool                        `json:"actif" gorm:"column:actif;index"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (KeywordRule) TableName() string { return "mots_cles_veille" }

func (k *KeywordRule) BeforeCreate(*gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// Validate checks the administrator-supplied fields.
func (k KeywordRule) Validate() error {
	if strings.TrimSpace(k.Term) == "" {
		return NewFieldError("terme", "required")
	}
	for _, syn := range k.Synonyms {
		if strings.TrimSpace(syn) == "" {
			return NewFieldError("synonymes", "must not contain blank entries")
		}
	}
	if !k.Quadrant.Valid() {
		return NewFieldError("quadrant", "must be one of tech, regulation, market, reputation")
	}
	if k.Criticality < 0 || k.Criticality > 100 {
		return NewFieldError("criticite", "must be between 0 and 100")
	}
	return nil
}
