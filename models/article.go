package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Article is a collected news item ("actualité") and its enrichment.
type Article struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"titre" gorm:"column:titre;not null;index"`
	Summary     string    `json:"resume" gorm:"column:resume"`
	Body        string    `json:"contenu" gorm:"column:contenu"`
	SourceName  string    `json:"source_nom" gorm:"column:source_nom"`
	SourceURL   string    `json:"source_url" gorm:"column:source_url"`
	PublishedAt time.Time `json:"date_publication" gorm:"column:date_publication;index"`

	// Written by the enrichment pipeline only.
	Tags       datatypes.JSONSlice[string]         `json:"tags" gorm:"column:tags"`
	Category   string                              `json:"categorie" gorm:"column:categorie;index"`
	Quadrant   Quadrant                            `json:"quadrant" gorm:"column:quadrant;index"`
	Importance int                                 `json:"importance" gorm:"column:importance;default:0;index"`
	Sentiment  *float64                            `json:"sentiment" gorm:"column:sentiment"`
	Analysis   datatypes.JSONType[ArticleAnalysis] `json:"analyse_ia" gorm:"column:analyse_ia"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Article) TableName() string { return "actualites" }

func (a *Article) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ArticleAnalysis is the analyse_ia document.
type ArticleAnalysis struct {
	DominantQuadrant     Quadrant         `json:"quadrant_dominant,omitempty"`
	QuadrantDistribution map[Quadrant]int `json:"quadrant_distribution,omitempty"`
	TriggeredAlerts      []string         `json:"alertes_declenchees,omitempty"`
	Summary              string           `json:"resume,omitempty"`
	AIAnalysis           string           `json:"analyse,omitempty"`
	AnalysisLanguage     string           `json:"langue,omitempty"`
}

// Text returns the searchable text of the article.
func (a Article) Text() string {
	return a.Title + " " + a.Summary + " " + a.Body
}
