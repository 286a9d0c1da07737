package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActorProfile is a tracked individual or organisation ("personnalité").
type ActorProfile struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	LastName       string                      `json:"nom" gorm:"column:nom;not null"`
	FirstName      string                      `json:"prenom" gorm:"column:prenom"`
	Role           string                      `json:"fonction" gorm:"column:fonction"`
	Organisation   string                      `json:"organisation" gorm:"column:organisation"`
	Circle         int                         `json:"cercle" gorm:"column:cercle;index"`
	Category       string                      `json:"categorie" gorm:"column:categorie"`
	InfluenceScore int                         `json:"score_influence" gorm:"column:score_influence"`
	Themes         datatypes.JSONSlice[string] `json:"thematiques" gorm:"column:thematiques"`
	Active         bool                        `json:"actif" gorm:"column:actif;index"`

	// Only populated while SPDI tracking is enabled.
	SpdiTrackingEnabled bool       `json:"suivi_spdi_actif" gorm:"column:suivi_spdi_actif;index"`
	CurrentSpdiScore    *float64   `json:"score_spdi_actuel" gorm:"column:score_spdi_actuel"`
	SpdiTrend           *Trend     `json:"tendance_spdi" gorm:"column:tendance_spdi"`
	LastSpdiMeasurement *time.Time `json:"derniere_mesure_spdi" gorm:"column:derniere_mesure_spdi"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ActorProfile) TableName() string { return "personnalites" }

func (p *ActorProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullName is "prenom nom", or the last name alone.
func (p ActorProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Mention links an actor to a piece of coverage.
type Mention struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID     uuid.UUID  `json:"personnalite_id" gorm:"column:personnalite_id;type:uuid;not null;index"`
	ArticleID   *uuid.UUID `json:"actualite_id" gorm:"column:actualite_id;type:uuid"`
	Source      string     `json:"source" gorm:"column:source"`
	Sentiment   *float64   `json:"sentiment" gorm:"column:sentiment"`
	Influence   int        `json:"influence" gorm:"column:influence"`
	MentionedAt time.Time  `json:"date_mention" gorm:"column:date_mention;index"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Mention) TableName() string { return "mentions" }

func (m *Mention) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SocialInsight is a social-network post collected for monitoring.
type SocialInsight struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Platform    string    `json:"plateforme" gorm:"column:plateforme;index"`
	Author      string    `json:"auteur" gorm:"column:auteur"`
	Content     string    `json:"contenu" gorm:"column:contenu"`
	URL         string    `json:"url" gorm:"column:url"`
	Likes       int       `json:"likes" gorm:"column:likes"`
	Comments    int       `json:"comments" gorm:"column:comments"`
	Shares      int       `json:"shares" gorm:"column:shares"`
	Sentiment   *float64  `json:"sentiment" gorm:"column:sentiment"`
	PublishedAt time.Time `json:"date_publication" gorm:"column:date_publication;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SocialInsight) TableName() string { return "social_insights" }

func (s *SocialInsight) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Engagement is likes + comments + shares.
func (s SocialInsight) Engagement() int {
	return s.Likes + s.Comments + s.Shares
}
