package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the format of SpdiMetric.Date.
const DateLayout = "2006-01-02"

// SpdiMetric is one daily SPDI measurement for an actor.
type SpdiMetric struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID uuid.UUID `json:"personnalite_id" gorm:"column:personnalite_id;type:uuid;not null;uniqueIndex:idx_spdi_actor_date"`
	Date    string    `json:"date_mesure" gorm:"column:date_mesure;type:varchar(10);not null;uniqueIndex:idx_spdi_actor_date"`

	Visibility float64 `json:"score_visibilite" gorm:"column:score_visibilite"`
	Quality    float64 `json:"score_qualite" gorm:"column:score_qualite"`
	Authority  float64 `json:"score_autorite" gorm:"column:score_autorite"`
	Presence   float64 `json:"score_presence" gorm:"column:score_presence"`

	MentionCount               int     `json:"nb_mentions" gorm:"column:nb_mentions"`
	DistinctSourceCount        int     `json:"nb_sources" gorm:"column:nb_sources"`
	ActiveDays                 int     `json:"nb_jours_actifs" gorm:"column:nb_jours_actifs"`
	AvgSentiment               float64 `json:"sentiment_moyen" gorm:"column:sentiment_moyen"`
	ControversyCount           int     `json:"nb_controverses" gorm:"column:nb_controverses"`
	HighInfluenceMentionCount  int     `json:"nb_mentions_influentes" gorm:"column:nb_mentions_influentes"`
	HighImportanceArticleCount int     `json:"nb_articles_importants" gorm:"column:nb_articles_importants"`
	LinkedinPostCount          int     `json:"nb_posts_linkedin" gorm:"column:nb_posts_linkedin"`
	TotalEngagement            int     `json:"engagement_total" gorm:"column:engagement_total"`
	ThemeMatchPct              float64 `json:"taux_thematiques" gorm:"column:taux_thematiques"`

	Score          float64        `json:"score_final" gorm:"column:score_final"`
	Interpretation Interpretation `json:"interpretation" gorm:"column:interpretation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SpdiMetric) TableName() string { return "presence_digitale_metrics" }

func (m *SpdiMetric) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
