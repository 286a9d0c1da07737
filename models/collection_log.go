package models

import "time"

// MaxLoggedErrorLen bounds the erreur column of collectes_log, in runes.
const MaxLoggedErrorLen = 500

// CollectionLog is the audit row written by every pipeline run.
type CollectionLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"column:type;index"`
	Status      string    `json:"statut" gorm:"column:statut"`
	ResultCount int       `json:"nb_resultats" gorm:"column:nb_resultats"`
	DurationMs  int64     `json:"duree_ms" gorm:"column:duree_ms"`
	Error       *string   `json:"erreur,omitempty" gorm:"column:erreur"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (CollectionLog) TableName() string { return "collectes_log" }

// NewRunLog builds the audit row of a run that started at started.
// errMsg is truncated to MaxLoggedErrorLen runes; empty means no error.
func NewRunLog(runType, status string, count int, started time.Time, errMsg string) *CollectionLog {
	l := &CollectionLog{
		Type:        runType,
		Status:      status,
		ResultCount: count,
		DurationMs:  time.Since(started).Milliseconds(),
	}
	if errMsg != "" {
		if r := []rune(errMsg); len(r) > MaxLoggedErrorLen {
			errMsg = string(r[:MaxLoggedErrorLen])
		}
		l.Error = &errMsg
	}
	return l
}
