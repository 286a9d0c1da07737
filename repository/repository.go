// Package repository implements gorm persistence for every table of the service.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"veille-strategique/models"
)

// Store groups the table repositories over one connection.
type Store struct {
	Articles *ArticleRepo
	Keywords *KeywordRepo
	Actors   *ActorRepo
	Mentions *MentionRepo
	Social   *SocialRepo
	Spdi     *SpdiRepo
	Alerts   *AlertRepo
	Logs     *LogRepo
}

// NewStore wires every repository to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Articles: &ArticleRepo{db: db},
		Keywords: &KeywordRepo{db: db},
		Actors:   &ActorRepo{db: db},
		Mentions: &MentionRepo{db: db},
		Social:   &SocialRepo{db: db},
		Spdi:     &SpdiRepo{db: db},
		Alerts:   &AlertRepo{db: db},
		Logs:     &LogRepo{db: db},
	}
}

// mapErr converts gorm errors to the shared sentinels.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFoundIfNone turns an UPDATE that touched nothing into ErrNotFound.
func notFoundIfNone(op string, res *gorm.DB) error {
	if res.Error != nil {
		return mapErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
