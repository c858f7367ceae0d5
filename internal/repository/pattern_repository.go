package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"patternchat/internal/model"
)

type PatternRepository struct {
	db *gorm.DB
}

func NewPatternRepository(db *gorm.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

// UpsertBatch seeds patterns idempotently: inserts new rows and refreshes the
// response of rows whose pattern already exists.
func (r *PatternRepository) UpsertBatch(patterns []model.ReplyPattern) error {
	if len(patterns) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pattern"}},
		DoUpdates: clause.AssignmentColumns([]string{"response"}),
	}).Create(&patterns).Error
	if err != nil {
		return fmt.Errorf("upsert reply patterns failed: %w", err)
	}
	return nil
}

// FirstPrefixMatch finds the lowest-id pattern that is a prefix of text.
// text must already be lowercased. Returns (nil, nil) when nothing matches.
func (r *PatternRepository) FirstPrefixMatch(text string) (*model.ReplyPattern, error) {
	var pattern model.ReplyPattern
	err := r.db.
		Where("? LIKE CONCAT(LOWER(pattern), '%')", text).
		Order("id ASC").
		First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("prefix match pattern failed: %w", err)
	}
	return &pattern, nil
}

// FirstContainedMatch finds the lowest-id pattern that appears anywhere inside
// text. text must already be lowercased. Returns (nil, nil) when nothing matches.
func (r *PatternRepository) FirstContainedMatch(text string) (*model.ReplyPattern, error) {
	var pattern model.ReplyPattern
	err := r.db.
		Where("? LIKE CONCAT('%', LOWER(pattern), '%')", text).
		Order("id ASC").
		First(&pattern).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("containment match pattern failed: %w", err)
	}
	return &pattern, nil
}
