package repository

import (
	"fmt"

	"gorm.io/gorm"

	"patternchat/internal/model"
)

type FactRepository struct {
	db *gorm.DB
}

func NewFactRepository(db *gorm.DB) *FactRepository {
	return &FactRepository{db: db}
}

// Search returns every fact whose category, key, or value contains term,
// case-insensitively, in insertion order. An empty term matches everything.
func (r *FactRepository) Search(term string) ([]model.Fact, error) {
	like := "%" + term + "%"
	var facts []model.Fact
	err := r.db.
		Where("LOWER(category) LIKE ? OR LOWER(fact_key) LIKE ? OR LOWER(value) LIKE ?", like, like, like).
		Order("id ASC").
		Find(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("search facts failed: %w", err)
	}
	return facts, nil
}

func (r *FactRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&model.Fact{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count facts failed: %w", err)
	}
	return total, nil
}

func (r *FactRepository) CreateBatch(facts []model.Fact) error {
	if len(facts) == 0 {
		return nil
	}
	if err := r.db.Create(&facts).Error; err != nil {
		return fmt.Errorf("create facts failed: %w", err)
	}
	return nil
}
