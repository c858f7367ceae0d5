package repository

import (
	"fmt"

	"gorm.io/gorm"

	"patternchat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListPage returns one page of messages oldest-first along with the total row
// count. Ordering is by primary key so ties on timestamp stay deterministic.
func (r *MessageRepository) ListPage(page, limit int) ([]model.Message, int64, error) {
	var total int64
	if err := r.db.Model(&model.Message{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count messages failed: %w", err)
	}

	var messages []model.Message
	offset := (page - 1) * limit
	if err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, total, nil
}

// DeleteAll clears the whole history and reports how many rows went away.
func (r *MessageRepository) DeleteAll() (int64, error) {
	result := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Message{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete messages failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
