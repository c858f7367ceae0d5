package model

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one half of a turn: the user's text or the bot's reply.
// Rows are immutable once created and only removed by a bulk history clear.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sender    string    `gorm:"size:8;not null;index" json:"sender"`
	CreatedAt time.Time `json:"timestamp"`
}
