package chat

import (
	"time"

	"gorm.io/datatypes"
)

type Message struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64          `gorm:"not null;index:idx_messages_conversation_sent,priority:1" json:"conversationId"`
	SenderID       int64          `gorm:"not null;index" json:"senderId"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	SentAt         time.Time      `gorm:"not null;index:idx_messages_conversation_sent,priority:2" json:"sentAt"`
	ReadAt         *time.Time     `json:"readAt"`
	Metadata       datatypes.JSON `json:"metadata,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
