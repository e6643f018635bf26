package chat

import "time"

// Conversation - диалог ровно двух пользователей, опционально привязанный к вакансии.
// Пара участников неупорядочена: (a, b) и (b, a) - один и тот же диалог.
type Conversation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Participant1ID int64     `gorm:"not null;index" json:"participant1Id"`
	Participant2ID int64     `gorm:"not null;index" json:"participant2Id"`
	// UserLowID и UserHighID - пара участников по возрастанию id, заполняется NormalizePair.
	UserLowID      int64     `gorm:"not null;uniqueIndex:idx_conversations_pair" json:"-"`
	UserHighID     int64     `gorm:"not null;uniqueIndex:idx_conversations_pair" json:"-"`
	JobID          *int64    `gorm:"index" json:"jobId,omitempty"`
	LastMessageAt  time.Time `gorm:"not null;index" json:"lastMessageAt"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// NormalizePair заполняет упорядоченную пару участников.
func (c *Conversation) NormalizePair() {
	c.UserLowID, c.UserHighID = c.Participant1ID, c.Participant2ID
	if c.UserLowID > c.UserHighID {
		c.UserLowID, c.UserHighID = c.UserHighID, c.UserLowID
	}
}

// HasParticipant проверяет, что userID участвует в диалоге.
func (c *Conversation) HasParticipant(userID int64) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// OtherParticipant возвращает собеседника userID.
func (c *Conversation) OtherParticipant(userID int64) int64 {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}
