package gormstore

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"

	"gorm.io/gorm/clause"
)

// CreateConversation вставляет диалог с ON CONFLICT DO NOTHING по паре
// участников: конкурентная вставка ждет коммита первой и не прерывает транзакцию.
func (s *Store) CreateConversation(ctx context.Context, conv *chat.Conversation) error {
	conv.NormalizePair()
	stamp(&conv.CreatedAt)
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = conv.CreatedAt
	}

	res := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
		DoNothing: true,
	}).Create(conv)
	if res.Error != nil {
		if _, ok := uniqueViolation(res.Error); ok {
			return repositories.ErrDuplicateConversation
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrDuplicateConversation
	}
	return nil
}

func (s *Store) GetConversation(ctx context.Context, id int64) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := s.conn(ctx).First(&conv, id).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *Store) GetConversationByParticipants(ctx context.Context, userA, userB int64) (*chat.Conversation, error) {
	pair := chat.Conversation{Participant1ID: userA, Participant2ID: userB}
	pair.NormalizePair()

	var conv chat.Conversation
	err := s.conn(ctx).
		Where("user_low_id = ? AND user_high_id = ?", pair.UserLowID, pair.UserHighID).
		First(&conv).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *Store) ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	convs := make([]chat.Conversation, 0)
	err := s.conn(ctx).
		Where("participant1_id = ? OR participant2_id = ?", userID, userID).
		Order("last_message_at DESC").Order("id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (s *Store) TouchConversation(ctx context.Context, id int64, at time.Time) error {
	if _, err := s.GetConversation(ctx, id); err != nil {
		return err
	}
	return s.conn(ctx).Model(&chat.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at).Error
}

func (s *Store) CreateMessage(ctx context.Context, msg *chat.Message) error {
	if _, err := s.GetConversation(ctx, msg.ConversationID); err != nil {
		return err
	}
	stamp(&msg.SentAt)
	return s.conn(ctx).Create(msg).Error
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*chat.Message, error) {
	var msg chat.Message
	if err := s.conn(ctx).First(&msg, id).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	msgs := make([]chat.Message, 0)
	err := s.conn(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Store) CountUnread(ctx context.Context, conversationID, readerID int64) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Count(&n).Error
	return n, err
}

func (s *Store) MarkMessageRead(ctx context.Context, messageID, readerID int64, at time.Time) (int64, error) {
	if _, err := s.GetMessage(ctx, messageID); err != nil {
		return 0, err
	}
	res := s.conn(ctx).Model(&chat.Message{}).
		Where("id = ? AND sender_id <> ? AND read_at IS NULL", messageID, readerID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}

func (s *Store) MarkConversationRead(ctx context.Context, conversationID, readerID int64, at time.Time) (int64, error) {
	res := s.conn(ctx).Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
