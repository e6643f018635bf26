package repositories

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models/chat"
)

type ConversationRepository interface {
	// CreateConversation возвращает ErrDuplicateConversation, если у пары уже есть диалог.
	CreateConversation(ctx context.Context, conv *chat.Conversation) error
	GetConversation(ctx context.Context, id int64) (*chat.Conversation, error)
	// GetConversationByParticipants не зависит от порядка аргументов.
	GetConversationByParticipants(ctx context.Context, userA, userB int64) (*chat.Conversation, error)
	// ListConversationsByUser сортирует по последней активности, новые первыми.
	ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error)
	TouchConversation(ctx context.Context, id int64, at time.Time) error
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *chat.Message) error
	GetMessage(ctx context.Context, id int64) (*chat.Message, error)
	// ListMessages - от старых к новым (sent_at, затем id).
	ListMessages(ctx context.Context, conversationID int64) ([]chat.Message, error)
	CountUnread(ctx context.Context, conversationID, readerID int64) (int64, error)

	// MarkMessageRead и MarkConversationRead трогают только непрочитанные
	// сообщения собеседника и возвращают число измененных строк (0 - не ошибка).
	MarkMessageRead(ctx context.Context, messageID, readerID int64, at time.Time) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID int64, at time.Time) (int64, error)
}
