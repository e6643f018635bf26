package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type ConversationService interface {
	// CreateConversation возвращает существующий диалог пары, если он есть;
	// created сообщает, была ли создана новая запись.
	CreateConversation(ctx context.Context, userID int64, req *dto.CreateConversationRequest) (resp *dto.ConversationResponse, created bool, err error)
	ListConversations(ctx context.Context, userID int64) ([]*dto.ConversationResponse, error)
	GetConversation(ctx context.Context, userID, conversationID int64) (*dto.ConversationDetailResponse, error)

	// Message operations
	SendMessage(ctx context.Context, userID, conversationID int64, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
	MarkMessageRead(ctx context.Context, userID, messageID int64) (*dto.MarkReadResponse, error)
	MarkConversationRead(ctx context.Context, userID, conversationID int64) (*dto.MarkReadResponse, error)
}

type conversationService struct {
	store repositories.Store
	now   Clock
}

func NewConversationService(store repositories.Store, now Clock) ConversationService {
	if now == nil {
		now = utcClock
	}
	return &conversationService{store: store, now: now}
}

// ---------------- Conversation Operations ----------------

func (s *conversationService) CreateConversation(ctx context.Context, userID int64, req *dto.CreateConversationRequest) (*dto.ConversationResponse, bool, error) {
	other, err := s.store.GetUser(ctx, req.ParticipantID)
	if err != nil {
		return nil, false, storeError(err, apperrors.ErrParticipantNotFound)
	}
	if other.ID == userID {
		return nil, false, apperrors.ErrCannotMessageSelf
	}
	if req.JobID != nil {
		if _, err := s.store.GetJob(ctx, *req.JobID); err != nil {
			return nil, false, storeError(err, apperrors.ErrJobNotFound)
		}
	}

	var (
		conv    *chat.Conversation
		created bool
	)
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		existing, err := tx.GetConversationByParticipants(ctx, userID, other.ID)
		if err == nil {
			conv = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		now := s.now()
		conv = &chat.Conversation{
			Participant1ID: userID,
			Participant2ID: other.ID,
			JobID:          req.JobID,
			LastMessageAt:  now,
			CreatedAt:      now,
		}
		created = true
		return tx.CreateConversation(ctx, conv)
	})
	if errors.Is(err, repositories.ErrDuplicateConversation) {
		// диалог создал параллельный запрос, он уже закоммичен
		conv, err = s.store.GetConversationByParticipants(ctx, userID, other.ID)
		created = false
	}
	if err != nil {
		return nil, false, storeError(err, nil)
	}

	if created {
		logger.CtxInfo(ctx, "Conversation created", "conversation_id", conv.ID, "participant_id", other.ID)
	}
	resp := dto.NewConversationResponse(conv)
	resp.OtherParticipant = dto.NewPublicUserResponse(other)
	return resp, created, nil
}

func (s *conversationService) ListConversations(ctx context.Context, userID int64) ([]*dto.ConversationResponse, error) {
	convs, err := s.store.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ConversationResponse, 0, len(convs))
	for i := range convs {
		resp, err := s.buildConversationResponse(ctx, &convs[i], userID)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *conversationService) GetConversation(ctx context.Context, userID, conversationID int64) (*dto.ConversationDetailResponse, error) {
	conv, err := s.loadConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	resp, err := s.buildConversationResponse(ctx, conv, userID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ConversationDetailResponse{
		ConversationResponse: resp,
		Messages:             dto.NewChatMessageListResponse(msgs),
	}, nil
}

func (s *conversationService) loadConversation(ctx context.Context, userID, conversationID int64) (*chat.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrConversationNotFound)
	}
	if err := auth.RequireParticipant(userID, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// buildConversationResponse добавляет собеседника (если он еще существует)
// и число непрочитанных сообщений.
func (s *conversationService) buildConversationResponse(ctx context.Context, conv *chat.Conversation, userID int64) (*dto.ConversationResponse, error) {
	resp := dto.NewConversationResponse(conv)

	other, err := s.store.GetUser(ctx, conv.OtherParticipant(userID))
	switch {
	case err == nil:
		resp.OtherParticipant = dto.NewPublicUserResponse(other)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.store.CountUnread(ctx, conv.ID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.UnreadCount = unread
	return resp, nil
}

// ---------------- Message Operations ----------------

func (s *conversationService) SendMessage(ctx context.Context, userID, conversationID int64, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	conv, err := s.loadConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.ValidationError(map[string]string{"content": "This field is required"})
	}

	msg := &chat.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        content,
		SentAt:         s.now(),
	}
	if len(req.Metadata) > 0 {
		msg.Metadata = datatypes.JSON(req.Metadata)
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.CreateMessage(ctx, msg); err != nil {
			return err
		}
		return tx.TouchConversation(ctx, conv.ID, msg.SentAt)
	})
	if err != nil {
		return nil, storeError(err, apperrors.ErrConversationNotFound)
	}
	return dto.NewChatMessageResponse(msg), nil
}

// MarkMessageRead идемпотентен; собственные сообщения не отмечаются.
func (s *conversationService) MarkMessageRead(ctx context.Context, userID, messageID int64) (*dto.MarkReadResponse, error) {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrMessageNotFound)
	}
	if _, err := s.loadConversation(ctx, userID, msg.ConversationID); err != nil {
		return nil, err
	}

	n, err := s.store.MarkMessageRead(ctx, msg.ID, userID, s.now())
	if err != nil {
		return nil, storeError(err, apperrors.ErrMessageNotFound)
	}
	return &dto.MarkReadResponse{Updated: n}, nil
}

func (s *conversationService) MarkConversationRead(ctx context.Context, userID, conversationID int64) (*dto.MarkReadResponse, error) {
	conv, err := s.loadConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	n, err := s.store.MarkConversationRead(ctx, conv.ID, userID, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MarkReadResponse{Updated: n}, nil
}
