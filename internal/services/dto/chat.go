package dto

import (
	"encoding/json"
	"time"

	"hyperlocal_backend/internal/models/chat"
)

// ======================
// Request DTOs
// ======================

type CreateConversationRequest struct {
	ParticipantID int64  `json:"participantId" validate:"required,min=1"`
	JobID         *int64 `json:"jobId,omitempty" validate:"omitempty,min=1"`
}

type SendMessageRequest struct {
	Content  string          `json:"content" validate:"required,max=4000"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// ======================
// Response DTOs
// ======================

type ConversationResponse struct {
	ID               int64               `json:"id"`
	Participant1ID   int64               `json:"participant1Id"`
	Participant2ID   int64               `json:"participant2Id"`
	JobID            *int64              `json:"jobId,omitempty"`
	LastMessageAt    time.Time           `json:"lastMessageAt"`
	CreatedAt        time.Time           `json:"createdAt"`
	OtherParticipant *PublicUserResponse `json:"otherParticipant,omitempty"`
	UnreadCount      int64               `json:"unreadCount"`
}

type ConversationDetailResponse struct {
	*ConversationResponse
	Messages []*ChatMessageResponse `json:"messages"`
}

type ChatMessageResponse struct {
	ID             int64           `json:"id"`
	ConversationID int64           `json:"conversationId"`
	SenderID       int64           `json:"senderId"`
	Content        string          `json:"content"`
	SentAt         time.Time       `json:"sentAt"`
	ReadAt         *time.Time      `json:"readAt"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

func NewConversationResponse(c *chat.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:             c.ID,
		Participant1ID: c.Participant1ID,
		Participant2ID: c.Participant2ID,
		JobID:          c.JobID,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
	}
}

func NewChatMessageResponse(m *chat.Message) *ChatMessageResponse {
	resp := &ChatMessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		SentAt:         m.SentAt,
		ReadAt:         m.ReadAt,
	}
	if len(m.Metadata) > 0 {
		resp.Metadata = json.RawMessage(m.Metadata)
	}
	return resp
}

func NewChatMessageListResponse(msgs []chat.Message) []*ChatMessageResponse {
	out := make([]*ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, NewChatMessageResponse(&msgs[i]))
	}
	return out
}
