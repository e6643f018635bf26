package memstore

import (
	"context"
	"sort"
	"time"

	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateConversation(ctx context.Context, conv *chat.Conversation) error {
	defer s.lock()()

	conv.NormalizePair()
	for _, c := range s.db.t.conversations {
		if c.UserLowID == conv.UserLowID && c.UserHighID == conv.UserHighID {
			return repositories.ErrDuplicateConversation
		}
	}

	s.db.ids.conversations++
	conv.ID = s.db.ids.conversations
	stamp(&conv.CreatedAt)
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = conv.CreatedAt
	}
	s.db.t.conversations[conv.ID] = cloneConversation(conv)
	return nil
}

func (s *Store) GetConversation(ctx context.Context, id int64) (*chat.Conversation, error) {
	defer s.rlock()()

	c, ok := s.db.t.conversations[id]
	if !ok {
		return nil, repositories.ErrConversationNotFound
	}
	return cloneConversation(c), nil
}

func (s *Store) GetConversationByParticipants(ctx context.Context, userA, userB int64) (*chat.Conversation, error) {
	defer s.rlock()()

	var found *chat.Conversation
	for _, c := range s.db.t.conversations {
		if (c.Participant1ID == userA && c.Participant2ID == userB) ||
			(c.Participant1ID == userB && c.Participant2ID == userA) {
			found = c
			break
		}
	}
	if found == nil {
		return nil, repositories.ErrConversationNotFound
	}
	return cloneConversation(found), nil
}

func (s *Store) ListConversationsByUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	defer s.rlock()()

	out := make([]chat.Conversation, 0)
	for _, c := range s.db.t.conversations {
		if c.HasParticipant(userID) {
			out = append(out, *cloneConversation(c))
		}
	}
	newestFirst(out,
		func(v chat.Conversation) time.Time { return v.LastMessageAt },
		func(v chat.Conversation) int64 { return v.ID },
	)
	return out, nil
}

func (s *Store) TouchConversation(ctx context.Context, id int64, at time.Time) error {
	defer s.lock()()

	c, ok := s.db.t.conversations[id]
	if !ok {
		return repositories.ErrConversationNotFound
	}
	c.LastMessageAt = at
	return nil
}

func (s *Store) CreateMessage(ctx context.Context, msg *chat.Message) error {
	defer s.lock()()

	if _, ok := s.db.t.conversations[msg.ConversationID]; !ok {
		return repositories.ErrConversationNotFound
	}
	s.db.ids.messages++
	msg.ID = s.db.ids.messages
	stamp(&msg.SentAt)
	s.db.t.messages[msg.ID] = cloneMessage(msg)
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*chat.Message, error) {
	defer s.rlock()()

	m, ok := s.db.t.messages[id]
	if !ok {
		return nil, repositories.ErrMessageNotFound
	}
	return cloneMessage(m), nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	defer s.rlock()()

	out := make([]chat.Message, 0)
	for _, m := range s.db.t.messages {
		if m.ConversationID == conversationID {
			out = append(out, *cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CountUnread(ctx context.Context, conversationID, readerID int64) (int64, error) {
	defer s.rlock()()

	var n int64
	for _, m := range s.db.t.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, messageID, readerID int64, at time.Time) (int64, error) {
	defer s.lock()()

	m, ok := s.db.t.messages[messageID]
	if !ok {
		return 0, repositories.ErrMessageNotFound
	}
	if m.SenderID == readerID || m.ReadAt != nil {
		return 0, nil
	}
	m.ReadAt = &at
	return 1, nil
}

func (s *Store) MarkConversationRead(ctx context.Context, conversationID, readerID int64, at time.Time) (int64, error) {
	defer s.lock()()

	var n int64
	for _, m := range s.db.t.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && m.ReadAt == nil {
			readAt := at
			m.ReadAt = &readAt
			n++
		}
	}
	return n, nil
}
