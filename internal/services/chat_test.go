package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

func TestConversationDeduplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)
	job := env.postJob(t, employer.ID)

	conv, created, err := env.svc.ConversationService.CreateConversation(ctx, employer.ID, &dto.CreateConversationRequest{
		ParticipantID: worker.ID,
		JobID:         &job.ID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, worker.ID, conv.OtherParticipant.ID)

	again, created, err := env.svc.ConversationService.CreateConversation(ctx, worker.ID, &dto.CreateConversationRequest{
		ParticipantID: employer.ID,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)

	_, _, err = env.svc.ConversationService.CreateConversation(ctx, worker.ID, &dto.CreateConversationRequest{ParticipantID: worker.ID})
	assert.ErrorIs(t, err, apperrors.ErrCannotMessageSelf)

	_, _, err = env.svc.ConversationService.CreateConversation(ctx, worker.ID, &dto.CreateConversationRequest{ParticipantID: worker.ID + 100})
	assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)

	missingJob := job.ID + 100
	_, _, err = env.svc.ConversationService.CreateConversation(ctx, worker.ID, &dto.CreateConversationRequest{
		ParticipantID: employer.ID,
		JobID:         &missingJob,
	})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestConcurrentConversationCreateReturnsOneConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)

	const n = 10
	ids := make([]int64, n)
	createdFlags := make([]bool, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		from, to := employer.ID, worker.ID
		if i%2 == 1 {
			from, to = to, from
		}
		g.Go(func() error {
			conv, created, err := env.svc.ConversationService.CreateConversation(ctx, from, &dto.CreateConversationRequest{ParticipantID: to})
			if err != nil {
				return err
			}
			ids[i] = conv.ID
			createdFlags[i] = created
			return nil
		})
	}
	require.NoError(t, g.Wait())

	createdCount := 0
	for i := range ids {
		assert.Equal(t, ids[0], ids[i])
		if createdFlags[i] {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)
}

func TestMessagesAndReadState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", models.UserRoleEmployer)
	bob := env.register(t, "bob", models.UserRoleWorker)
	eve := env.register(t, "eve", models.UserRoleWorker)

	conv, _, err := env.svc.ConversationService.CreateConversation(ctx, alice.ID, &dto.CreateConversationRequest{ParticipantID: bob.ID})
	require.NoError(t, err)

	send := func(userID int64, content string) *dto.ChatMessageResponse {
		env.clock.Advance(time.Second)
		msg, err := env.svc.ConversationService.SendMessage(ctx, userID, conv.ID, &dto.SendMessageRequest{Content: content})
		require.NoError(t, err)
		return msg
	}
	fromAlice := send(alice.ID, "Can you start tomorrow?")
	fromBob := send(bob.ID, "Yes, at 8")

	_, err = env.svc.ConversationService.SendMessage(ctx, eve.ID, conv.ID, &dto.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)

	_, err = env.svc.ConversationService.SendMessage(ctx, alice.ID, conv.ID, &dto.SendMessageRequest{Content: "   "})
	assert.Error(t, err)

	list, err := env.svc.ConversationService.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].UnreadCount)
	assert.True(t, list[0].LastMessageAt.Equal(fromBob.SentAt))

	res, err := env.svc.ConversationService.MarkConversationRead(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
	res, err = env.svc.ConversationService.MarkConversationRead(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Updated)

	// Свои сообщения не отмечаются прочитанными.
	res, err = env.svc.ConversationService.MarkMessageRead(ctx, alice.ID, fromAlice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Updated)

	res, err = env.svc.ConversationService.MarkMessageRead(ctx, alice.ID, fromBob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
	res, err = env.svc.ConversationService.MarkMessageRead(ctx, alice.ID, fromBob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Updated)

	_, err = env.svc.ConversationService.MarkMessageRead(ctx, eve.ID, fromBob.ID)
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)
	_, err = env.svc.ConversationService.MarkMessageRead(ctx, alice.ID, fromBob.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)

	detail, err := env.svc.ConversationService.GetConversation(ctx, alice.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, fromAlice.ID, detail.Messages[0].ID)
	assert.Equal(t, fromBob.ID, detail.Messages[1].ID)
	assert.NotNil(t, detail.Messages[0].ReadAt)
	assert.NotNil(t, detail.Messages[1].ReadAt)
	assert.Equal(t, bob.ID, detail.OtherParticipant.ID)

	_, err = env.svc.ConversationService.GetConversation(ctx, eve.ID, conv.ID)
	assert.ErrorIs(t, err, apperrors.ErrConversationAccessDenied)
	_, err = env.svc.ConversationService.GetConversation(ctx, alice.ID, conv.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestMessageMetadataRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", models.UserRoleEmployer)
	bob := env.register(t, "bob", models.UserRoleWorker)
	conv, _, err := env.svc.ConversationService.CreateConversation(ctx, alice.ID, &dto.CreateConversationRequest{ParticipantID: bob.ID})
	require.NoError(t, err)

	msg, err := env.svc.ConversationService.SendMessage(ctx, alice.ID, conv.ID, &dto.SendMessageRequest{
		Content:  "Site location",
		Metadata: json.RawMessage(`{"lat":18.52,"lng":73.85}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":18.52,"lng":73.85}`, string(msg.Metadata))
}
