package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories/memstore"
)

func TestEmailCodeWorkerClearsOnlyExpiredCodes(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	stale := &models.User{Username: "stale", PasswordHash: "x", FullName: "Stale", Role: models.UserRoleWorker}
	fresh := &models.User{Username: "fresh", PasswordHash: "x", FullName: "Fresh", Role: models.UserRoleWorker}
	require.NoError(t, store.CreateUser(ctx, stale))
	require.NoError(t, store.CreateUser(ctx, fresh))
	require.NoError(t, store.SetEmailVerificationCode(ctx, stale.ID, "123456", now.Add(-time.Second)))
	require.NoError(t, store.SetEmailVerificationCode(ctx, fresh.ID, "654321", now.Add(10*time.Minute)))

	w := NewEmailCodeWorker(store, time.Hour)
	w.now = func() time.Time { return now }

	assert.Equal(t, int64(1), w.RunOnce(ctx))
	assert.Zero(t, w.RunOnce(ctx))

	got, err := store.GetUser(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "654321", got.EmailVerificationCode)
}

func TestEmailCodeWorkerStopsWithContext(t *testing.T) {
	store := memstore.New()
	w := NewEmailCodeWorker(store, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.loop(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
