package workers

import (
	"context"
	"time"

	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/repositories"
)

type EmailCodeWorker struct {
	users    repositories.UserRepository
	interval time.Duration
	now      func() time.Time
}

func NewEmailCodeWorker(users repositories.UserRepository, interval time.Duration) *EmailCodeWorker {
	return &EmailCodeWorker{
		users:    users,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start запускает периодическую очистку просроченных кодов подтверждения email.
// Нулевой интервал отключает воркер.
func (w *EmailCodeWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Email code worker disabled")
		return
	}
	go w.loop(ctx)
}

func (w *EmailCodeWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email code worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход очистки.
func (w *EmailCodeWorker) RunOnce(ctx context.Context) int64 {
	n, err := w.users.ClearExpiredEmailCodes(ctx, w.now())
	if err != nil {
		logger.CtxWithError(ctx, "Error clearing expired email codes", err)
		return 0
	}
	if n > 0 {
		logger.CtxInfo(ctx, "Cleared expired email verification codes", "count", n)
	}
	return n
}
