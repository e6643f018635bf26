package email

import (
	"context"

	"hyperlocal_backend/internal/logger"
)

// LogSender пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg *Email) error {
	logger.CtxInfo(ctx, "email (not sent, SMTP disabled)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
