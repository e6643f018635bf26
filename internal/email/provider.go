package email

import (
	"context"
	"fmt"
	"time"

	"hyperlocal_backend/internal/logger"
)

// Sender доставляет готовое письмо
type Sender interface {
	Send(ctx context.Context, msg *Email) error
}

// Provider - письма, которые отправляет сервис
type Provider interface {
	SendVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error
}

// Mailer рендерит шаблоны и передает письма в Sender
type Mailer struct {
	sender    Sender
	templates *TemplateManager
	from      string
}

var _ Provider = (*Mailer)(nil)

func NewMailer(sender Sender, templates *TemplateManager, from string) *Mailer {
	return &Mailer{sender: sender, templates: templates, from: from}
}

func (m *Mailer) SendVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	data := TemplateData{
		"Name":    name,
		"Code":    code,
		"Minutes": int(ttl.Minutes()),
	}

	html, err := m.templates.Render(TemplateVerificationCode, data)
	if err != nil {
		return err
	}

	msg := &Email{
		From:     m.from,
		To:       []string{to},
		Subject:  "Your verification code",
		Body:     fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes())),
		HTMLBody: html,
	}

	err = m.sender.Send(ctx, msg)
	logger.MailLog(logger.FromContext(ctx), TemplateVerificationCode, to, err)
	return err
}
