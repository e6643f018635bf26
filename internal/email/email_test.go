package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*Email
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg *Email) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func TestMailerRendersVerificationCode(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	sender := &recordingSender{}
	m := NewMailer(sender, tm, "no-reply@example.com")

	require.NoError(t, m.SendVerificationCode(context.Background(), "ravi@example.com", "Ravi <b>", "042917", 15*time.Minute))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"ravi@example.com"}, msg.To)
	assert.Contains(t, msg.HTMLBody, "042917")
	assert.Contains(t, msg.HTMLBody, "15 minutes")
	assert.Contains(t, msg.HTMLBody, "Ravi &lt;b&gt;", "html/template escapes user input")
	assert.Contains(t, msg.Body, "042917")
}

func TestMailerReturnsSendError(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	sender := &recordingSender{err: errors.New("connection refused")}
	m := NewMailer(sender, tm, "no-reply@example.com")

	err = m.SendVerificationCode(context.Background(), "a@example.com", "A", "123456", time.Minute)
	assert.Error(t, err)
}

func TestSMTPSenderValidate(t *testing.T) {
	s := NewSMTPSender(&SMTPConfig{Port: 587})
	assert.Error(t, s.Validate())

	s = NewSMTPSender(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "a@example.com"})
	assert.NoError(t, s.Validate())
}
