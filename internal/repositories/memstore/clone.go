package memstore

import (
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/models/chat"
)

// Хранилище отдает и принимает только копии, чтобы вызывающий код
// не мог изменить состояние в обход блокировки.

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt64(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Email = cloneString(u.Email)
	c.EmailVerificationExpiresAt = cloneTime(u.EmailVerificationExpiresAt)
	return &c
}

func cloneProfile(p *models.WorkerProfile) *models.WorkerProfile {
	c := *p
	c.User = nil
	return &c
}

func cloneJob(j *models.Job) *models.Job {
	c := *j
	c.Duration = cloneString(j.Duration)
	c.Employer = nil
	return &c
}

func cloneApplication(a *models.Application) *models.Application {
	c := *a
	c.Job = nil
	c.Worker = nil
	return &c
}

func cloneRating(r *models.Rating) *models.Rating {
	c := *r
	c.Comment = cloneString(r.Comment)
	c.Worker = nil
	c.Employer = nil
	c.Job = nil
	return &c
}

func cloneDocument(d *models.VerificationDocument) *models.VerificationDocument {
	c := *d
	c.ReviewedAt = cloneTime(d.ReviewedAt)
	c.ReviewerNotes = cloneString(d.ReviewerNotes)
	c.User = nil
	return &c
}

func cloneConversation(cv *chat.Conversation) *chat.Conversation {
	c := *cv
	c.JobID = cloneInt64(cv.JobID)
	return &c
}

func cloneMessage(m *chat.Message) *chat.Message {
	c := *m
	c.ReadAt = cloneTime(m.ReadAt)
	if m.Metadata != nil {
		c.Metadata = append([]byte(nil), m.Metadata...)
	}
	return &c
}
