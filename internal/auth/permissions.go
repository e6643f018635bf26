package auth

import (
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/pkg/apperrors"
)

// Проверки вызываются после того, как цель найдена: сначала роль, потом владение.

func RequireWorker(u *models.User) error {
	if !u.IsWorker() {
		return apperrors.ErrWorkerOnly
	}
	return nil
}

func RequireEmployer(u *models.User) error {
	if !u.IsEmployer() {
		return apperrors.ErrEmployerOnly
	}
	return nil
}

// RequireJobOwner: пользователь - работодатель и разместил эту вакансию.
func RequireJobOwner(u *models.User, job *models.Job) error {
	if err := RequireEmployer(u); err != nil {
		return err
	}
	if job.EmployerID != u.ID {
		return apperrors.ErrNotJobOwner
	}
	return nil
}

func RequireParticipant(userID int64, conv *chat.Conversation) error {
	if !conv.HasParticipant(userID) {
		return apperrors.ErrConversationAccessDenied
	}
	return nil
}
