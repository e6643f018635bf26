package memstore

import (
	"context"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()

	for _, u := range s.db.t.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
		if user.HasEmail() && u.HasEmail() && *u.Email == *user.Email {
			return repositories.ErrDuplicateEmail
		}
	}

	s.db.ids.users++
	user.ID = s.db.ids.users
	stamp(&user.CreatedAt)
	if user.VerificationStatus == "" {
		user.VerificationStatus = models.VerificationStatusNotSubmitted
	}
	user.IsVerified = user.VerificationStatus == models.VerificationStatusVerified
	s.db.t.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	defer s.rlock()()

	u, ok := s.db.t.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer s.rlock()()

	for _, u := range s.db.t.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.rlock()()

	for _, u := range s.db.t.users {
		if u.HasEmail() && *u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()

	existing, ok := s.db.t.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if user.HasEmail() {
		for id, u := range s.db.t.users {
			if id != user.ID && u.HasEmail() && *u.Email == *user.Email {
				return repositories.ErrDuplicateEmail
			}
		}
	}

	existing.FullName = user.FullName
	existing.Phone = user.Phone
	existing.Email = cloneString(user.Email)
	existing.Location = user.Location
	existing.EmailVerified = user.EmailVerified
	existing.EmailVerificationCode = user.EmailVerificationCode
	existing.EmailVerificationExpiresAt = cloneTime(user.EmailVerificationExpiresAt)
	return nil
}

func (s *Store) SetEmailVerificationCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	defer s.lock()()

	u, ok := s.db.t.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.EmailVerificationCode = code
	u.EmailVerificationExpiresAt = &expiresAt
	return nil
}

func (s *Store) ClearExpiredEmailCodes(ctx context.Context, before time.Time) (int64, error) {
	defer s.lock()()

	var n int64
	for _, u := range s.db.t.users {
		if u.EmailVerificationExpiresAt == nil || !u.EmailVerificationExpiresAt.Before(before) {
			continue
		}
		u.EmailVerificationCode = ""
		u.EmailVerificationExpiresAt = nil
		n++
	}
	return n, nil
}

func (s *Store) MarkEmailVerified(ctx context.Context, userID int64) error {
	defer s.lock()()

	u, ok := s.db.t.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.EmailVerified = true
	u.EmailVerificationCode = ""
	u.EmailVerificationExpiresAt = nil
	return nil
}

func (s *Store) SetVerificationStatus(ctx context.Context, userID int64, status models.VerificationStatus) error {
	defer s.lock()()

	u, ok := s.db.t.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.SetVerificationStatus(status)
	return nil
}
