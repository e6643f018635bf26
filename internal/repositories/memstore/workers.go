package memstore

import (
	"context"
	"sort"
	"strings"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error {
	defer s.lock()()
	return s.insertProfile(profile)
}

func (s *Store) insertProfile(profile *models.WorkerProfile) error {
	if _, ok := s.db.t.profileByUser[profile.UserID]; ok {
		return repositories.ErrDuplicateWorkerProfile
	}
	if _, ok := s.db.t.users[profile.UserID]; !ok {
		return repositories.ErrUserNotFound
	}
	s.db.ids.profiles++
	profile.ID = s.db.ids.profiles
	s.db.t.profiles[profile.ID] = cloneProfile(profile)
	s.db.t.profileByUser[profile.UserID] = profile.ID
	return nil
}

func (s *Store) profileOf(userID int64) (*models.WorkerProfile, bool) {
	id, ok := s.db.t.profileByUser[userID]
	if !ok {
		return nil, false
	}
	p, ok := s.db.t.profiles[id]
	return p, ok
}

func (s *Store) GetWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error) {
	defer s.rlock()()

	p, ok := s.profileOf(userID)
	if !ok {
		return nil, repositories.ErrWorkerNotFound
	}
	return cloneProfile(p), nil
}

func (s *Store) UpdateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error {
	defer s.lock()()

	p, ok := s.profileOf(profile.UserID)
	if !ok {
		return repositories.ErrWorkerNotFound
	}
	p.Skill = profile.Skill
	p.Description = profile.Description
	p.IsAvailable = profile.IsAvailable
	return nil
}

func (s *Store) SetWorkerProfileVerified(ctx context.Context, userID int64, verified bool) error {
	defer s.lock()()

	if p, ok := s.profileOf(userID); ok {
		p.IsVerified = verified
	}
	return nil
}

func (s *Store) GetWorker(ctx context.Context, userID int64) (*repositories.Worker, error) {
	defer s.rlock()()

	u, ok := s.db.t.users[userID]
	if !ok {
		return nil, repositories.ErrWorkerNotFound
	}
	p, ok := s.profileOf(userID)
	if !ok {
		return nil, repositories.ErrWorkerNotFound
	}
	return &repositories.Worker{User: *cloneUser(u), Profile: *cloneProfile(p)}, nil
}

func (s *Store) ListWorkers(ctx context.Context, filter repositories.WorkerFilter) ([]repositories.Worker, error) {
	defer s.rlock()()

	skill := strings.ToLower(filter.Skill)
	workers := make([]repositories.Worker, 0)
	for _, p := range s.db.t.profiles {
		u, ok := s.db.t.users[p.UserID]
		if !ok {
			continue
		}
		if skill != "" && !strings.Contains(strings.ToLower(p.Skill), skill) {
			continue
		}
		workers = append(workers, repositories.Worker{User: *cloneUser(u), Profile: *cloneProfile(p)})
	}

	sort.Slice(workers, func(i, j int) bool {
		a, b := workers[i], workers[j]
		if filter.TopRated {
			if a.Profile.AverageRating != b.Profile.AverageRating {
				return a.Profile.AverageRating > b.Profile.AverageRating
			}
			if a.Profile.TotalRatings != b.Profile.TotalRatings {
				return a.Profile.TotalRatings > b.Profile.TotalRatings
			}
			return a.User.ID < b.User.ID
		}
		return a.User.ID > b.User.ID
	})

	if filter.Limit > 0 && len(workers) > filter.Limit {
		workers = workers[:filter.Limit]
	}
	return workers, nil
}

func (s *Store) EnsureWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error) {
	defer s.lock()()

	p, err := s.ensureProfile(userID)
	if err != nil {
		return nil, err
	}
	return cloneProfile(p), nil
}

func (s *Store) ensureProfile(userID int64) (*models.WorkerProfile, error) {
	if p, ok := s.profileOf(userID); ok {
		return p, nil
	}
	u, ok := s.db.t.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	fresh := &models.WorkerProfile{UserID: userID, IsAvailable: true, IsVerified: u.IsVerified}
	if err := s.insertProfile(fresh); err != nil {
		return nil, err
	}
	p, _ := s.profileOf(userID)
	return p, nil
}

// RecomputeWorkerRating выполняется под эксклюзивной блокировкой, поэтому
// параллельные оценки одного работника не теряют обновления.
func (s *Store) RecomputeWorkerRating(ctx context.Context, workerID int64) (*models.WorkerProfile, error) {
	defer s.lock()()

	p, err := s.ensureProfile(workerID)
	if err != nil {
		return nil, err
	}

	var sum, count int
	for _, r := range s.db.t.ratings {
		if r.WorkerID == workerID {
			sum += r.Rating
			count++
		}
	}

	p.TotalRatings = count
	p.AverageRating = 0
	if count > 0 {
		p.AverageRating = float64(sum) / float64(count)
	}
	return cloneProfile(p), nil
}
