package gormstore

import (
	"context"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"

	"gorm.io/gorm/clause"
)

func (s *Store) CreateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error {
	db := s.conn(ctx)

	var count int64
	if err := db.Model(&models.WorkerProfile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return repositories.ErrDuplicateWorkerProfile
	}
	if err := s.userExists(ctx, profile.UserID); err != nil {
		return err
	}

	if err := db.Create(profile).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return repositories.ErrDuplicateWorkerProfile
		}
		return err
	}
	return nil
}

func (s *Store) GetWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := s.conn(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrWorkerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *Store) UpdateWorkerProfile(ctx context.Context, profile *models.WorkerProfile) error {
	if _, err := s.GetWorkerProfile(ctx, profile.UserID); err != nil {
		return err
	}
	return s.conn(ctx).Model(&models.WorkerProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"skill":        profile.Skill,
			"description":  profile.Description,
			"is_available": profile.IsAvailable,
		}).Error
}

func (s *Store) SetWorkerProfileVerified(ctx context.Context, userID int64, verified bool) error {
	return s.conn(ctx).Model(&models.WorkerProfile{}).
		Where("user_id = ?", userID).
		Update("is_verified", verified).Error
}

func (s *Store) GetWorker(ctx context.Context, userID int64) (*repositories.Worker, error) {
	var profile models.WorkerProfile
	err := s.conn(ctx).InnerJoins("User").
		Where("worker_profiles.user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrWorkerNotFound
		}
		return nil, err
	}
	return toWorker(profile), nil
}

func (s *Store) ListWorkers(ctx context.Context, filter repositories.WorkerFilter) ([]repositories.Worker, error) {
	q := s.conn(ctx).InnerJoins("User")
	if filter.Skill != "" {
		q = q.Where("LOWER(worker_profiles.skill) LIKE ?", likePattern(filter.Skill))
	}
	if filter.TopRated {
		q = q.Order("worker_profiles.average_rating DESC").
			Order("worker_profiles.total_ratings DESC").
			Order("worker_profiles.user_id ASC")
	} else {
		q = q.Order("worker_profiles.user_id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var profiles []models.WorkerProfile
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}

	workers := make([]repositories.Worker, 0, len(profiles))
	for _, p := range profiles {
		workers = append(workers, *toWorker(p))
	}
	return workers, nil
}

func toWorker(p models.WorkerProfile) *repositories.Worker {
	w := &repositories.Worker{}
	if p.User != nil {
		w.User = *p.User
	}
	p.User = nil
	w.Profile = p
	return w
}

// EnsureWorkerProfile вставляет пустой профиль, если его нет, и перечитывает
// строку с FOR UPDATE. Вставка через ON CONFLICT DO NOTHING не прерывает
// транзакцию PostgreSQL при гонке.
func (s *Store) EnsureWorkerProfile(ctx context.Context, userID int64) (*models.WorkerProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := s.conn(ctx)
	fresh := &models.WorkerProfile{UserID: userID, IsAvailable: true, IsVerified: user.IsVerified}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(fresh).Error
	if err != nil {
		return nil, err
	}

	var profile models.WorkerProfile
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repositories.ErrWorkerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

type ratingAggregate struct {
	Total int64
	Cnt   int64
}

func (s *Store) RecomputeWorkerRating(ctx context.Context, workerID int64) (*models.WorkerProfile, error) {
	profile, err := s.EnsureWorkerProfile(ctx, workerID)
	if err != nil {
		return nil, err
	}

	q := s.conn(ctx).Model(&models.Rating{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS cnt").
		Where("worker_id = ?", workerID)
	// В MySQL обычное чтение внутри транзакции видит снимок на момент первого
	// чтения, а оценки, закоммиченные другими транзакциями, нужны все.
	// PostgreSQL в READ COMMITTED видит их и так и не допускает FOR SHARE с агрегатами.
	if s.isMySQL() {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}

	var agg ratingAggregate
	if err := q.Scan(&agg).Error; err != nil {
		return nil, err
	}

	profile.TotalRatings = int(agg.Cnt)
	profile.AverageRating = 0
	if agg.Cnt > 0 {
		profile.AverageRating = float64(agg.Total) / float64(agg.Cnt)
	}

	err = s.conn(ctx).Model(&models.WorkerProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"average_rating": profile.AverageRating,
			"total_ratings":  profile.TotalRatings,
		}).Error
	if err != nil {
		return nil, err
	}
	return profile, nil
}
