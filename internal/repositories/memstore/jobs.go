package memstore

import (
	"context"
	"strings"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories"
)

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	defer s.lock()()

	if _, ok := s.db.t.users[job.EmployerID]; !ok {
		return repositories.ErrUserNotFound
	}
	s.db.ids.jobs++
	job.ID = s.db.ids.jobs
	stamp(&job.CreatedAt)
	stamp(&job.UpdatedAt)
	s.db.t.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	defer s.rlock()()

	j, ok := s.db.t.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (s *Store) GetJobWithEmployer(ctx context.Context, id int64) (*repositories.JobWithEmployer, error) {
	defer s.rlock()()

	j, ok := s.db.t.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	e, ok := s.db.t.users[j.EmployerID]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return &repositories.JobWithEmployer{Job: *cloneJob(j), Employer: *cloneUser(e)}, nil
}

func (s *Store) ListJobs(ctx context.Context, filter repositories.JobFilter) ([]repositories.JobWithEmployer, error) {
	defer s.rlock()()

	location := strings.ToLower(filter.Location)
	out := make([]repositories.JobWithEmployer, 0)
	for _, j := range s.db.t.jobs {
		if filter.Category != "" && j.Category != filter.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(j.Location), location) {
			continue
		}
		if filter.IsActive != nil && j.IsActive != *filter.IsActive {
			continue
		}
		e, ok := s.db.t.users[j.EmployerID]
		if !ok {
			continue
		}
		out = append(out, repositories.JobWithEmployer{Job: *cloneJob(j), Employer: *cloneUser(e)})
	}

	newestFirst(out,
		func(v repositories.JobWithEmployer) time.Time { return v.Job.CreatedAt },
		func(v repositories.JobWithEmployer) int64 { return v.Job.ID },
	)
	return out, nil
}

func (s *Store) ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error) {
	defer s.rlock()()

	out := make([]models.Job, 0)
	for _, j := range s.db.t.jobs {
		if j.EmployerID == employerID {
			out = append(out, *cloneJob(j))
		}
	}
	newestFirst(out,
		func(v models.Job) time.Time { return v.CreatedAt },
		func(v models.Job) int64 { return v.ID },
	)
	return out, nil
}

func (s *Store) UpdateJob(ctx context.Context, job *models.Job) error {
	defer s.lock()()

	existing, ok := s.db.t.jobs[job.ID]
	if !ok {
		return repositories.ErrJobNotFound
	}
	employerID, createdAt := existing.EmployerID, existing.CreatedAt
	updated := cloneJob(job)
	updated.EmployerID = employerID
	updated.CreatedAt = createdAt
	updated.UpdatedAt = now()
	s.db.t.jobs[job.ID] = updated
	job.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	defer s.lock()()

	key := pairKey{app.JobID, app.WorkerID}
	if _, ok := s.db.t.appByJobWorker[key]; ok {
		return repositories.ErrDuplicateApplication
	}
	if _, ok := s.db.t.jobs[app.JobID]; !ok {
		return repositories.ErrJobNotFound
	}
	if _, ok := s.db.t.users[app.WorkerID]; !ok {
		return repositories.ErrUserNotFound
	}

	s.db.ids.applications++
	app.ID = s.db.ids.applications
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	stamp(&app.AppliedAt)
	stamp(&app.UpdatedAt)
	s.db.t.applications[app.ID] = cloneApplication(app)
	s.db.t.appByJobWorker[key] = app.ID
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	defer s.rlock()()

	a, ok := s.db.t.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return cloneApplication(a), nil
}

func (s *Store) GetApplicationByJobAndWorker(ctx context.Context, jobID, workerID int64) (*models.Application, error) {
	defer s.rlock()()

	id, ok := s.db.t.appByJobWorker[pairKey{jobID, workerID}]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return cloneApplication(s.db.t.applications[id]), nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID int64) ([]repositories.ApplicationWithWorker, error) {
	defer s.rlock()()

	out := make([]repositories.ApplicationWithWorker, 0)
	for _, a := range s.db.t.applications {
		if a.JobID != jobID {
			continue
		}
		w, ok := s.db.t.users[a.WorkerID]
		if !ok {
			continue
		}
		out = append(out, repositories.ApplicationWithWorker{Application: *cloneApplication(a), Worker: *cloneUser(w)})
	}
	newestFirst(out,
		func(v repositories.ApplicationWithWorker) time.Time { return v.Application.AppliedAt },
		func(v repositories.ApplicationWithWorker) int64 { return v.Application.ID },
	)
	return out, nil
}

func (s *Store) ListApplicationsByWorker(ctx context.Context, workerID int64) ([]repositories.ApplicationWithJob, error) {
	defer s.rlock()()

	out := make([]repositories.ApplicationWithJob, 0)
	for _, a := range s.db.t.applications {
		if a.WorkerID != workerID {
			continue
		}
		j, ok := s.db.t.jobs[a.JobID]
		if !ok {
			continue
		}
		out = append(out, repositories.ApplicationWithJob{Application: *cloneApplication(a), Job: *cloneJob(j)})
	}
	newestFirst(out,
		func(v repositories.ApplicationWithJob) time.Time { return v.Application.AppliedAt },
		func(v repositories.ApplicationWithJob) int64 { return v.Application.ID },
	)
	return out, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, at time.Time) error {
	defer s.lock()()

	a, ok := s.db.t.applications[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	if a.Status != from {
		return repositories.ErrApplicationStatusChanged
	}
	a.Status = to
	a.UpdatedAt = at
	return nil
}

func (s *Store) CreateRating(ctx context.Context, rating *models.Rating) error {
	defer s.lock()()

	key := ratingKey{rating.JobID, rating.WorkerID, rating.EmployerID}
	if _, ok := s.db.t.ratingByKey[key]; ok {
		return repositories.ErrDuplicateRating
	}
	s.db.ids.ratings++
	rating.ID = s.db.ids.ratings
	stamp(&rating.CreatedAt)
	s.db.t.ratings[rating.ID] = cloneRating(rating)
	s.db.t.ratingByKey[key] = rating.ID
	return nil
}

func (s *Store) ListRatingsByWorker(ctx context.Context, workerID int64) ([]models.Rating, error) {
	defer s.rlock()()

	out := make([]models.Rating, 0)
	for _, r := range s.db.t.ratings {
		if r.WorkerID == workerID {
			out = append(out, *cloneRating(r))
		}
	}
	newestFirst(out,
		func(v models.Rating) time.Time { return v.CreatedAt },
		func(v models.Rating) int64 { return v.ID },
	)
	return out, nil
}
