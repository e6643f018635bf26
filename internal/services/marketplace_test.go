package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

func TestMarketplaceScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)

	job := env.postJob(t, employer.ID)
	assert.True(t, job.IsActive)

	app, err := env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	_, err = env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	apps, err := env.store.ListApplicationsByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, employer.ID, app.ID, &dto.UpdateApplicationStatusRequest{
		Status: models.ApplicationStatusCompleted,
	})
	require.NoError(t, err)

	rated, err := env.svc.RatingService.CreateRating(ctx, employer.ID, &dto.CreateRatingRequest{
		WorkerID: worker.ID,
		JobID:    job.ID,
		Rating:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.Profile.AverageRating)
	assert.Equal(t, 1, rated.Profile.TotalRatings)

	profile, err := env.store.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, profile.AverageRating)
	assert.Equal(t, 1, profile.TotalRatings)

	job2 := env.postJob(t, employer.ID)
	_, err = env.svc.ApplicationService.Apply(ctx, worker.ID, job2.ID)
	assert.NoError(t, err)
}

func TestApplyChecksInOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)
	job := env.postJob(t, employer.ID)

	_, err := env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	_, err = env.svc.ApplicationService.Apply(ctx, employer.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrWorkerOnly)

	inactive := false
	_, err = env.svc.JobService.UpdateJob(ctx, employer.ID, job.ID, &dto.UpdateJobRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobInactive)

	apps, err := env.store.ListApplicationsByWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestApplicationTransitions(t *testing.T) {
	allowed := map[[2]models.ApplicationStatus]bool{
		{models.ApplicationStatusPending, models.ApplicationStatusAccepted}:   true,
		{models.ApplicationStatusPending, models.ApplicationStatusRejected}:   true,
		{models.ApplicationStatusPending, models.ApplicationStatusCompleted}:  true,
		{models.ApplicationStatusAccepted, models.ApplicationStatusCompleted}: true,
		{models.ApplicationStatusAccepted, models.ApplicationStatusRejected}:  true,
	}
	statuses := []models.ApplicationStatus{
		models.ApplicationStatusPending,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
		models.ApplicationStatusCompleted,
	}

	env := newTestEnv(t)
	ctx := context.Background()
	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				job := env.postJob(t, employer.ID)
				app, err := env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
				require.NoError(t, err)
				require.NoError(t, env.store.UpdateApplicationStatus(ctx, app.ID, models.ApplicationStatusPending, from, env.clock.Now()))

				resp, err := env.svc.ApplicationService.UpdateStatus(ctx, employer.ID, app.ID, &dto.UpdateApplicationStatusRequest{Status: to})

				stored, getErr := env.store.GetApplication(ctx, app.ID)
				require.NoError(t, getErr)
				if allowed[[2]models.ApplicationStatus{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, resp.Status)
					assert.Equal(t, to, stored.Status)
				} else {
					assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
					assert.Equal(t, from, stored.Status)
				}
			})
		}
	}
}

func TestUpdateStatusRequiresJobOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner", models.UserRoleEmployer)
	other := env.register(t, "other", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)
	job := env.postJob(t, owner.ID)
	app, err := env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
	require.NoError(t, err)

	req := &dto.UpdateApplicationStatusRequest{Status: models.ApplicationStatusAccepted}

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, other.ID, app.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, worker.ID, app.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrEmployerOnly)

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, owner.ID, app.ID+100, req)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	_, err = env.svc.ApplicationService.ListJobApplications(ctx, other.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	list, err := env.svc.ApplicationService.ListJobApplications(ctx, owner.ID, job.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, worker.ID, list[0].Worker.ID)
	assert.Equal(t, models.ApplicationStatusPending, list[0].Status)
}

func TestUpdateJobKeepsOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner", models.UserRoleEmployer)
	other := env.register(t, "other", models.UserRoleEmployer)
	job := env.postJob(t, owner.ID)

	title := "Night shift loading"
	_, err := env.svc.JobService.UpdateJob(ctx, other.ID, job.ID, &dto.UpdateJobRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	_, err = env.svc.JobService.UpdateJob(ctx, owner.ID, job.ID+100, &dto.UpdateJobRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	updated, err := env.svc.JobService.UpdateJob(ctx, owner.ID, job.ID, &dto.UpdateJobRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, owner.ID, updated.EmployerID)

	mine, err := env.svc.JobService.ListEmployerJobs(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, title, mine[0].Title)

	theirs, err := env.svc.JobService.ListEmployerJobs(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestListJobsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)

	_, err := env.svc.JobService.CreateJob(ctx, worker.ID, &dto.CreateJobRequest{Title: "x", Description: "x", Location: "x", Category: "x", Wage: "x"})
	assert.ErrorIs(t, err, apperrors.ErrEmployerOnly)

	env.postJob(t, employer.ID)
	inactive := false
	_, err = env.svc.JobService.CreateJob(ctx, employer.ID, &dto.CreateJobRequest{
		Title:       "Painter",
		Description: "Paint a flat",
		Location:    "Kothrud, Pune",
		Category:    "painting",
		Wage:        "1200/day",
		IsActive:    &inactive,
	})
	require.NoError(t, err)

	all, err := env.svc.JobService.ListJobs(ctx, &dto.JobFilterQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := env.svc.JobService.ListJobs(ctx, &dto.JobFilterQuery{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "labour", onlyActive[0].Category)
	assert.Equal(t, employer.ID, onlyActive[0].Employer.ID)

	byLocation, err := env.svc.JobService.ListJobs(ctx, &dto.JobFilterQuery{Location: "kothrud"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Painter", byLocation[0].Title)

	_, err = env.svc.JobService.GetJob(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestRatingEligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employer := env.register(t, "employer", models.UserRoleEmployer)
	other := env.register(t, "other", models.UserRoleEmployer)
	worker := env.register(t, "worker", models.UserRoleWorker)

	job := env.postJob(t, employer.ID)
	rate := func(userID, jobID, workerID int64, score int) error {
		_, err := env.svc.RatingService.CreateRating(ctx, userID, &dto.CreateRatingRequest{
			WorkerID: workerID,
			JobID:    jobID,
			Rating:   score,
		})
		return err
	}

	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 5), apperrors.ErrJobNotCompleted)

	app, err := env.svc.ApplicationService.Apply(ctx, worker.ID, job.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 5), apperrors.ErrJobNotCompleted)

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, employer.ID, app.ID, &dto.UpdateApplicationStatusRequest{
		Status: models.ApplicationStatusAccepted,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 5), apperrors.ErrJobNotCompleted)

	// Ни одна неудачная попытка не трогает профиль.
	_, err = env.store.GetWorkerProfile(ctx, worker.ID)
	assert.Error(t, err)

	_, err = env.svc.ApplicationService.UpdateStatus(ctx, employer.ID, app.ID, &dto.UpdateApplicationStatusRequest{
		Status: models.ApplicationStatusCompleted,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, rate(other.ID, job.ID, worker.ID, 5), apperrors.ErrNotJobOwner)
	assert.ErrorIs(t, rate(worker.ID, job.ID, worker.ID, 5), apperrors.ErrEmployerOnly)
	assert.ErrorIs(t, rate(employer.ID, job.ID+100, worker.ID, 5), apperrors.ErrJobNotFound)
	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 6), apperrors.ErrRatingOutOfRange)
	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 0), apperrors.ErrRatingOutOfRange)
	assert.ErrorIs(t, rate(employer.ID, job.ID, employer.ID, 5), apperrors.ErrWorkerNotFound)

	require.NoError(t, rate(employer.ID, job.ID, worker.ID, 5))
	assert.ErrorIs(t, rate(employer.ID, job.ID, worker.ID, 3), apperrors.ErrAlreadyRated)

	profile, err := env.store.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, profile.AverageRating)
	assert.Equal(t, 1, profile.TotalRatings)

	ratings, err := env.svc.RatingService.ListWorkerRatings(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)

	_, err = env.svc.RatingService.ListWorkerRatings(ctx, employer.ID)
	assert.ErrorIs(t, err, apperrors.ErrWorkerNotFound)
}

func TestRatingAverageIsStoredUnrounded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	worker := env.register(t, "worker", models.UserRoleWorker)
	scores := []int{5, 4, 4}

	var last *dto.CreateRatingResponse
	for i, score := range scores {
		employer := env.register(t, fmt.Sprintf("employer%d", i), models.UserRoleEmployer)
		job := env.completedApplication(t, employer.ID, worker.ID)

		resp, err := env.svc.RatingService.CreateRating(ctx, employer.ID, &dto.CreateRatingRequest{
			WorkerID: worker.ID,
			JobID:    job.ID,
			Rating:   score,
		})
		require.NoError(t, err)
		last = resp
	}

	assert.Equal(t, 4.3, last.Profile.AverageRating)
	assert.Equal(t, 3, last.Profile.TotalRatings)

	profile, err := env.store.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, profile.AverageRating, 1e-9)
}

func TestConcurrentRatingsKeepAggregateConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	worker := env.register(t, "worker", models.UserRoleWorker)

	type pending struct {
		employerID int64
		jobID      int64
		score      int
	}
	var ratings []pending
	sum := 0
	for i := 0; i < 8; i++ {
		employer := env.register(t, fmt.Sprintf("employer%d", i), models.UserRoleEmployer)
		job := env.completedApplication(t, employer.ID, worker.ID)
		score := i%5 + 1
		sum += score
		ratings = append(ratings, pending{employerID: employer.ID, jobID: job.ID, score: score})
	}

	var g errgroup.Group
	for _, r := range ratings {
		r := r
		g.Go(func() error {
			_, err := env.svc.RatingService.CreateRating(ctx, r.employerID, &dto.CreateRatingRequest{
				WorkerID: worker.ID,
				JobID:    r.jobID,
				Rating:   r.score,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	profile, err := env.store.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, len(ratings), profile.TotalRatings)
	assert.InDelta(t, float64(sum)/float64(len(ratings)), profile.AverageRating, 1e-9)
}

func TestWorkerDashboardCreatesProfileLazily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	worker := env.register(t, "worker", models.UserRoleWorker)
	employer := env.register(t, "employer", models.UserRoleEmployer)

	_, err := env.svc.WorkerService.GetWorker(ctx, worker.ID)
	assert.ErrorIs(t, err, apperrors.ErrWorkerNotFound)

	_, err = env.svc.WorkerService.GetDashboard(ctx, employer.ID)
	assert.ErrorIs(t, err, apperrors.ErrWorkerOnly)

	dash, err := env.svc.WorkerService.GetDashboard(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, dash.Profile.UserID)
	assert.True(t, dash.Profile.IsAvailable)

	skill := "Plumbing"
	available := false
	updated, err := env.svc.WorkerService.UpdateProfile(ctx, worker.ID, &dto.UpdateWorkerProfileRequest{
		Skill:       &skill,
		IsAvailable: &available,
	})
	require.NoError(t, err)
	assert.Equal(t, skill, updated.Profile.Skill)
	assert.False(t, updated.Profile.IsAvailable)

	found, err := env.svc.WorkerService.ListWorkers(ctx, &dto.WorkerFilterQuery{Skill: "plumb"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, worker.ID, found[0].User.ID)

	none, err := env.svc.WorkerService.ListWorkers(ctx, &dto.WorkerFilterQuery{Skill: "electric"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
