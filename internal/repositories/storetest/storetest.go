// Package storetest - общий набор тестов поведения repositories.Store.
// Запускается для каждой реализации хранилища.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Factory возвращает пустое хранилище для одного подтеста.
type Factory func(t *testing.T) repositories.Store

var seq atomic.Int64

// Run прогоняет все проверки против хранилища из factory.
func Run(t *testing.T, factory Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s repositories.Store)
	}{
		{"Users", testUsers},
		{"UserVerificationFields", testUserVerificationFields},
		{"ClearExpiredEmailCodes", testClearExpiredEmailCodes},
		{"WorkerProfiles", testWorkerProfiles},
		{"ListWorkers", testListWorkers},
		{"Jobs", testJobs},
		{"Applications", testApplications},
		{"Ratings", testRatings},
		{"ConcurrentRatings", testConcurrentRatings},
		{"ConcurrentStatusUpdates", testConcurrentStatusUpdates},
		{"VerificationDocuments", testVerificationDocuments},
		{"Conversations", testConversations},
		{"ConcurrentConversations", testConcurrentConversations},
		{"Messages", testMessages},
		{"TransactionRollback", testTransactionRollback},
		{"DeleteAllUsers", testDeleteAllUsers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, factory(t))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func newUser(t *testing.T, s repositories.Store, role models.UserRole) *models.User {
	t.Helper()
	n := seq.Add(1)
	u := &models.User{
		Username:     fmt.Sprintf("user_%d_%d", time.Now().UnixNano(), n),
		PasswordHash: "hash",
		FullName:     "Test User",
		Phone:        "+910000000000",
		Role:         role,
		Location:     "Pune",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func newJob(t *testing.T, s repositories.Store, employerID int64, category, location string, active bool) *models.Job {
	t.Helper()
	j := &models.Job{
		EmployerID:  employerID,
		Title:       "Loading trucks",
		Description: "Two days of loading",
		Location:    location,
		Category:    category,
		Wage:        "700/day",
		IsActive:    active,
	}
	require.NoError(t, s.CreateJob(context.Background(), j))
	require.NotZero(t, j.ID)
	return j
}

func testUsers(t *testing.T, s repositories.Store) {
	ctx := context.Background()

	u := newUser(t, s, models.UserRoleWorker)
	assert.Equal(t, models.VerificationStatusNotSubmitted, u.VerificationStatus)
	assert.False(t, u.IsVerified)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
	assert.Equal(t, models.UserRoleWorker, got.Role)

	got, err = s.GetUserByUsername(ctx, u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUser(ctx, u.ID+100000)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := &models.User{Username: u.Username, PasswordHash: "x", FullName: "x", Role: models.UserRoleEmployer}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), repositories.ErrDuplicateUsername)

	email := fmt.Sprintf("u%d@example.com", seq.Add(1))
	withEmail := &models.User{Username: u.Username + "_e", PasswordHash: "x", FullName: "x", Role: models.UserRoleEmployer, Email: ptr(email)}
	require.NoError(t, s.CreateUser(ctx, withEmail))

	got, err = s.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, withEmail.ID, got.ID)

	again := &models.User{Username: u.Username + "_e2", PasswordHash: "x", FullName: "x", Role: models.UserRoleWorker, Email: ptr(email)}
	assert.ErrorIs(t, s.CreateUser(ctx, again), repositories.ErrDuplicateEmail)

	// Несколько пользователей без email допустимы.
	newUser(t, s, models.UserRoleWorker)

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	got.FullName = "Renamed"
	got.Location = "Mumbai"
	got.Role = models.UserRoleEmployer
	require.NoError(t, s.UpdateUser(ctx, got))

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FullName)
	assert.Equal(t, "Mumbai", got.Location)
	assert.Equal(t, models.UserRoleWorker, got.Role, "role is immutable")

	got.Email = ptr(email)
	assert.ErrorIs(t, s.UpdateUser(ctx, got), repositories.ErrDuplicateEmail)

	missing := &models.User{ID: u.ID + 100000}
	assert.ErrorIs(t, s.UpdateUser(ctx, missing), repositories.ErrUserNotFound)
}

func testUserVerificationFields(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	u := newUser(t, s, models.UserRoleWorker)

	expires := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
	require.NoError(t, s.SetEmailVerificationCode(ctx, u.ID, "111111", expires))
	require.NoError(t, s.SetEmailVerificationCode(ctx, u.ID, "222222", expires))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "222222", got.EmailVerificationCode)
	require.NotNil(t, got.EmailVerificationExpiresAt)
	assert.WithinDuration(t, expires, *got.EmailVerificationExpiresAt, time.Second)

	require.NoError(t, s.MarkEmailVerified(ctx, u.ID))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Empty(t, got.EmailVerificationCode)
	assert.Nil(t, got.EmailVerificationExpiresAt)

	require.NoError(t, s.SetVerificationStatus(ctx, u.ID, models.VerificationStatusVerified))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusVerified, got.VerificationStatus)
	assert.True(t, got.IsVerified)

	require.NoError(t, s.SetVerificationStatus(ctx, u.ID, models.VerificationStatusRejected))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified)

	assert.ErrorIs(t, s.SetVerificationStatus(ctx, u.ID+100000, models.VerificationStatusPending), repositories.ErrUserNotFound)
	assert.ErrorIs(t, s.MarkEmailVerified(ctx, u.ID+100000), repositories.ErrUserNotFound)
}

func testClearExpiredEmailCodes(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	stale := newUser(t, s, models.UserRoleWorker)
	fresh := newUser(t, s, models.UserRoleWorker)

	require.NoError(t, s.SetEmailVerificationCode(ctx, stale.ID, "111111", now.Add(-time.Minute)))
	require.NoError(t, s.SetEmailVerificationCode(ctx, fresh.ID, "222222", now.Add(time.Hour)))

	n, err := s.ClearExpiredEmailCodes(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetUser(ctx, stale.ID)
	require.NoError(t, err)
	assert.Empty(t, got.EmailVerificationCode)
	assert.Nil(t, got.EmailVerificationExpiresAt)

	got, err = s.GetUser(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "222222", got.EmailVerificationCode)

	n, err = s.ClearExpiredEmailCodes(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testWorkerProfiles(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	w := newUser(t, s, models.UserRoleWorker)

	_, err := s.GetWorkerProfile(ctx, w.ID)
	assert.ErrorIs(t, err, repositories.ErrWorkerNotFound)
	_, err = s.GetWorker(ctx, w.ID)
	assert.ErrorIs(t, err, repositories.ErrWorkerNotFound)

	p, err := s.EnsureWorkerProfile(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, p.UserID)
	assert.True(t, p.IsAvailable)
	assert.Zero(t, p.TotalRatings)

	again, err := s.EnsureWorkerProfile(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	assert.ErrorIs(t, s.CreateWorkerProfile(ctx, &models.WorkerProfile{UserID: w.ID}), repositories.ErrDuplicateWorkerProfile)

	p.Skill = "Plumber"
	p.Description = "Ten years"
	p.IsAvailable = false
	require.NoError(t, s.UpdateWorkerProfile(ctx, p))

	worker, err := s.GetWorker(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Username, worker.User.Username)
	assert.Equal(t, "Plumber", worker.Profile.Skill)
	assert.False(t, worker.Profile.IsAvailable)

	require.NoError(t, s.SetWorkerProfileVerified(ctx, w.ID, true))
	got, err := s.GetWorkerProfile(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	// Для пользователя без профиля это не ошибка.
	other := newUser(t, s, models.UserRoleWorker)
	assert.NoError(t, s.SetWorkerProfileVerified(ctx, other.ID, true))

	_, err = s.EnsureWorkerProfile(ctx, w.ID+100000)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func testListWorkers(t *testing.T, s repositories.Store) {
	ctx := context.Background()

	mk := func(skill string, ratings ...int) *models.User {
		u := newUser(t, s, models.UserRoleWorker)
		require.NoError(t, s.CreateWorkerProfile(ctx, &models.WorkerProfile{UserID: u.ID, Skill: skill, IsAvailable: true}))
		employer := newUser(t, s, models.UserRoleEmployer)
		for _, r := range ratings {
			job := newJob(t, s, employer.ID, "general", "Pune", true)
			require.NoError(t, s.CreateRating(ctx, &models.Rating{WorkerID: u.ID, EmployerID: employer.ID, JobID: job.ID, Rating: r}))
		}
		_, err := s.RecomputeWorkerRating(ctx, u.ID)
		require.NoError(t, err)
		return u
	}

	electrician := mk("Electrician", 4)
	plumber := mk("Plumber", 5, 5)
	painter := mk("House Painter", 5)
	_ = mk("100%_mason", 2)

	all, err := s.ListWorkers(ctx, repositories.WorkerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i-1].User.ID, all[i].User.ID)
	}

	found, err := s.ListWorkers(ctx, repositories.WorkerFilter{Skill: "PLUMB"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, plumber.ID, found[0].User.ID)

	// Символы шаблона LIKE ищутся буквально.
	found, err = s.ListWorkers(ctx, repositories.WorkerFilter{Skill: "0%_"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	found, err = s.ListWorkers(ctx, repositories.WorkerFilter{Skill: "%"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	top, err := s.ListWorkers(ctx, repositories.WorkerFilter{TopRated: true, Limit: 3})
	require.NoError(t, err)
	require.Len(t, top, 3)
	// Равные средние: больше оценок - выше.
	assert.Equal(t, plumber.ID, top[0].User.ID)
	assert.Equal(t, painter.ID, top[1].User.ID)
	assert.Equal(t, electrician.ID, top[2].User.ID)
}

func testJobs(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	employer := newUser(t, s, models.UserRoleEmployer)

	first := newJob(t, s, employer.ID, "construction", "Andheri, Mumbai", true)
	time.Sleep(2 * time.Millisecond)
	second := newJob(t, s, employer.ID, "cleaning", "Koregaon Park, Pune", true)
	time.Sleep(2 * time.Millisecond)
	third := newJob(t, s, employer.ID, "construction", "Baner, Pune", false)

	got, err := s.GetJob(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "construction", got.Category)
	assert.True(t, got.IsActive)

	withEmployer, err := s.GetJobWithEmployer(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, employer.ID, withEmployer.Employer.ID)
	assert.Equal(t, second.ID, withEmployer.Job.ID)

	_, err = s.GetJob(ctx, third.ID+100000)
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)

	all, err := s.ListJobs(ctx, repositories.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].Job.ID)
	assert.Equal(t, first.ID, all[2].Job.ID)

	byCategory, err := s.ListJobs(ctx, repositories.JobFilter{Category: "construction"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byLocation, err := s.ListJobs(ctx, repositories.JobFilter{Location: "pune"})
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)

	active, err := s.ListJobs(ctx, repositories.JobFilter{Location: "pune", IsActive: ptr(true)})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].Job.ID)

	mine, err := s.ListJobsByEmployer(ctx, employer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	got.Title = "Unloading trucks"
	got.IsActive = false
	got.EmployerID = employer.ID + 100000
	require.NoError(t, s.UpdateJob(ctx, got))

	got, err = s.GetJob(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unloading trucks", got.Title)
	assert.False(t, got.IsActive)
	assert.Equal(t, employer.ID, got.EmployerID)

	assert.ErrorIs(t, s.UpdateJob(ctx, &models.Job{ID: third.ID + 100000}), repositories.ErrJobNotFound)
}

func testApplications(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	employer := newUser(t, s, models.UserRoleEmployer)
	worker := newUser(t, s, models.UserRoleWorker)
	other := newUser(t, s, models.UserRoleWorker)
	job := newJob(t, s, employer.ID, "general", "Pune", true)

	app := &models.Application{JobID: job.ID, WorkerID: worker.ID}
	require.NoError(t, s.CreateApplication(ctx, app))
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	err := s.CreateApplication(ctx, &models.Application{JobID: job.ID, WorkerID: worker.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicateApplication)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.CreateApplication(ctx, &models.Application{JobID: job.ID, WorkerID: other.ID}))

	got, err := s.GetApplicationByJobAndWorker(ctx, job.ID, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = s.GetApplicationByJobAndWorker(ctx, job.ID, employer.ID)
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)

	byJob, err := s.ListApplicationsByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, byJob, 2)
	assert.Equal(t, other.ID, byJob[0].Worker.ID)
	assert.Equal(t, worker.Username, byJob[1].Worker.Username)

	byWorker, err := s.ListApplicationsByWorker(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, byWorker, 1)
	assert.Equal(t, job.Title, byWorker[0].Job.Title)

	at := time.Now().UTC()
	require.NoError(t, s.UpdateApplicationStatus(ctx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusAccepted, at))
	got, err = s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, got.Status)

	// устаревший исходный статус не перезаписывает текущий
	err = s.UpdateApplicationStatus(ctx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusRejected, at)
	assert.ErrorIs(t, err, repositories.ErrApplicationStatusChanged)
	got, err = s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, got.Status)

	err = s.UpdateApplicationStatus(ctx, app.ID+100000, models.ApplicationStatusPending, models.ApplicationStatusAccepted, at)
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)

	err = s.CreateApplication(ctx, &models.Application{JobID: job.ID + 100000, WorkerID: worker.ID})
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)
}

func testRatings(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	employer := newUser(t, s, models.UserRoleEmployer)
	worker := newUser(t, s, models.UserRoleWorker)
	job1 := newJob(t, s, employer.ID, "general", "Pune", true)
	job2 := newJob(t, s, employer.ID, "general", "Pune", true)

	require.NoError(t, s.CreateRating(ctx, &models.Rating{WorkerID: worker.ID, EmployerID: employer.ID, JobID: job1.ID, Rating: 4}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.CreateRating(ctx, &models.Rating{WorkerID: worker.ID, EmployerID: employer.ID, JobID: job2.ID, Rating: 5, Comment: ptr("great")}))

	err := s.CreateRating(ctx, &models.Rating{WorkerID: worker.ID, EmployerID: employer.ID, JobID: job1.ID, Rating: 1})
	assert.ErrorIs(t, err, repositories.ErrDuplicateRating)

	// Профиль создается при первом пересчете.
	p, err := s.RecomputeWorkerRating(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalRatings)
	assert.InDelta(t, 4.5, p.AverageRating, 1e-9)

	stored, err := s.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalRatings)
	assert.InDelta(t, 4.5, stored.AverageRating, 1e-9)

	list, err := s.ListRatingsByWorker(ctx, worker.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, job2.ID, list[0].JobID)
	require.NotNil(t, list[0].Comment)
	assert.Equal(t, "great", *list[0].Comment)
}

func testConcurrentRatings(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	worker := newUser(t, s, models.UserRoleWorker)

	const n = 8
	type pair struct{ employer, job int64 }
	pairs := make([]pair, n)
	sum := 0
	for i := range pairs {
		e := newUser(t, s, models.UserRoleEmployer)
		j := newJob(t, s, e.ID, "general", "Pune", true)
		pairs[i] = pair{e.ID, j.ID}
		sum += i%5 + 1
	}

	var g errgroup.Group
	for i, p := range pairs {
		score := i%5 + 1
		p := p
		g.Go(func() error {
			return s.WithTx(ctx, func(tx repositories.Store) error {
				if _, err := tx.EnsureWorkerProfile(ctx, worker.ID); err != nil {
					return err
				}
				if err := tx.CreateRating(ctx, &models.Rating{WorkerID: worker.ID, EmployerID: p.employer, JobID: p.job, Rating: score}); err != nil {
					return err
				}
				_, err := tx.RecomputeWorkerRating(ctx, worker.ID)
				return err
			})
		})
	}
	require.NoError(t, g.Wait())

	p, err := s.GetWorkerProfile(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, n, p.TotalRatings)
	assert.InDelta(t, float64(sum)/float64(n), p.AverageRating, 1e-9)
}

// testConcurrentStatusUpdates: из pending одновременно пытаются перейти в
// completed и rejected; проходит ровно один переход.
func testConcurrentStatusUpdates(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	employer := newUser(t, s, models.UserRoleEmployer)
	worker := newUser(t, s, models.UserRoleWorker)
	job := newJob(t, s, employer.ID, "general", "Pune", true)
	app := &models.Application{JobID: job.ID, WorkerID: worker.ID}
	require.NoError(t, s.CreateApplication(ctx, app))

	const n = 8
	targets := []models.ApplicationStatus{models.ApplicationStatusCompleted, models.ApplicationStatusRejected}
	results := make([]error, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = s.WithTx(ctx, func(tx repositories.Store) error {
				current, err := tx.GetApplication(ctx, app.ID)
				if err != nil {
					return err
				}
				if current.Status != models.ApplicationStatusPending {
					return repositories.ErrApplicationStatusChanged
				}
				return tx.UpdateApplicationStatus(ctx, app.ID, current.Status, targets[i%2], time.Now().UTC())
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	winner := -1
	for i, err := range results {
		if err == nil {
			assert.Equal(t, -1, winner, "more than one transition succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, repositories.ErrApplicationStatusChanged)
	}
	require.NotEqual(t, -1, winner)

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, targets[winner%2], got.Status)
}

func testVerificationDocuments(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	u := newUser(t, s, models.UserRoleWorker)

	first := &models.VerificationDocument{UserID: u.ID, DocumentType: models.DocumentTypeAadhaar, DocumentNumber: "1234", ImagePath: "verification/a.jpg"}
	require.NoError(t, s.CreateVerificationDocument(ctx, first))
	assert.Equal(t, models.DocumentStatusPending, first.Status)
	time.Sleep(2 * time.Millisecond)
	second := &models.VerificationDocument{UserID: u.ID, DocumentType: models.DocumentTypePAN, DocumentNumber: "ABCDE1234F", ImagePath: "verification/b.jpg"}
	require.NoError(t, s.CreateVerificationDocument(ctx, second))

	list, err := s.ListVerificationDocumentsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	at := time.Now().UTC()
	require.NoError(t, s.ReviewVerificationDocument(ctx, first.ID, models.DocumentStatusRejected, ptr("blurry"), at))

	got, err := s.GetVerificationDocument(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, got.Status)
	require.NotNil(t, got.ReviewerNotes)
	assert.Equal(t, "blurry", *got.ReviewerNotes)
	assert.NotNil(t, got.ReviewedAt)

	err = s.ReviewVerificationDocument(ctx, first.ID, models.DocumentStatusVerified, nil, at)
	assert.ErrorIs(t, err, repositories.ErrDocumentAlreadyReviewed)
	got, err = s.GetVerificationDocument(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, got.Status)

	_, err = s.GetVerificationDocument(ctx, second.ID+100000)
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
	err = s.ReviewVerificationDocument(ctx, second.ID+100000, models.DocumentStatusVerified, nil, at)
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
}

// testConcurrentConversations: встречные попытки открыть диалог одной пары
// оставляют ровно одну запись.
func testConcurrentConversations(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	a := newUser(t, s, models.UserRoleWorker)
	b := newUser(t, s, models.UserRoleEmployer)

	const n = 8
	var created atomic.Int32
	var g errgroup.Group
	for i := 0; i < n; i++ {
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = to, from
		}
		g.Go(func() error {
			err := s.WithTx(ctx, func(tx repositories.Store) error {
				if _, err := tx.GetConversationByParticipants(ctx, from, to); err == nil {
					return nil
				} else if !errors.Is(err, repositories.ErrConversationNotFound) {
					return err
				}
				if err := tx.CreateConversation(ctx, &chat.Conversation{Participant1ID: from, Participant2ID: to}); err != nil {
					return err
				}
				created.Add(1)
				return nil
			})
			if errors.Is(err, repositories.ErrDuplicateConversation) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), created.Load())

	list, err := s.ListConversationsByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testConversations(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	a := newUser(t, s, models.UserRoleWorker)
	b := newUser(t, s, models.UserRoleEmployer)
	c := newUser(t, s, models.UserRoleEmployer)

	ab := &chat.Conversation{Participant1ID: a.ID, Participant2ID: b.ID}
	require.NoError(t, s.CreateConversation(ctx, ab))
	assert.False(t, ab.LastMessageAt.IsZero())

	got, err := s.GetConversationByParticipants(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, ab.ID, got.ID)

	ba := &chat.Conversation{Participant1ID: b.ID, Participant2ID: a.ID}
	assert.ErrorIs(t, s.CreateConversation(ctx, ba), repositories.ErrDuplicateConversation)

	_, err = s.GetConversationByParticipants(ctx, a.ID, c.ID)
	assert.ErrorIs(t, err, repositories.ErrConversationNotFound)

	time.Sleep(2 * time.Millisecond)
	ac := &chat.Conversation{Participant1ID: c.ID, Participant2ID: a.ID}
	require.NoError(t, s.CreateConversation(ctx, ac))

	list, err := s.ListConversationsByUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ac.ID, list[0].ID)

	require.NoError(t, s.TouchConversation(ctx, ab.ID, time.Now().UTC().Add(time.Minute)))
	list, err = s.ListConversationsByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, ab.ID, list[0].ID)

	onlyB, err := s.ListConversationsByUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, onlyB, 1)

	assert.ErrorIs(t, s.TouchConversation(ctx, ac.ID+100000, time.Now()), repositories.ErrConversationNotFound)
}

func testMessages(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	a := newUser(t, s, models.UserRoleWorker)
	b := newUser(t, s, models.UserRoleEmployer)
	conv := &chat.Conversation{Participant1ID: a.ID, Participant2ID: b.ID}
	require.NoError(t, s.CreateConversation(ctx, conv))

	sentAt := time.Now().UTC().Truncate(time.Millisecond)
	m1 := &chat.Message{ConversationID: conv.ID, SenderID: a.ID, Content: "hello", SentAt: sentAt}
	m2 := &chat.Message{ConversationID: conv.ID, SenderID: b.ID, Content: "hi", SentAt: sentAt}
	m3 := &chat.Message{ConversationID: conv.ID, SenderID: a.ID, Content: "when can I start?", SentAt: sentAt.Add(time.Second)}
	for _, m := range []*chat.Message{m1, m2, m3} {
		require.NoError(t, s.CreateMessage(ctx, m))
	}

	err := s.CreateMessage(ctx, &chat.Message{ConversationID: conv.ID + 100000, SenderID: a.ID, Content: "x"})
	assert.ErrorIs(t, err, repositories.ErrConversationNotFound)

	list, err := s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{m1.ID, m2.ID, m3.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	unread, err := s.CountUnread(ctx, conv.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// Свое сообщение не помечается.
	n, err := s.MarkMessageRead(ctx, m1.ID, a.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.MarkMessageRead(ctx, m1.ID, b.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.MarkMessageRead(ctx, m1.ID, b.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.MarkMessageRead(ctx, m3.ID+100000, b.ID, time.Now().UTC())
	assert.ErrorIs(t, err, repositories.ErrMessageNotFound)

	n, err = s.MarkConversationRead(ctx, conv.ID, b.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.MarkConversationRead(ctx, conv.ID, b.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.GetMessage(ctx, m3.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead())
	got, err = s.GetMessage(ctx, m2.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead())
}

var errAbort = errors.New("abort")

func testTransactionRollback(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	u := newUser(t, s, models.UserRoleWorker)

	var docID int64
	err := s.WithTx(ctx, func(tx repositories.Store) error {
		doc := &models.VerificationDocument{UserID: u.ID, DocumentType: models.DocumentTypePassport, DocumentNumber: "P1", ImagePath: "k"}
		if err := tx.CreateVerificationDocument(ctx, doc); err != nil {
			return err
		}
		docID = doc.ID
		if err := tx.SetVerificationStatus(ctx, u.ID, models.VerificationStatusPending); err != nil {
			return err
		}
		// Вложенный вызов присоединяется к внешней транзакции.
		return tx.WithTx(ctx, func(inner repositories.Store) error {
			return errAbort
		})
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = s.GetVerificationDocument(ctx, docID)
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusNotSubmitted, got.VerificationStatus)

	err = s.WithTx(ctx, func(tx repositories.Store) error {
		return tx.SetVerificationStatus(ctx, u.ID, models.VerificationStatusPending)
	})
	require.NoError(t, err)
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusPending, got.VerificationStatus)
}

func testDeleteAllUsers(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	employer := newUser(t, s, models.UserRoleEmployer)
	worker := newUser(t, s, models.UserRoleWorker)
	job := newJob(t, s, employer.ID, "general", "Pune", true)
	require.NoError(t, s.CreateApplication(ctx, &models.Application{JobID: job.ID, WorkerID: worker.ID}))
	require.NoError(t, s.CreateRating(ctx, &models.Rating{WorkerID: worker.ID, EmployerID: employer.ID, JobID: job.ID, Rating: 5}))
	_, err := s.RecomputeWorkerRating(ctx, worker.ID)
	require.NoError(t, err)
	require.NoError(t, s.CreateVerificationDocument(ctx, &models.VerificationDocument{UserID: worker.ID, DocumentType: models.DocumentTypePAN, DocumentNumber: "1", ImagePath: "k"}))
	conv := &chat.Conversation{Participant1ID: worker.ID, Participant2ID: employer.ID}
	require.NoError(t, s.CreateConversation(ctx, conv))
	require.NoError(t, s.CreateMessage(ctx, &chat.Message{ConversationID: conv.ID, SenderID: worker.ID, Content: "hi"}))

	require.NoError(t, s.DeleteAllUsers(ctx))

	_, err = s.GetUser(ctx, worker.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = s.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, repositories.ErrJobNotFound)
	_, err = s.GetConversation(ctx, conv.ID)
	assert.ErrorIs(t, err, repositories.ErrConversationNotFound)
	_, err = s.GetWorkerProfile(ctx, worker.ID)
	assert.ErrorIs(t, err, repositories.ErrWorkerNotFound)

	jobs, err := s.ListJobs(ctx, repositories.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	workers, err := s.ListWorkers(ctx, repositories.WorkerFilter{})
	require.NoError(t, err)
	assert.Empty(t, workers)
	ratings, err := s.ListRatingsByWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
