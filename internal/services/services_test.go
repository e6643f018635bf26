package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hyperlocal_backend/internal/auth"
	"hyperlocal_backend/internal/config"
	"hyperlocal_backend/internal/imageprocessor"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/repositories/memstore"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/internal/storage"
)

type sentCode struct {
	To   string
	Code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *fakeMailer) SendVerificationCode(_ context.Context, to, _, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{To: to, Code: code})
	return nil
}

func (m *fakeMailer) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *fakeMailer) last(t *testing.T) sentCode {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email was sent")
	return m.sent[len(m.sent)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store  *memstore.Store
	files  *storage.LocalStorage
	mailer *fakeMailer
	clock  *fakeClock
	cfg    config.Config
	svc    *ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Defaults()
	files, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	env := &testEnv{
		store:  memstore.New(),
		files:  files,
		mailer: &fakeMailer{},
		clock:  &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		cfg:    cfg,
	}
	env.svc = NewServiceContainer(Deps{
		Store:   env.store,
		Storage: files,
		Mailer:  env.mailer,
		Images:  imageprocessor.NewProcessor(80, 200),
		Tokens:  auth.NewTokenManager("test-secret", time.Hour),
		Config:  &env.cfg,
		Now:     env.clock.Now,
	})
	return env
}

func (e *testEnv) register(t *testing.T, username string, role models.UserRole) *dto.UserResponse {
	t.Helper()
	resp, err := e.svc.AuthService.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Password: "password123",
		FullName: "Test " + username,
		Role:     role,
		Location: "Pune",
	})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) postJob(t *testing.T, employerID int64) *dto.JobResponse {
	t.Helper()
	job, err := e.svc.JobService.CreateJob(context.Background(), employerID, &dto.CreateJobRequest{
		Title:       "Warehouse loading",
		Description: "Load trucks for one shift",
		Location:    "Hadapsar, Pune",
		Category:    "labour",
		Wage:        "800/day",
	})
	require.NoError(t, err)
	return job
}

// completedApplication - отклик worker на новую вакансию employer в статусе completed.
func (e *testEnv) completedApplication(t *testing.T, employerID, workerID int64) *dto.JobResponse {
	t.Helper()
	ctx := context.Background()
	job := e.postJob(t, employerID)
	app, err := e.svc.ApplicationService.Apply(ctx, workerID, job.ID)
	require.NoError(t, err)
	_, err = e.svc.ApplicationService.UpdateStatus(ctx, employerID, app.ID, &dto.UpdateApplicationStatusRequest{
		Status: models.ApplicationStatusCompleted,
	})
	require.NoError(t, err)
	return job
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(data []byte) *Upload {
	return &Upload{Filename: "id.png", Size: int64(len(data)), Content: bytes.NewReader(data)}
}
