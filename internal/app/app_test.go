package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperlocal_backend/internal/config"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/repositories/memstore"
)

const adminToken = "admin-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("test", io.Discard)
	os.Exit(m.Run())
}

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendVerificationCode(_ context.Context, to, _, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *captureMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	mailer *captureMailer
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Auth.JWTSecret = "jwt-test-secret"
	cfg.Auth.SessionSecret = "session-test-secret-0123456789ab"
	cfg.Admin.Token = adminToken
	cfg.RateLimit.AuthRate = ""
	cfg.RateLimit.VerifyRate = ""
	cfg.Storage.BasePath = t.TempDir()
	return &cfg
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := testConfig(t)
	for _, fn := range mutate {
		fn(cfg)
	}

	mailer := &captureMailer{codes: make(map[string]string)}
	router, err := SetupRouter(cfg, memstore.New(), mailer)
	require.NoError(t, err)
	return &testServer{t: t, router: router, mailer: mailer}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (s *testServer) do(method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, w).Error.Code
}

type account struct {
	ID    int64
	Token string
}

type authBody struct {
	User struct {
		ID            int64  `json:"id"`
		EmailVerified bool   `json:"emailVerified"`
		IsVerified    bool   `json:"isVerified"`
		Role          string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func (s *testServer) register(username, role string, extra ...map[string]interface{}) account {
	s.t.Helper()
	body := map[string]interface{}{
		"username": username,
		"password": "password123",
		"fullName": "Test " + username,
		"role":     role,
		"location": "Pune",
	}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	w := s.do(http.MethodPost, "/api/register", body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[authBody](s.t, w)
	return account{ID: resp.User.ID, Token: resp.Token}
}

type idBody struct {
	ID int64 `json:"id"`
}

func (s *testServer) postJob(employer account) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/jobs", map[string]interface{}{
		"title":       "Warehouse loading",
		"description": "Load trucks for one shift",
		"location":    "Hadapsar, Pune",
		"category":    "labour",
		"wage":        "800/day",
	}, withToken(employer.Token))
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[idBody](s.t, w).ID
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil, withHeader("X-Request-ID", "req-42"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hyperlocal_http_request_duration_seconds")
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/jobs"},
		{http.MethodPatch, "/api/jobs/1"},
		{http.MethodPost, "/api/jobs/1/apply"},
		{http.MethodPatch, "/api/applications/1"},
		{http.MethodPost, "/api/ratings"},
		{http.MethodGet, "/api/user"},
		{http.MethodPost, "/api/conversations"},
		{http.MethodPost, "/api/verify-email"},
		{http.MethodGet, "/api/worker/profile"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := s.do(tc.method, tc.path, map[string]interface{}{})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
		})
	}

	w := s.do(http.MethodGet, "/api/user", nil, withToken("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
}

func TestRegisterValidationError(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/register", map[string]interface{}{
		"username": "ab",
		"password": "short",
		"role":     "admin",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, body.Error.Details, "password")
	assert.Contains(t, body.Error.Details, "role")

	w = s.do(http.MethodPost, "/api/login", map[string]interface{}{
		"username": "nobody",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
}

func TestMarketplaceFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	employer := s.register("employer1", "employer")
	other := s.register("employer2", "employer")
	worker := s.register("worker1", "worker")

	w := s.do(http.MethodPost, "/api/jobs", map[string]interface{}{
		"title": "x", "description": "x", "location": "x", "category": "x", "wage": "x",
	}, withToken(worker.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	jobID := s.postJob(employer)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/jobs/%d", jobID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	job := decode[struct {
		Employer struct {
			ID int64 `json:"id"`
		} `json:"employer"`
	}](t, w)
	assert.Equal(t, employer.ID, job.Employer.ID)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), nil, withToken(employer.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), nil, withToken(worker.Token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appID := decode[idBody](t, w).ID

	w = s.do(http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), nil, withToken(worker.Token))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/jobs/999/apply", nil, withToken(worker.Token))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/jobs/%d/applications", jobID), nil, withToken(other.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/jobs/%d/applications", jobID), nil, withToken(employer.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	statusPath := fmt.Sprintf("/api/applications/%d", appID)
	w = s.do(http.MethodPatch, statusPath, map[string]string{"status": "accepted"}, withToken(other.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, statusPath, map[string]string{"status": "unknown"}, withToken(employer.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rating := map[string]interface{}{"workerId": worker.ID, "jobId": jobID, "rating": 5, "comment": "Great work"}
	w = s.do(http.MethodPost, "/api/ratings", rating, withToken(employer.Token))
	assert.Equal(t, http.StatusConflict, w.Code, "job is not completed yet")

	w = s.do(http.MethodPatch, statusPath, map[string]string{"status": "accepted"}, withToken(employer.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPatch, statusPath, map[string]string{"status": "completed"}, withToken(employer.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPatch, statusPath, map[string]string{"status": "pending"}, withToken(employer.Token))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/ratings", rating, withToken(employer.Token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Profile struct {
			AverageRating float64 `json:"averageRating"`
			TotalRatings  int     `json:"totalRatings"`
		} `json:"profile"`
	}](t, w)
	assert.Equal(t, 5.0, created.Profile.AverageRating)
	assert.Equal(t, 1, created.Profile.TotalRatings)

	w = s.do(http.MethodPost, "/api/ratings", rating, withToken(employer.Token))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/workers/%d/ratings", worker.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	w = s.do(http.MethodGet, "/api/workers?topRated=true&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)

	w = s.do(http.MethodGet, "/api/worker/applications", nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	apps := decode[[]struct {
		Status string `json:"status"`
	}](t, w)
	require.Len(t, apps, 1)
	assert.Equal(t, "completed", apps[0].Status)
}

func TestDashboardsRequireRole(t *testing.T) {
	s := newTestServer(t)
	employer := s.register("employer1", "employer")
	worker := s.register("worker1", "worker")

	w := s.do(http.MethodGet, "/api/employer/jobs", nil, withToken(worker.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/worker/profile", nil, withToken(employer.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/worker/profile", nil, withToken(worker.Token))
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPatch, "/api/worker/profile", map[string]interface{}{"skill": "Plumbing"}, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/workers?skill=plumb", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)

	s.postJob(employer)
	w = s.do(http.MethodGet, "/api/employer/jobs", nil, withToken(employer.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)
}

func TestSessionCookieFlow(t *testing.T) {
	s := newTestServer(t)
	s.register("worker1", "worker")

	w := s.do(http.MethodPost, "/api/login", map[string]string{
		"username": "worker1",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = s.do(http.MethodGet, "/api/user", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/logout", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	w = s.do(http.MethodGet, "/api/user", nil, withCookies(cleared))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmailVerificationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	user := s.register("worker1", "worker", map[string]interface{}{"email": "Worker1@Example.com"})

	code := s.mailer.code("worker1@example.com")
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	w := s.do(http.MethodPost, "/api/verify-email", map[string]string{"code": wrong}, withToken(user.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_VERIFICATION_CODE", errorCode(t, w))

	w = s.do(http.MethodPost, "/api/verify-email", map[string]string{"code": code}, withToken(user.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[struct {
		EmailVerified bool `json:"emailVerified"`
	}](t, w).EmailVerified)

	w = s.do(http.MethodPost, "/api/resend-verification", nil, withToken(user.Token))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPatch, "/api/user", map[string]string{"email": "new@example.com"}, withToken(user.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct {
		EmailVerified bool `json:"emailVerified"`
	}](t, w).EmailVerified)

	w = s.do(http.MethodPost, "/api/resend-verification", nil, withToken(user.Token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.mailer.code("new@example.com"), 6)
}

func TestAdminTokenGuard(t *testing.T) {
	s := newTestServer(t)
	s.register("worker1", "worker")

	w := s.do(http.MethodDelete, "/api/admin/users", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodDelete, "/api/admin/users", nil, withHeader("X-Admin-Token", "wrong"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/admin/users", nil, withHeader("X-Admin-Token", adminToken))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/login", map[string]string{"username": "worker1", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesClosedWithoutConfiguredToken(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Admin.Token = "" })

	w := s.do(http.MethodDelete, "/api/admin/users", nil, withHeader("X-Admin-Token", "anything"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 6), G: uint8(y * 8), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(token string, fields map[string]string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	body, contentType := multipartUpload(s.t, fields, "id.png", content)
	req := httptest.NewRequest(http.MethodPost, "/api/verification/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestVerificationUploadAndReview(t *testing.T) {
	s := newTestServer(t)
	worker := s.register("worker1", "worker")
	fields := map[string]string{"documentType": "aadhaar", "documentNumber": "1234-5678-9012"}

	w := s.upload(worker.Token, fields, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(worker.Token, fields, []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(worker.Token, map[string]string{"documentType": "passport", "documentNumber": "X1"}, pngBytes(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))

	w = s.upload(worker.Token, fields, pngBytes(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"`
		ImageURL string `json:"imageUrl"`
	}](t, w)
	assert.Equal(t, "pending", doc.Status)
	assert.NotEmpty(t, doc.ImageURL)

	w = s.do(http.MethodGet, "/api/verification/documents", nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idBody](t, w), 1)

	reviewPath := fmt.Sprintf("/api/admin/verification/%d", doc.ID)
	w = s.do(http.MethodPatch, reviewPath, map[string]string{"status": "verified"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPatch, "/api/admin/verification/999", map[string]string{"status": "verified"},
		withHeader("X-Admin-Token", adminToken))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPatch, reviewPath, map[string]string{"status": "verified"}, withHeader("X-Admin-Token", adminToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, reviewPath, map[string]string{"status": "rejected"}, withHeader("X-Admin-Token", adminToken))
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "CONFLICT", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/user", nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		IsVerified         bool   `json:"isVerified"`
		VerificationStatus string `json:"verificationStatus"`
	}](t, w)
	assert.True(t, me.IsVerified)
	assert.Equal(t, "verified", me.VerificationStatus)
}

func TestConversationsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	employer := s.register("employer1", "employer")
	worker := s.register("worker1", "worker")
	outsider := s.register("worker2", "worker")

	w := s.do(http.MethodPost, "/api/conversations", map[string]interface{}{"participantId": worker.ID}, withToken(employer.Token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	convID := decode[idBody](t, w).ID

	w = s.do(http.MethodPost, "/api/conversations", map[string]interface{}{"participantId": employer.ID}, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, convID, decode[idBody](t, w).ID)

	w = s.do(http.MethodPost, "/api/conversations", map[string]interface{}{"participantId": employer.ID}, withToken(employer.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	msgPath := fmt.Sprintf("/api/conversations/%d/messages", convID)
	w = s.do(http.MethodPost, msgPath, map[string]interface{}{"content": "Can you start at 8?"}, withToken(employer.Token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	msgID := decode[idBody](t, w).ID

	w = s.do(http.MethodPost, msgPath, map[string]interface{}{"content": "hi"}, withToken(outsider.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/conversations", nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	convs := decode[[]struct {
		UnreadCount int64 `json:"unreadCount"`
	}](t, w)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	readPath := fmt.Sprintf("/api/messages/%d/read", msgID)
	w = s.do(http.MethodPatch, readPath, nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	w = s.do(http.MethodPatch, readPath, nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":0}`, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), nil, withToken(outsider.Token))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), nil, withToken(worker.Token))
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Messages []struct {
			ReadAt *time.Time `json:"readAt"`
		} `json:"messages"`
	}](t, w)
	require.Len(t, detail.Messages, 1)
	assert.NotNil(t, detail.Messages[0].ReadAt)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.RateLimit.AuthRate = "2-M" })

	creds := map[string]string{"username": "nobody", "password": "password123"}
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/api/login", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := s.do(http.MethodPost, "/api/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Публичные маршруты без лимита
	w = s.do(http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyEmailAttemptsAreLimited(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.RateLimit.VerifyRate = "3-M" })
	user := s.register("worker1", "worker", map[string]interface{}{"email": "worker1@example.com"})
	other := s.register("worker2", "worker", map[string]interface{}{"email": "worker2@example.com"})

	code := s.mailer.code("worker1@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, "/api/verify-email", map[string]string{"code": wrong}, withToken(user.Token))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	// верный код после исчерпания попыток тоже отклоняется
	w := s.do(http.MethodPost, "/api/verify-email", map[string]string{"code": code}, withToken(user.Token))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = s.do(http.MethodPost, "/api/resend-verification", nil, withToken(user.Token))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// счетчик у каждого пользователя свой
	w = s.do(http.MethodPost, "/api/verify-email", map[string]string{"code": s.mailer.code("worker2@example.com")}, withToken(other.Token))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
