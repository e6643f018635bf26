package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/pkg/contextkeys"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Bearer    ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"http://localhost:3000/"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSWildcardDoesNotAllowCredentials(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"*"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://anything.example")
	w := serve(r, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSecureMiddlewareSetsHeaders(t *testing.T) {
	r := newEngine(SecureMiddleware(SecureOptions(false)))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = serve(r, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}

func TestRequireRoles(t *testing.T) {
	withUser := func(u *models.User) gin.HandlerFunc {
		return func(c *gin.Context) {
			if u != nil {
				c.Set(contextkeys.UserIDKey, u.ID)
				c.Set(contextkeys.UserKey, u)
			}
			c.Next()
		}
	}

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &models.User{ID: 1, Role: models.UserRoleWorker}, http.StatusForbidden},
		{"allowed", &models.User{ID: 2, Role: models.UserRoleEmployer}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(withUser(tt.user), RequireRoles(models.UserRoleEmployer))
			w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	limit, err := NewIPRateLimiter("1-M", "")
	require.NoError(t, err)
	r := newEngine(limit)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	_, err = NewIPRateLimiter("ten per minute", "")
	assert.Error(t, err)

	_, err = NewIPRateLimiter("5-S", "not a url")
	assert.Error(t, err)
}

func TestUserRateLimiterKeysByUser(t *testing.T) {
	limit, err := NewUserRateLimiter("1-M", "")
	require.NoError(t, err)

	r := newEngine(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id == "1" {
			c.Set(contextkeys.UserIDKey, int64(1))
		} else if id == "2" {
			c.Set(contextkeys.UserIDKey, int64(2))
		}
		c.Next()
	}, limit)

	asUser := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Test-User", id)
		return req
	}

	assert.Equal(t, http.StatusOK, serve(r, asUser("1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, asUser("1")).Code)
	// тот же IP, другой пользователь - свой счетчик
	assert.Equal(t, http.StatusOK, serve(r, asUser("2")).Code)
}
