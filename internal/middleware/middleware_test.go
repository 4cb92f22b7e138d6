package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/internal/domain"
	"bookstore/internal/logging"
	"bookstore/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userMap map[string]*domain.User

func (m userMap) FindByID(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("connection refused")
	}
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, domain.NotFound("User")
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Minute)
	token, err := issuer.GenerateJWT("u1", "ann")
	require.NoError(t, err)
	expired, err := utils.NewTokenIssuer("secret", -time.Minute).GenerateJWT("u1", "ann")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "username": c.GetString(UsernameKey)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1","username":"ann"}`, w.Body.String())
			}
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	users := userMap{
		"admin": {ID: "admin", Role: domain.RoleAdmin},
		"user":  {ID: "user", Role: domain.RoleUser},
	}
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(UserIDKey, id)
		}
	}, AdminOnlyMiddleware(users), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"admin":  http.StatusNoContent,
		"user":   http.StatusForbidden,
		"ghost":  http.StatusForbidden,
		"broken": http.StatusInternalServerError,
		"":       http.StatusUnauthorized,
	}
	for id, status := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-User", id)
		assert.Equal(t, status, serve(r, req).Code, "caller %q", id)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOutput(&buf, "info", true)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/books/:id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/books/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	generated := w.Header().Get(requestIDHeaderName)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
	assert.Contains(t, buf.String(), `"route":"/books/:id"`)
	assert.Contains(t, buf.String(), `"request_id":"`+generated+`"`)

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.Header.Set(requestIDHeaderName, "  client-id  ")
	w = serve(r, req)
	assert.Equal(t, "client-id", w.Header().Get(requestIDHeaderName))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("bookstore")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	serve(r, httptest.NewRequest(http.MethodGet, "/books/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/books/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `bookstore_http_requests_total{method="GET",route="/books/:id",status="200"} 2`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.False(t, strings.Contains(body, `route="/metrics"`))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, logging.Discard())
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	rl.Cleanup(-time.Minute) // Cutoff in the future forgets every client
	rl.mu.Lock()
	assert.Empty(t, rl.limiters)
	rl.mu.Unlock()
}
