package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(&config.Config{JWTSecret: testSecret}))
	r.GET("/whoami", func(c *gin.Context) {
		switch p := Principal(c).(type) {
		case session.Tutor:
			c.String(http.StatusOK, "tutor:%d", p.ID)
		case session.Student:
			c.String(http.StatusOK, "student:%d", p.ID)
		default:
			c.String(http.StatusOK, "other")
		}
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareBuildsPrincipal(t *testing.T) {
	token, err := IssueToken(testSecret, time.Hour, &models.User{ID: 42, Role: models.RoleTutor})
	require.NoError(t, err)

	w := get(authRouter(), "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tutor:42", w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := authRouter()

	expired, err := IssueToken(testSecret, -time.Minute, &models.User{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	wrongSecret, err := IssueToken("other", time.Hour, &models.User{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	unknownRole, err := IssueToken(testSecret, time.Hour, &models.User{ID: 1, Role: "owner"})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":      "",
		"expired":      expired,
		"wrong secret": wrongSecret,
		"unknown role": unknownRole,
		"alg none":     noneAlg,
		"garbage":      "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			w := get(r, "/whoami", token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"message"`)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := authRouter()

	student, _ := IssueToken(testSecret, time.Hour, &models.User{ID: 1, Role: models.RoleStudent})
	admin, _ := IssueToken(testSecret, time.Hour, &models.User{ID: 2, Role: models.RoleAdmin})

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", student).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RPS: 0.001, Burst: 2}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/", "").Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
