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
)

const testSecret = "test-secret-key-32-chars-minimum!!"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, id uint, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"employee_id": id,
		"name":        "Roberto",
		"role":        role,
		"exp":         now.Add(ttl).Unix(),
		"iat":         now.Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func protected(roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", JWTAuth(testSecret), RequireRole(roles...), func(c *gin.Context) {
		cl := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": cl.EmployeeID, "role": cl.Role})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_NoToken(t *testing.T) {
	w := do(protected("manager"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestJWTAuth_Expired(t *testing.T) {
	w := do(protected("manager"), signToken(t, 1, "manager", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"employee_id": 1, "role": "manager", "exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(protected("manager"), s).Code)
}

func TestRequireRole(t *testing.T) {
	r := protected("manager", "admin")
	assert.Equal(t, http.StatusOK, do(r, signToken(t, 1, "manager", time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, signToken(t, 2, "mechanic", time.Hour)).Code)
}

func TestRequestID_EchoesIncoming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestWindowLimiter(t *testing.T) {
	l := newWindowLimiter("test", 2, time.Minute, "devagar")
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.False(t, ok)
	ok, _ = l.allow("2.2.2.2")
	assert.True(t, ok, "limits are per IP")

	now = now.Add(2 * time.Minute)
	purged, remaining := l.purge()
	assert.Equal(t, 2, purged)
	assert.Zero(t, remaining)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
