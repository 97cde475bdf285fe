package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/metrics"
	"threadstory-be/internal/user"
	"threadstory-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", Protect(), func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user": id, "name": utils.GetUserNameFromContext(c.Request.Context())})
	})
	r.GET("/admin", Protect(), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestProtect(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	t.Run("Missing Token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Not authorized, no token"}`, w.Body.String())
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Not authorized, token failed"}`, w.Body.String())
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, err := user.GenerateJWT(&user.User{ID: "u-1", Name: "Asha", Email: "asha@example.com", Role: user.RoleUser})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"u-1","name":"Asha"}`, w.Body.String())
	})

	t.Run("Query Token", func(t *testing.T) {
		token, err := user.GenerateJWT(&user.User{ID: "u-2", Role: user.RoleUser})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := signToken(t, "test-secret", user.CustomClaims{
			UserID: "u-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token := signToken(t, "other-secret", user.CustomClaims{UserID: "u-1"})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	call := func(role user.Role) *httptest.ResponseRecorder {
		token, err := user.GenerateJWT(&user.User{ID: "u-1", Role: role})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call(user.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Not authorized as an admin"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, call(user.RoleAdmin).Code)
}

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		origin   string
		frontend string
		want     bool
	}{
		{"", "", true},
		{"http://localhost:5173", "", true},
		{"http://localhost:3000", "", true},
		{"http://localhost:8080", "", false},
		{"https://threadstory.in", "https://threadstory.in/", true},
		{"https://threadstory.in", "https://threadstory.in", true},
		{"https://thread-story-git-main.vercel.app", "", true},
		{"https://vercel.app.evil.com", "", false},
		{"https://evil.example", "https://threadstory.in", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, OriginAllowed(tc.origin, tc.frontend), "origin %q", tc.origin)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://threadstory.in"))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("Allowed Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://threadstory.in")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://threadstory.in", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Foreign Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("No Origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	l := NewLimiter()
	r := gin.New()
	r.Use(l.Middleware())
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < burstStrict; i++ {
		require.Equal(t, http.StatusOK, hit(http.MethodPost, "/api/auth/login"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(http.MethodPost, "/api/auth/login"))

	// the general tier is a separate bucket
	assert.Equal(t, http.StatusOK, hit(http.MethodGet, "/api/products"))
}

func TestClientIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(device string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		if device != "" {
			req.Header.Set("X-Device-ID", device)
		}
		c.Request = req
		return c
	}

	assert.Equal(t, "device:phone-1", clientIdentity(newCtx("phone-1")))
	assert.Equal(t, "ip:10.0.0.7", clientIdentity(newCtx("")))
}

func TestRateLimit_DeviceBuckets(t *testing.T) {
	l := NewLimiter()
	r := gin.New()
	r.Use(l.Middleware())
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(device string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Device-ID", device)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < burstStrict; i++ {
		require.Equal(t, http.StatusOK, hit("phone-a"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit("phone-a"))

	// same IP, different device
	assert.Equal(t, http.StatusOK, hit("phone-b"))
}

func TestResolveRateTier(t *testing.T) {
	cases := map[string]string{
		"/api/auth/login":       "strict",
		"/api/orders/razorpay":  "strict",
		"/api/orders/abc/pay":   "strict",
		"/api/orders/myorders":  "general",
		"/api/products":         "general",
		"/api/admin/orders/abc": "general",
	}
	for path, want := range cases {
		_, _, tier := resolveRateTier(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, tier, path)
	}
}

func TestLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l := NewLimiter()
	l.now = func() time.Time { return now }

	l.getVisitor("ip:a:general", limitGeneral, burstGeneral)
	now = now.Add(2 * time.Minute)
	l.getVisitor("ip:b:general", limitGeneral, burstGeneral)
	now = now.Add(2 * time.Minute)

	l.cleanup(visitorTTL)

	assert.NotContains(t, l.visitors, "ip:a:general")
	assert.Contains(t, l.visitors, "ip:b:general")
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	defer logger.Replace(zap.New(core))()

	before := metrics.Requests.Load()

	r := gin.New()
	r.Use(logger.RequestID(), AccessLog())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(logger.RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(logger.RequestIDHeader))
	assert.Equal(t, before+1, metrics.Requests.Load())

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/missing", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}
