package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	for _, env := range []string{"production", "development", "test"} {
		t.Run(env, func(t *testing.T) {
			Init(env)
			assert.NotNil(t, log)
		})
	}
}

func TestBuildOptions_CallerIsLoggingSite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core, buildOptions...)

	l.Info("product created")

	require.Equal(t, 1, logs.Len())
	caller := logs.All()[0].Caller
	require.True(t, caller.Defined)
	assert.True(t, strings.HasSuffix(caller.File, "logger/logger_test.go"), caller.File)
}

func TestL(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	log = nil
	os.Setenv("APP_ENV", "test")

	l := L()
	assert.NotNil(t, l)
	assert.NotNil(t, log)
}

func TestReplace(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	nop := zap.NewNop()
	restore := Replace(nop)
	assert.Same(t, nop, L())

	restore()
	assert.Equal(t, originalLog, log)
}

func TestContextFunctions(t *testing.T) {
	ctx := context.Background()
	reqID := "test-request-id-123"

	t.Run("WithRequestID", func(t *testing.T) {
		newCtx := WithRequestID(ctx, reqID)
		assert.Equal(t, reqID, newCtx.Value(requestIDKey))
	})

	t.Run("RequestIDFrom", func(t *testing.T) {
		assert.Equal(t, reqID, RequestIDFrom(WithRequestID(ctx, reqID)))
		assert.Equal(t, "", RequestIDFrom(ctx))
	})
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer Replace(zap.New(core))()

	t.Run("WithRequestID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-abc-123")

		FromCtx(ctx).Info("test message with id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		assert.Equal(t, "test message with id", logs[0].Message)
		assert.Equal(t, "req-abc-123", logs[0].ContextMap()["request_id"])
	})

	t.Run("WithoutRequestID", func(t *testing.T) {
		FromCtx(context.Background()).Info("test message without id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		_, ok := logs[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, func() {
		Sync()
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		assert.NotEmpty(t, RequestIDFrom(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	t.Run("Generates ID when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
	})
}
