package main

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"threadstory-be/internal/config"
	"threadstory-be/internal/order"
	"threadstory-be/internal/product"
	"threadstory-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Driver for Testing ---
type mockDriver struct{}
type mockConn struct{}
type mockStmt struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return -1 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, errors.New("no rows") }

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func mockStores(t *testing.T) *stores {
	t.Helper()
	database, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	return &stores{
		products: product.NewRepository(database),
		users:    user.NewRepository(database),
		orders:   order.NewRepository(database),
		close:    func() { _ = database.Close() },
	}
}

func TestNewServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppPort:       "5000",
		AppEnv:        "test",
		RazorpayKeyID: "rzp_test_key",
		// secret left empty: gateway stays disabled
		UploadDir:   t.TempDir(),
		FrontendURL: "https://threadstory.in",
	}

	st := mockStores(t)
	defer st.close()

	handler, hub := newServer(cfg, st, nil)
	defer hub.Close()
	require.NotNil(t, handler)

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	})

	t.Run("Gateway key hidden when disabled", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config/razorpay", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"key":""}`, rr.Body.String())
	})

	t.Run("Products store failure", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"message":"Internal server error"}`, rr.Body.String())
	})
}

func TestRun(t *testing.T) {
	origInit := initStoresFunc
	defer func() { initStoresFunc = origInit }()
	initStoresFunc = func(cfg *config.Config) (*stores, error) {
		return mockStores(t), nil
	}

	origStart := startServerFunc
	defer func() { startServerFunc = origStart }()
	var addr string
	startServerFunc = func(srv *http.Server) error {
		addr = srv.Addr
		return http.ErrServerClosed
	}

	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	assert.NoError(t, run())
	assert.Equal(t, ":8080", addr)
}

func TestRun_StoreFailure(t *testing.T) {
	origInit := initStoresFunc
	defer func() { initStoresFunc = origInit }()
	initStoresFunc = func(cfg *config.Config) (*stores, error) {
		return nil, errors.New("connection refused")
	}

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "localhost")

	assert.EqualError(t, run(), "connection refused")
}
