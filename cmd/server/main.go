package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"threadstory-be/internal/admin"
	"threadstory-be/internal/config"
	"threadstory-be/internal/db"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/middleware"
	"threadstory-be/internal/mongostore"
	"threadstory-be/internal/order"
	"threadstory-be/internal/payment"
	"threadstory-be/internal/product"
	"threadstory-be/internal/realtime"
	"threadstory-be/internal/transport"
	"threadstory-be/internal/upload"
	"threadstory-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the repositories of the selected backend.
type stores struct {
	products product.Repository
	users    user.Repository
	orders   order.Repository
	close    func()
}

func initStores(cfg *config.Config) (*stores, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, database := db.InitMongo(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		return &stores{
			products: mongostore.NewProductRepository(database),
			users:    mongostore.NewUserRepository(database),
			orders:   mongostore.NewOrderRepository(database),
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	database := db.InitDB(cfg)
	return &stores{
		products: product.NewRepository(database),
		users:    user.NewRepository(database),
		orders:   order.NewRepository(database),
		close:    func() { _ = database.Close() },
	}, nil
}

var (
	initStoresFunc  = initStores
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

// newServer wires services over st. The returned hub must be closed on
// shutdown.
func newServer(cfg *config.Config, st *stores, limiter *middleware.Limiter) (http.Handler, *realtime.Hub) {
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	hub := realtime.NewHub(func(r *http.Request) bool {
		return middleware.OriginAllowed(r.Header.Get("Origin"), cfg.FrontendURL)
	})

	productSvc := product.NewService(st.products)
	userSvc := user.NewService(st.users)
	orderSvc := order.NewService(st.orders, st.products, gateway, hub)
	adminSvc := admin.NewService(userSvc, st.orders, st.products)

	router := transport.NewRouter(transport.Deps{
		Products:    productSvc,
		Orders:      orderSvc,
		Users:       userSvc,
		Admin:       adminSvc,
		Uploads:     upload.NewService(cfg.UploadDir),
		Payments:    gateway,
		Feed:        hub,
		Limiter:     limiter,
		FrontendURL: cfg.FrontendURL,
	})
	return router, hub
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L()

	st, err := initStoresFunc(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewLimiter()
	go limiter.Run(ctx)

	handler, hub := newServer(cfg, st, limiter)
	defer hub.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("port", cfg.AppPort),
			zap.String("env", cfg.AppEnv),
			zap.String("store", cfg.DBDriver),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
