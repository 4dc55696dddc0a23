package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sudhamrit-be/internal/admin"
	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/category"
	"sudhamrit-be/internal/config"
	"sudhamrit-be/internal/dashboard"
	"sudhamrit-be/internal/db"
	"sudhamrit-be/internal/handler"
	"sudhamrit-be/internal/location"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/middleware"
	"sudhamrit-be/internal/notify"
	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/payment"
	"sudhamrit-be/internal/payment/webhook"
	"sudhamrit-be/internal/product"
	"sudhamrit-be/internal/storage"
	"sudhamrit-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router, cleanup, err := newServer(cfg, database)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server running", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
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

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires repositories, services and the HTTP router. The returned
// cleanup releases background resources.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, func(), error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	images, err := storage.NewLocalStore(cfg.ImageDir)
	if err != nil {
		return nil, nil, err
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("notifier: %w", err)
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyTimeout)

	gateway := payment.NewRazorpayGateway(
		cfg.RazorpayKeyID,
		cfg.RazorpayKeySecret,
		cfg.RazorpayWebhookSecret,
		cfg.GatewayTimeout,
	)

	userSvc := user.NewService(user.NewRepository(database))
	adminSvc := admin.NewService(admin.NewRepository(database), cfg.AdminInviteCode)
	productSvc := product.NewService(product.NewRepository(database), images)
	categorySvc := category.NewService(category.NewRepository(database))

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)
	checkoutSvc := order.NewCheckoutService(cartRepo, orderRepo, gateway, dispatcher, order.CheckoutConfig{
		Currency:   cfg.PaymentCurrency,
		NotifyWait: cfg.NotifyWait,
	})

	dashboardSvc := dashboard.NewService(dashboard.NewRepository(database), orderRepo, 10)
	locationSvc := location.NewService(
		location.NewRepository(database),
		location.NewGoogleGeocoder(cfg.GoogleMapsAPIKey, cfg.GatewayTimeout),
	)

	webhookHandler := webhook.NewWebhookHandler(payment.NewRepository(database), gateway)

	h := handler.New(handler.Deps{
		Tokens:        tokens,
		Users:         userSvc,
		Admins:        adminSvc,
		Products:      productSvc,
		Categories:    categorySvc,
		Carts:         cartSvc,
		Checkout:      checkoutSvc,
		Orders:        orderSvc,
		Dashboard:     dashboardSvc,
		Locations:     locationSvc,
		DB:            database,
		SecureCookies: cfg.IsProduction(),
	})

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	router := handler.NewRouter(h, handler.RouterConfig{
		Tokens:     tokens,
		Limiter:    limiter,
		Webhook:    webhookHandler.RazorpayWebhook,
		CORSOrigin: cfg.CORSOrigin,
		ImageDir:   cfg.ImageDir,
	})

	cleanup := func() {
		limiter.Close()
		if err := notifier.Close(); err != nil {
			logger.L().Warn("notifier close failed", zap.Error(err))
		}
	}
	return router, cleanup, nil
}
