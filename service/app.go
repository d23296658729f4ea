// Package service assembles and runs the application: the HTTP server and
// the database maintenance commands.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"blogdesk/app/middleware"
	"blogdesk/app/repositories"
	"blogdesk/app/routes"
	"blogdesk/config"

	"github.com/sirupsen/logrus"
)

// MetricsNamespace prefixes every exported Prometheus series.
const MetricsNamespace = "blogdesk"

// openStore opens the back end selected by cfg.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repositories.Store, error) {
	return repositories.Open(ctx, repositories.Options{
		Driver:     cfg.StoreDriver,
		DSN:        cfg.DatabaseURL,
		BadgerPath: cfg.BadgerPath,
		Logger:     log,
	})
}

// NewServer builds the HTTP server for store without starting it.
func NewServer(cfg *config.Config, store repositories.Store, log *logrus.Logger) (*http.Server, error) {
	router, err := routes.SetupRoutes(routes.Options{
		Store:      store,
		Logger:     log,
		Metrics:    middleware.NewMetrics(MetricsNamespace),
		CSRFKey:    cfg.CSRFKey(),
		SessionKey: cfg.SessionKey(),
		Secure:     cfg.CookieSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}

// RunAppServer opens the store, serves HTTP until ctx is cancelled and then
// shuts down gracefully within cfg.ShutdownTimeout.
func RunAppServer(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("closing store")
		}
	}()

	srv, err := NewServer(cfg, store, log)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	log.WithFields(logrus.Fields{
		"addr":   ln.Addr().String(),
		"driver": cfg.StoreDriver,
		"env":    cfg.Env,
	}).Info("starting blog service")
	return Serve(ctx, srv, ln, cfg.ShutdownTimeout, log)
}

// Serve runs srv on ln until ctx is done, then drains in-flight requests for
// at most timeout.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server exited cleanly")
	return nil
}
