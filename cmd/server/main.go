package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cutlist-editor/internal/editing"
	"cutlist-editor/internal/platform/auth"
	"cutlist-editor/internal/platform/config"
	"cutlist-editor/internal/platform/logger"
	"cutlist-editor/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	maxSessions := config.GetEnvInt("MAX_SESSIONS", editing.DefaultMaxSessions)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	databaseURL := config.GetEnv("DATABASE_URL", "")
	jwtSecret := config.GetEnv("JWT_SECRET", "")
	logRequests := config.GetEnvBool("LOG_REQUESTS", true)
	readTimeout := config.GetEnvDuration("READ_TIMEOUT", 15*time.Second)

	log := logger.New(logLevel, logFormat)

	var store editing.Store = editing.NewInMemoryStore()
	if databaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		pool, err := editing.Connect(ctx, databaseURL)
		if err != nil {
			cancel()
			log.Error("database connect failed", "error", err)
			return err
		}
		defer pool.Close()
		pg := editing.NewPostgresStore(pool)
		err = pg.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Error("database schema failed", "error", err)
			return err
		}
		store = pg
	}

	repo := editing.NewInMemoryRepository()
	svc := editing.NewService(repo, store, maxSessions)
	met := metrics.New()
	h := editing.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if logRequests {
		r.Use(logger.RequestLogger(log))
	}
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetActiveSessions(repo.ActiveSessionCount()) }).ServeHTTP(w, r)
	})
	r.Group(func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(auth.NewService(jwtSecret).RequireAuth)
		}
		h.Routes(r)
	})

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r, ReadTimeout: readTimeout}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	log.Info("server starting",
		"port", port,
		"max_sessions", maxSessions,
		"log_level", logLevel,
		"postgres", databaseURL != "",
		"auth", jwtSecret != "",
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		log.Error("server error", "error", err)
		return err
	case <-sigCh:
	}

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}
