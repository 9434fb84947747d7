package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hisab-app/hisab/internal/auth"
	"github.com/hisab-app/hisab/internal/config"
	"github.com/hisab-app/hisab/internal/handlers"
	"github.com/hisab-app/hisab/internal/metrics"
	"github.com/hisab-app/hisab/internal/service"
	"github.com/hisab-app/hisab/internal/storage/sqlite"
	"github.com/hisab-app/hisab/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	m := metrics.New(prometheus.DefaultRegisterer)

	h := handlers.New(
		service.NewUserService(store),
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewSettlementService(store),
		service.NewBalanceService(store),
	)
	router := handlers.NewRouter(h, jwtManager, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch

		slog.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Shutdown error", "error", err)
		}
	}()

	slog.Info("Server starting", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
