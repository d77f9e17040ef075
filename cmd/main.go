package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledger-service/config"
	infradb "ledger-service/infra/db"
	"ledger-service/infra/repository"
	"ledger-service/internal/core/handler"
	"ledger-service/internal/core/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infradb.Connect(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
	)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	ledgerRepo := repository.NewLedgerRepository(db)
	f := usecase.NewFactory(ledgerRepo, logger)
	h := handler.NewHandlerFactory(f)

	router := mux.NewRouter()
	router.Use(handler.MetricsMiddleware)
	h.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
