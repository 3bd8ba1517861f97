package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/db"
	"github.com/emaskripto-boop/Emaskripto/internal/api"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/internal/service"
	"github.com/emaskripto-boop/Emaskripto/internal/simulator"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		utils.InitLogger("debug").Fatal("Failed to load config: ", err)
	}
	logger := utils.InitLogger(cfg.LogLevel)

	database, err := db.Connect(&cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	if err := db.Migrate(database, logger); err != nil {
		logger.Fatal(err)
	}

	st := store.New(database, logger)
	repo := repository.New(st, logger)
	svc := service.New(repo, &cfg, logger)
	sim := simulator.New(svc, &cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sim.Run(ctx)

	server := api.NewServer(svc, sim, st, logger)
	server.EnableMetrics()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("🚀 Listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
}
