package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
	"github.com/hackgods/dentist-appointment-booking/internal/bootstrap"
	"github.com/hackgods/dentist-appointment-booking/internal/config"
	"github.com/hackgods/dentist-appointment-booking/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log := logger.New(cfg).Named("archive-worker")
	defer func() { _ = log.Sync() }()

	log.Info("archive-worker starting up",
		zap.String("store", cfg.StoreBackend),
		zap.Duration("interval", cfg.WorkerInterval))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(rootCtx, cfg, log)
	if err != nil {
		log.Fatal("store open error", zap.Error(err))
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("error closing store", zap.Error(err))
		}
	}()

	// Run once at startup
	runOnce(rootCtx, rt.Service, log)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping archive worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, rt.Service, log)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service, log *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	n, err := svc.ArchivePast(runCtx)
	if err != nil {
		log.Error("archive run error", zap.Int("archived", n), zap.Error(err))
		return
	}
	log.Info("archive run complete", zap.Int("archived", n), zap.Duration("took", time.Since(start)))
}
