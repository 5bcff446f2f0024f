package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/api"
	"github.com/hackgods/dentist-appointment-booking/internal/bootstrap"
	"github.com/hackgods/dentist-appointment-booking/internal/config"
	"github.com/hackgods/dentist-appointment-booking/internal/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("api-server starting up",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store", cfg.StoreBackend))

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

	handler := api.NewRouter(api.RouterConfig{
		Service:     rt.Service,
		Logger:      log,
		Backend:     cfg.StoreBackend,
		Env:         cfg.Env,
		Version:     version,
		RateLimit:   cfg.RateLimit,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-rootCtx.Done()

	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
