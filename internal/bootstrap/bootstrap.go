package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
	"github.com/hackgods/dentist-appointment-booking/internal/config"
	"github.com/hackgods/dentist-appointment-booking/internal/db"
	redisclient "github.com/hackgods/dentist-appointment-booking/internal/redis"
	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

// Runtime is the wired service plus the resources it holds.
type Runtime struct {
	Service *appointment.Service
	Store   store.Store
}

func (r *Runtime) Close() error {
	return r.Store.Close()
}

// Open connects the configured store backend and builds the booking service.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Runtime, error) {
	var (
		st     store.Store
		locker redisclient.Locker = redisclient.NewLocalLocker()
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = store.NewMemoryStore()

	case config.BackendFile:
		fs, err := store.NewFileStore(afero.NewOsFs(), cfg.DataDir)
		if err != nil {
			return nil, err
		}
		st = fs
		locker = store.NewFileLocker(cfg.DataDir)

	case config.BackendRedis:
		client, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		st = store.NewRedisStore(client, cfg.RedisKeyPrefix)
		locker = redisclient.NewRedisLocker(client, cfg.RedisKeyPrefix, cfg.LockTTL)
		log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	case config.BackendPostgres:
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		err = db.EnsureSchema(pgCtx, pool)
		cancel()
		if err != nil {
			pool.Close()
			return nil, err
		}
		st = store.NewPostgresStore(pool)
		locker = db.NewAdvisoryLocker(pool)
		log.Info("connected to Postgres")

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	svc := appointment.NewService(st, locker, cfg, log)

	return &Runtime{Service: svc, Store: st}, nil
}
