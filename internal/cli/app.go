package cli

import (
	"context"
	"fmt"
	"time"

	"restaurant_reservation/internal/booking"
	"restaurant_reservation/internal/config"
	"restaurant_reservation/internal/db"
	"restaurant_reservation/internal/events"
	"restaurant_reservation/internal/store"
	"restaurant_reservation/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// app bundles the collaborators shared by subcommands.
type app struct {
	engine *booking.Engine
	redis  *redis.Client
	close  func()
}

// setupLogging configures logrus: text with full
// timestamps in development, JSON in production.
func setupLogging(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
}

// newApp opens the store selected by DB_DRIVER, Redis when REDIS_ADDR is set
// and the event publisher when RABBITMQ_URL is set.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	bcfg, err := cfg.Booking()
	if err != nil {
		return nil, err
	}

	var st booking.Store
	closers := []func(){}
	switch cfg.DBDriver {
	case "memory":
		logrus.Warn("Using in-memory store, data is lost on exit")
		st = store.NewMemory()
	default:
		gdb, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		st = store.NewGorm(gdb)
	}

	opts := []booking.Option{booking.WithLockWait(cfg.LockWait)}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect to Redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		opts = append(opts, booking.WithLocker(utils.NewRedisLocker(rdb, cfg.LockTTL)))
	}

	if cfg.RabbitURL != "" {
		opts = append(opts, booking.WithNotifier(events.NewPublisher(cfg.RabbitURL)))
	}

	engine, err := booking.NewEngine(bcfg, st, opts...)
	if err != nil {
		return nil, err
	}
	return &app{
		engine: engine,
		redis:  rdb,
		close: func() {
			for _, c := range closers {
				c()
			}
		},
	}, nil
}
