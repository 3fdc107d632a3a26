package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	offersvc "energy-market-backend/internal/application/offers"
	"energy-market-backend/internal/config"
	"energy-market-backend/internal/infrastructure/database"
	"energy-market-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Runtime is the assembled service: its store handles, the offer service and
// the HTTP app built on them.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Rdb    *redis.Client
	Offers *offersvc.Service
	App    *fiber.App
}

// SetupLogging configures the global zerolog logger. Outside production logs
// go to a console writer.
func SetupLogging(cfg *config.Config) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// New loads config and builds the runtime.
func New(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	SetupLogging(cfg)
	return Open(ctx, cfg)
}

// Open connects to Postgres (required) and Redis (optional), migrates the
// schema and builds the app.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("database migrate: %w", err)
	}
	log.Info().Msg("Postgres connected")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			_ = database.Close(db)
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info().Msg("Redis connected")
	} else {
		log.Warn().Msg("REDIS_URL not set: sessions, health stats and leaderboard cache are disabled")
	}

	offers := router.NewOffersService(cfg, db, rdb)
	app := router.CreateApp(cfg, router.Deps{DB: db, Rdb: rdb, Offers: offers})
	return &Runtime{
		Config: cfg,
		DB:     db,
		Rdb:    rdb,
		Offers: offers,
		App:    app,
	}, nil
}

// Sweeper returns the expiry sweeper for the runtime's offer service.
func (r *Runtime) Sweeper() *offersvc.Sweeper {
	return &offersvc.Sweeper{Service: r.Offers, Interval: r.Config.ExpirySweepInterval}
}

// Close releases the store handles.
func (r *Runtime) Close() error {
	var errs []error
	if r.Rdb != nil {
		errs = append(errs, r.Rdb.Close())
	}
	if r.DB != nil {
		errs = append(errs, database.Close(r.DB))
	}
	return errors.Join(errs...)
}
