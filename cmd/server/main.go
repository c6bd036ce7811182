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

	"github.com/hybridrec/feedback-service/internal/cache"
	"github.com/hybridrec/feedback-service/internal/config"
	"github.com/hybridrec/feedback-service/internal/feedback"
	"github.com/hybridrec/feedback-service/internal/handler"
	"github.com/hybridrec/feedback-service/internal/merger"
	"github.com/hybridrec/feedback-service/internal/repository"
	"github.com/hybridrec/feedback-service/internal/router"
	"github.com/hybridrec/feedback-service/internal/scoring"
	"github.com/hybridrec/feedback-service/internal/stats"
	"github.com/hybridrec/feedback-service/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("database not ready")
	}
	logger.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate down")
		}
		logger.Info().Msg("migrations dropped")
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate up")
	}
	logger.Info().Msg("migrations applied")

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to check seed")
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pendingCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := pendingCache.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis not reachable, pending view served uncached")
	} else {
		logger.Info().Msg("connected to Redis")
	}

	// ------------ Wiring ---------------
	repo := repository.New(pool)
	scorer := scoring.NewClient(cfg.ScoringAPIURL, cfg.ScoringTimeout, logger)
	m := merger.NewMerger(repo, scorer, pendingCache, logger)
	processor := feedback.NewProcessor(feedbackStore{repo}, m, pendingCache, logger)
	statsService := stats.NewService(repo)
	h := handler.NewHandler(processor, m, statsService, repo)

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("server stopped")
}

// feedbackStore adapts *repository.Repository to the processor's Runner
// interface; the method set matches, only the InTx callback type differs.
type feedbackStore struct {
	*repository.Repository
}

func (s feedbackStore) InTx(ctx context.Context, fn func(feedback.Store) error) error {
	return s.Repository.InTx(ctx, func(tx *repository.Repository) error {
		return fn(tx)
	})
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info().Int("attempt", i+1).Msg("waiting for database...")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		logger.Info().Int("users", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool, logger)
}
