package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"photoshoot-bot/internal/config"
	"photoshoot-bot/pkg/redis"
)

// ErrNotFound is marked on every lookup that matched no row.
var ErrNotFound = errors.New("storage: not found")

// IsNotFound reports whether err carries the ErrNotFound mark.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type PostgresStorage struct {
	db       *sqlx.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.Config, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
	)

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.Database.ConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	var db *sqlx.DB
	err := backoff.RetryNotify(
		func() error {
			var err error
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return New(db, redisClient, cfg.Redis.CacheTTL, logger), nil
}

// New wraps an open database.
func New(db *sqlx.DB, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// DB exposes the connection for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// notFound marks sql.ErrNoRows with ErrNotFound and wraps every other
// error with the operation.
func notFound(err error, operation, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Mark(errors.Wrapf(err, "%s: %s", operation, what), ErrNotFound)
	}
	return fmt.Errorf("%s: %s: %w", operation, what, err)
}

// expectRow reports ErrNotFound when an update touched no row.
func expectRow(res sql.Result, operation, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if n == 0 {
		return notFound(sql.ErrNoRows, operation, what)
	}
	return nil
}
