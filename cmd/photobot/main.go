package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"photoshoot-bot/internal/bot"
	"photoshoot-bot/internal/config"
	"photoshoot-bot/internal/conversation"
	"photoshoot-bot/internal/session"
	"photoshoot-bot/internal/storage"
	"photoshoot-bot/internal/twin"
	"photoshoot-bot/internal/validation"
	"photoshoot-bot/pkg/logger"
	"photoshoot-bot/pkg/redis"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	pgStorage, err := storage.NewPostgresStorage(ctx, *cfg, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if *migrate != "" {
		if err := runMigrate(ctx, *migrate, pgStorage, zapLogger); err != nil {
			zapLogger.Fatal("Migration failed", zap.Error(err))
		}
		return
	}

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	registry := twin.NewRegistry(pgStorage, validation.New())
	if err := conversation.SeedNodes(ctx, pgStorage, registry, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed nodes", zap.Error(err))
	}

	machine := conversation.New(conversation.Deps{
		Catalogue:  pgStorage,
		Orders:     pgStorage,
		Promotions: pgStorage,
		Creator:    registry,
		Location:   cfg.Location(),
		Logger:     zapLogger,
	})
	sessions := session.New(redisClient, pgStorage, cfg.Redis.SessionTTL, zapLogger)

	tgBot, err := bot.New(cfg.TelegramToken, cfg, pgStorage, registry, machine, sessions, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func runMigrate(ctx context.Context, command string, s *storage.PostgresStorage, logger *zap.Logger) error {
	switch command {
	case "up":
		return storage.RunMigrations(ctx, s.DB(), logger)
	case "down":
		return storage.RollbackMigration(ctx, s.DB(), logger)
	case "status":
		return storage.Status(ctx, s.DB(), logger)
	}
	return fmt.Errorf("unknown migrate command %q", command)
}
