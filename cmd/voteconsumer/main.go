package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/event"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollvotes/internal/config"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/services"
	"github.com/vncsmyrnk/pollvotes/internal/logger"
)

// voteconsumer copies votes published on the vote topic into this
// instance's store. Saves are idempotent, so pointing it at the publishing
// server's own database stores each vote once.
func main() {
	cfg := config.NewConfig()
	logger.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Consumer failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Consumer stopped")
}

func run(cfg *config.Config) error {
	if len(cfg.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	consumer := event.NewKafkaConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID)
	defer consumer.Close()

	voteService := services.NewPollVoteService(postgres.NewPollVoteRepository(db), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Consuming votes", "topic", cfg.Topic, "group", cfg.GroupID)
	for {
		err := consumer.ConsumeVote(ctx, voteService.RecordVote)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, domain.ErrMalformedVote),
			errors.Is(err, domain.ErrInvalidPollID),
			errors.Is(err, domain.ErrInvalidOption):
			slog.Warn("Skipping message", "error", err)
		default:
			// the failed vote is uncommitted; stopping lets the group redeliver it
			return err
		}
	}
}
