package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/event"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollvotes/internal/config"
	"github.com/vncsmyrnk/pollvotes/internal/core/ports"
	"github.com/vncsmyrnk/pollvotes/internal/core/services"
	"github.com/vncsmyrnk/pollvotes/internal/logger"
)

func main() {
	cfg := config.NewConfig()
	logger.InitLogger(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("Failed to reach database", "error", err, "host", cfg.Host)
		os.Exit(1)
	}

	var publisher ports.PollVotePublisher
	if len(cfg.Brokers) > 0 {
		kp := event.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				slog.Error("Error closing kafka publisher", "error", err)
			}
		}()
		publisher = kp
		slog.Info("Publishing votes", "brokers", cfg.Brokers, "topic", cfg.Topic)
	}

	voteRepo := postgres.NewPollVoteRepository(db)
	voteService := services.NewPollVoteService(voteRepo, publisher)
	handler := http.NewHandler(http.NewPollVoteHandler(voteService))

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
