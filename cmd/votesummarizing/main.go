package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/pollvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollvotes/internal/config"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/services"
	"github.com/vncsmyrnk/pollvotes/internal/logger"
)

func main() {
	cfg := config.NewConfig()

	flag.StringVar(&cfg.Host, "db-host", cfg.Host, "Database host")
	flag.StringVar(&cfg.Port, "db-port", cfg.Port, "Database port")
	flag.StringVar(&cfg.User, "db-user", cfg.User, "Database user")
	flag.StringVar(&cfg.Password, "db-pass", cfg.Password, "Database password")
	flag.StringVar(&cfg.DB, "db-name", cfg.DB, "Database name")
	flag.Parse()

	logger.InitLogger(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("Failed to reach database", "error", err)
		os.Exit(1)
	}

	voteRepo := postgres.NewPollVoteRepository(db)
	summaryService := services.NewSummaryService(voteRepo, voteRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	slog.Info("Starting vote summarization job...")

	results, err := summaryService.SummarizeAllPolls(ctx)
	if err != nil {
		slog.Error("Error summarizing votes", "error", err)
		os.Exit(1)
	}

	for pollID, result := range results {
		for _, optionID := range result.OptionIDs() {
			stats := result.Options[optionID]
			slog.Info("Poll option",
				"poll_id", pollID,
				"option", domain.OptionKey(optionID),
				"votes", stats.VoteCount,
				"percentage", stats.Percentage,
			)
		}
		slog.Info("Poll summary", "poll_id", pollID, "votes", result.Total, "voters", result.NumVoters)
	}

	slog.Info("Vote summarization completed successfully.", "polls", len(results))
}
