package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/pollvotes/internal/config"
	"github.com/vncsmyrnk/pollvotes/internal/logger"
)

var migrationsDir = filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrations <name>, e.g. migrations create_poll_votes.up")
		os.Exit(2)
	}
	migrationName := os.Args[1]

	cfg := config.NewConfig()
	logger.InitLogger(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	fileContent, err := migrationFileContent(migrationsDir, migrationName)
	if err != nil {
		slog.Error("Failed to load migration", "name", migrationName, "error", err)
		os.Exit(1)
	}

	if _, err := db.Exec(string(fileContent)); err != nil {
		slog.Error("Failed to execute SQL file", "name", migrationName, "error", err)
		os.Exit(1)
	}

	slog.Info("Migration file executed successfully.", "name", migrationName)
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	fileName, err := migrationFileName(basePath, migrationName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(basePath, fileName))
}

func migrationFileName(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found: %s", migrationName)
}
