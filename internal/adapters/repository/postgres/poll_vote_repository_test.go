package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(db))
	return db
}

func applyMigrations(db *sql.DB) error {
	dirPath := "migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func TestPollVoteRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupPostgres(t)
	repo := NewPollVoteRepository(db)
	ctx := context.Background()

	pollID := uuid.New()
	users := domain.ActorTypeUsers
	empty := ""
	votes := []domain.PollVote{
		{ActorType: &users, ActorID: "alice", ActorDisplayName: "Alice", OptionID: 2},
		{ActorID: "bob", ActorDisplayName: "Bob", OptionID: 0},
		{ActorType: &empty, ActorID: "", ActorDisplayName: "", OptionID: -1},
	}
	for _, v := range votes {
		require.NoError(t, repo.SaveVote(ctx, pollID, v))
	}
	require.NoError(t, repo.SaveVote(ctx, uuid.New(), domain.NewPollVote()))

	stored, err := repo.ListByPoll(ctx, pollID)
	require.NoError(t, err)
	require.Len(t, stored, len(votes))
	for i := range votes {
		assert.True(t, stored[i].Equal(votes[i]), "vote %d: %+v", i, stored[i])
	}

	ids, err := repo.ListPollIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, pollID)

	require.NoError(t, repo.SaveVote(ctx, pollID, votes[0]))
	require.NoError(t, repo.SaveVote(ctx, pollID, votes[1]))
	again, err := repo.ListByPoll(ctx, pollID)
	require.NoError(t, err)
	assert.Len(t, again, len(votes), "duplicate saves must not add rows")

	none, err := repo.ListByPoll(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPollVoteRepositorySaveVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupPostgres(t)
	repo := NewPollVoteRepository(db)
	ctx := context.Background()

	pollID := uuid.New()
	votes := []domain.PollVote{
		{ActorID: "alice", ActorDisplayName: "Alice", OptionID: 0},
		{ActorID: "bob", ActorDisplayName: "Bob", OptionID: 1},
	}
	require.NoError(t, repo.SaveVotes(ctx, pollID, votes))
	require.NoError(t, repo.SaveVotes(ctx, pollID, votes))

	stored, err := repo.ListByPoll(ctx, pollID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	other := uuid.New()
	err = repo.SaveVotes(ctx, other, []domain.PollVote{
		{ActorID: "carol", OptionID: 0},
		{ActorID: "dave", OptionID: 1 << 40}, // overflows the INTEGER column
	})
	assert.Error(t, err)

	stored, err = repo.ListByPoll(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
