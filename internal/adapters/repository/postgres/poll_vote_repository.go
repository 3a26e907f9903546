package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
)

type PollVoteRepository struct {
	db *sql.DB
}

func NewPollVoteRepository(db *sql.DB) *PollVoteRepository {
	return &PollVoteRepository{
		db: db,
	}
}

const insertVoteQuery = `
	INSERT INTO poll_votes (id, poll_id, actor_type, actor_id, actor_display_name, option_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT DO NOTHING;
`

// SaveVote stores a vote once; saving the same actor and option for a poll
// again is a no-op.
func (r *PollVoteRepository) SaveVote(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error {
	_, err := r.db.ExecContext(ctx, insertVoteQuery, voteArgs(pollID, vote)...)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

// SaveVotes stores all votes or none of them.
func (r *PollVoteRepository) SaveVotes(ctx context.Context, pollID uuid.UUID, votes []domain.PollVote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertVoteQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare vote statement: %w", err)
	}
	defer stmt.Close()

	for i, vote := range votes {
		if _, err := stmt.ExecContext(ctx, voteArgs(pollID, vote)...); err != nil {
			return fmt.Errorf("failed to save vote %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func voteArgs(pollID uuid.UUID, vote domain.PollVote) []any {
	actorType := sql.NullString{}
	if vote.ActorType != nil {
		actorType = sql.NullString{String: *vote.ActorType, Valid: true}
	}
	return []any{uuid.New(), pollID, actorType, vote.ActorID, vote.ActorDisplayName, vote.OptionID}
}

func (r *PollVoteRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.PollVote, error) {
	query := `
		SELECT actor_type, actor_id, actor_display_name, option_id
		FROM poll_votes
		WHERE poll_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.PollVote{}
	for rows.Next() {
		var (
			actorType sql.NullString
			vote      domain.PollVote
		)
		if err := rows.Scan(&actorType, &vote.ActorID, &vote.ActorDisplayName, &vote.OptionID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		if actorType.Valid {
			vote.ActorType = &actorType.String
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func (r *PollVoteRepository) ListPollIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT poll_id FROM poll_votes`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return ids, nil
}
