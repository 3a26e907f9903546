package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
)

type PollVoteRepository interface {
	SaveVote(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error
	SaveVotes(ctx context.Context, pollID uuid.UUID, votes []domain.PollVote) error
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.PollVote, error)
}

// PollVotePublisher hands recorded votes to other components.
type PollVotePublisher interface {
	Publish(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error
	Close() error
}

type VoteHandlerFunc func(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error

// PollVoteConsumer reads votes handed over by a PollVotePublisher. A vote is
// acknowledged only after handle returns nil.
type PollVoteConsumer interface {
	ConsumeVote(ctx context.Context, handle VoteHandlerFunc) error
	Close() error
}

type PollVoteService interface {
	RecordVote(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error
	GetDetails(ctx context.Context, pollID uuid.UUID) (*domain.PollDetails, error)
	ImportDetails(ctx context.Context, pollID uuid.UUID, body []byte) (int, error)
}

type PollLister interface {
	ListPollIDs(ctx context.Context) ([]uuid.UUID, error)
}

type SummaryService interface {
	SummarizeAllPolls(ctx context.Context) (map[uuid.UUID]domain.PollResult, error)
}
