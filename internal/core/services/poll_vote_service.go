package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/ports"
)

type pollVoteService struct {
	repo      ports.PollVoteRepository
	publisher ports.PollVotePublisher
}

// NewPollVoteService wires the vote store and an optional publisher. A nil
// publisher keeps recorded votes local.
func NewPollVoteService(repo ports.PollVoteRepository, publisher ports.PollVotePublisher) ports.PollVoteService {
	return &pollVoteService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *pollVoteService) RecordVote(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error {
	if err := validateVote(pollID, vote); err != nil {
		return err
	}

	if err := s.repo.SaveVote(ctx, pollID, vote); err != nil {
		return err
	}

	return s.publish(ctx, pollID, vote)
}

func (s *pollVoteService) GetDetails(ctx context.Context, pollID uuid.UUID) (*domain.PollDetails, error) {
	if pollID == uuid.Nil {
		return nil, domain.ErrInvalidPollID
	}

	votes, err := s.repo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	return domain.NewPollDetails(pollID, votes), nil
}

func (s *pollVoteService) ImportDetails(ctx context.Context, pollID uuid.UUID, body []byte) (int, error) {
	votes, err := domain.DecodePollDetails(body)
	if err != nil {
		return 0, err
	}

	for i, vote := range votes {
		if err := validateVote(pollID, vote); err != nil {
			return 0, fmt.Errorf("vote %d: %w", i, err)
		}
	}

	if err := s.repo.SaveVotes(ctx, pollID, votes); err != nil {
		return 0, err
	}

	for _, vote := range votes {
		if err := s.publish(ctx, pollID, vote); err != nil {
			return len(votes), err
		}
	}

	slog.Info("Imported poll details", "poll_id", pollID, "votes", len(votes))
	return len(votes), nil
}

func validateVote(pollID uuid.UUID, vote domain.PollVote) error {
	if pollID == uuid.Nil {
		return domain.ErrInvalidPollID
	}
	if vote.OptionID < 0 {
		return fmt.Errorf("%w: option %d", domain.ErrInvalidOption, vote.OptionID)
	}
	return nil
}

func (s *pollVoteService) publish(ctx context.Context, pollID uuid.UUID, vote domain.PollVote) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, pollID, vote); err != nil {
		return fmt.Errorf("failed to publish vote: %w", err)
	}
	return nil
}
