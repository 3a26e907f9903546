package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/ports"
)

type summaryService struct {
	polls ports.PollLister
	votes ports.PollVoteRepository
}

func NewSummaryService(polls ports.PollLister, votes ports.PollVoteRepository) ports.SummaryService {
	return &summaryService{
		polls: polls,
		votes: votes,
	}
}

func (s *summaryService) SummarizeAllPolls(ctx context.Context) (map[uuid.UUID]domain.PollResult, error) {
	pollIDs, err := s.polls.ListPollIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[uuid.UUID]domain.PollResult, len(pollIDs))
		errChan = make(chan error, len(pollIDs))
	)

	for _, pollID := range pollIDs {
		wg.Add(1)
		go func(pID uuid.UUID) {
			defer wg.Done()
			votes, err := s.votes.ListByPoll(ctx, pID)
			if err != nil {
				errChan <- fmt.Errorf("failed to summarize poll %s: %w", pID, err)
				return
			}
			result := domain.Tally(votes)

			mu.Lock()
			results[pID] = result
			mu.Unlock()
		}(pollID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
