package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// PollDetails is the vote list of a poll together with its tally.
type PollDetails struct {
	PollID    uuid.UUID        `json:"pollId"`
	Details   []PollVote       `json:"details"`
	Votes     map[string]int64 `json:"votes"`
	NumVoters int              `json:"numVoters"`
}

func NewPollDetails(pollID uuid.UUID, votes []PollVote) *PollDetails {
	if votes == nil {
		votes = []PollVote{}
	}
	result := Tally(votes)
	return &PollDetails{
		PollID:    pollID,
		Details:   votes,
		Votes:     result.WireVotes(),
		NumVoters: result.NumVoters,
	}
}

// DecodePollDetails decodes the details list of a poll response. The first
// malformed element fails the whole list.
func DecodePollDetails(body []byte) ([]PollVote, error) {
	raw, err := decodeRaw(body)
	if err != nil {
		return nil, err
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of votes, got %T", ErrMalformedVote, raw)
	}

	votes := make([]PollVote, 0, len(list))
	for i, item := range list {
		vote, err := DecodePollVote(item)
		if err != nil {
			return nil, fmt.Errorf("vote %d: %w", i, err)
		}
		votes = append(votes, vote)
	}
	return votes, nil
}
