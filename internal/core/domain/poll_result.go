package domain

import (
	"fmt"
	"maps"
	"slices"
)

type PollOptionStats struct {
	VoteCount  int64    `json:"voteCount"`
	Percentage float64  `json:"percentage"`
	Voters     []string `json:"voters"`
}

// PollResult is the per-option tally of a vote list.
type PollResult struct {
	Options   map[int]PollOptionStats
	Total     int64
	NumVoters int
}

// Tally groups votes by option. Voters are counted once per actor, so a
// multiple-choice ballot adds one voter and several votes.
func Tally(votes []PollVote) PollResult {
	result := PollResult{Options: make(map[int]PollOptionStats)}
	voters := make(map[string]struct{})

	for _, v := range votes {
		stats := result.Options[v.OptionID]
		stats.VoteCount++
		stats.Voters = append(stats.Voters, v.ActorDisplayName)
		result.Options[v.OptionID] = stats

		result.Total++
		voters[v.ActorKey()] = struct{}{}
	}
	result.NumVoters = len(voters)

	for id, stats := range result.Options {
		if result.Total > 0 {
			stats.Percentage = (float64(stats.VoteCount) / float64(result.Total)) * 100
		}
		result.Options[id] = stats
	}

	return result
}

// OptionIDs returns the voted options in ascending order.
func (r PollResult) OptionIDs() []int {
	return slices.Sorted(maps.Keys(r.Options))
}

func (r PollResult) VoterNames(optionID int) []string {
	return r.Options[optionID].Voters
}

// WireVotes returns the counts keyed the way the chat server reports them.
func (r PollResult) WireVotes() map[string]int64 {
	out := make(map[string]int64, len(r.Options))
	for id, stats := range r.Options {
		out[OptionKey(id)] = stats.VoteCount
	}
	return out
}

func OptionKey(optionID int) string {
	return fmt.Sprintf("option-%d", optionID)
}
