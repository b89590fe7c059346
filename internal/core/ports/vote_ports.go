package ports

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type VoteRepository interface {
	// Save inserts the vote atomically with the duplicate check: a
	// concurrent vote for the same (poll, user) pair surfaces as
	// domain.ErrAlreadyVoted, and a poll deleted mid-flight as
	// domain.ErrPollNotFound.
	Save(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID, userID int64) (bool, error)
	// OptionCounts tallies the poll's votes grouped by option.
	OptionCounts(ctx context.Context, pollID int64) (map[int64]int, error)
	// AllOptionCounts tallies every vote row grouped by option.
	AllOptionCounts(ctx context.Context) (map[int64]int, error)
	// PollIDsVotedBy returns the set of polls the user has voted in.
	PollIDsVotedBy(ctx context.Context, userID int64) (map[int64]bool, error)
}

type VoteService interface {
	Cast(ctx context.Context, pollID, optionID, userID int64) error
	HasVoted(ctx context.Context, pollID, userID int64) (bool, error)
}
