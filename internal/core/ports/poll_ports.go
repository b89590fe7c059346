package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type PollRepository interface {
	// Create persists the poll and its options in one transaction and
	// assigns their ids.
	Create(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)
	// GetAll returns every poll with its options, in creation order.
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	// Delete removes the poll and cascades over options, votes, attached
	// comments, their reply subtrees and likes. The vote count is checked
	// against voteLimit under a row lock in the same transaction; at or
	// above the limit it fails with domain.ErrPollHasVotes.
	Delete(ctx context.Context, id int64, voteLimit int) error
}

// PollFilter selects which polls a listing returns.
type PollFilter string

const (
	FilterNone       PollFilter = "none"
	FilterUnvoted    PollFilter = "unvoted"
	FilterMine       PollFilter = "mine"
	FilterInteracted PollFilter = "interacted"
)

// ParsePollFilter maps unknown values to FilterNone.
func ParsePollFilter(s string) PollFilter {
	switch PollFilter(s) {
	case FilterUnvoted, FilterMine, FilterInteracted:
		return PollFilter(s)
	default:
		return FilterNone
	}
}

// PollSort orders a listing. All sorts are stable: ties keep their prior
// relative order.
type PollSort string

const (
	SortNone           PollSort = "none"
	SortVotesDesc      PollSort = "votes_desc"
	SortVotesAsc       PollSort = "votes_asc"
	SortCompletedFirst PollSort = "completed_first"
)

// ParsePollSort maps unknown values to SortNone.
func ParsePollSort(s string) PollSort {
	switch PollSort(s) {
	case SortVotesDesc, SortVotesAsc, SortCompletedFirst:
		return PollSort(s)
	default:
		return SortNone
	}
}

type CreatePollInput struct {
	CreatorID int64
	Question  string
	Options   []string
	// ExpiresAt zero value means "use the default lifetime".
	ExpiresAt time.Time
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Get(ctx context.Context, id int64) (*domain.PollView, error)
	Delete(ctx context.Context, id, requesterID int64) error
	List(ctx context.Context, requesterID int64, filter PollFilter, sort PollSort) ([]*domain.PollView, error)
}
