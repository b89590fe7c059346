package domain

import "time"

type Poll struct {
	ID        int64        `json:"id"`
	Question  string       `json:"question"`
	CreatorID int64        `json:"creator_id"`
	Options   []PollOption `json:"options"`
	ExpiresAt time.Time    `json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

// PollOption order follows creation order; ids are assigned monotonically so
// sorting by id reproduces display order.
type PollOption struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"poll_id"`
	Text   string `json:"text"`
}

// PollView is the read model returned by GetPoll and ListPolls. Vote counts
// are folded in from the vote ledger at read time, never stored.
type PollView struct {
	ID            int64        `json:"id"`
	Question      string       `json:"question"`
	CreatorHandle string       `json:"creator_handle"`
	Options       []OptionView `json:"options"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

type OptionView struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"votes"`
}

// TotalVotes is the poll's engagement: the sum of its option tallies.
func (v *PollView) TotalVotes() int {
	total := 0
	for _, opt := range v.Options {
		total += opt.VoteCount
	}
	return total
}
