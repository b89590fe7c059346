package domain

import "time"

// Vote attributes one user's choice on a poll to exactly one option.
// (PollID, UserID) is unique for the lifetime of the poll; votes are only
// removed as a side effect of poll deletion.
type Vote struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"poll_id"`
	OptionID  int64     `json:"option_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
