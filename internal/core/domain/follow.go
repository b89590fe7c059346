package domain

import "time"

// Follow is a directed edge in the follow graph. Self-edges are rejected and
// (FollowerID, FollowedID) is unique.
type Follow struct {
	ID         int64     `json:"id"`
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
