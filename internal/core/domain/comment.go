package domain

import "time"

// CommentTarget is the attachment point of a comment: a poll (root comment)
// or a parent comment (reply), never both and never neither. The fields are
// unexported so the only way to build one is through the constructors,
// which keeps the illegal states unrepresentable.
type CommentTarget struct {
	pollID   int64
	parentID int64
}

func PollTarget(pollID int64) CommentTarget {
	return CommentTarget{pollID: pollID}
}

func ParentTarget(parentCommentID int64) CommentTarget {
	return CommentTarget{parentID: parentCommentID}
}

// Poll reports the poll this comment is rooted on, if it is a root comment.
func (t CommentTarget) Poll() (int64, bool) {
	return t.pollID, t.pollID != 0
}

// Parent reports the comment this comment replies to, if it is a reply.
func (t CommentTarget) Parent() (int64, bool) {
	return t.parentID, t.parentID != 0
}

type Comment struct {
	ID       int64         `json:"id"`
	Text     string        `json:"text"`
	AuthorID int64         `json:"author_id"`
	Target   CommentTarget `json:"-"`
	PostedAt time.Time     `json:"posted_at"`
}

type CommentLike struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CommentID int64     `json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is the read model for comment listings. LikeCount is derived
// from the likes table per request.
type CommentView struct {
	ID            int64     `json:"id"`
	AuthorHandle  string    `json:"author_handle"`
	Text          string    `json:"text"`
	LikeCount     int       `json:"like_count"`
	PostedAt      time.Time `json:"posted_at"`
	LikedByViewer bool      `json:"liked_by_viewer"`
}
