package ports

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type CommentRepository interface {
	// Create assigns the id. The target's referenced poll or parent comment
	// must exist; a concurrent removal surfaces as the matching not-found error.
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListRoots returns the poll's directly-attached comments in creation
	// order, with like counts and the viewer's like state folded in.
	ListRoots(ctx context.Context, pollID, viewerID int64) ([]*domain.CommentView, error)
	// ListReplies returns the direct replies of a comment, same shape.
	ListReplies(ctx context.Context, parentCommentID, viewerID int64) ([]*domain.CommentView, error)
	// Delete removes the comment, its reply subtree and all their likes.
	Delete(ctx context.Context, id int64) error
	// Like records the (user, comment) like and returns the new count;
	// domain.ErrAlreadyLiked when present.
	Like(ctx context.Context, commentID, userID int64) (int, error)
	// Unlike removes the like and returns the new count;
	// domain.ErrNotLiked when absent.
	Unlike(ctx context.Context, commentID, userID int64) (int, error)
	// PollIDsCommentedBy returns the polls the user has commented on,
	// counting replies toward the poll their thread is rooted on.
	PollIDsCommentedBy(ctx context.Context, userID int64) (map[int64]bool, error)
}

type CommentService interface {
	PostRoot(ctx context.Context, pollID, authorID int64, text string) (*domain.Comment, error)
	PostReply(ctx context.Context, parentCommentID, authorID int64, text string) (*domain.Comment, error)
	ListForPoll(ctx context.Context, pollID, viewerID int64) ([]*domain.CommentView, error)
	ListReplies(ctx context.Context, parentCommentID, viewerID int64) ([]*domain.CommentView, error)
	Like(ctx context.Context, commentID, userID int64) (int, error)
	Unlike(ctx context.Context, commentID, userID int64) (int, error)
	Delete(ctx context.Context, commentID, requesterID int64) error
}
