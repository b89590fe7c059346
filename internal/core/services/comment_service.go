package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type commentService struct {
	commentRepo ports.CommentRepository
	pollRepo    ports.PollRepository
	userRepo    ports.UserRepository
	clock       ports.Clock
}

func NewCommentService(commentRepo ports.CommentRepository, pollRepo ports.PollRepository, userRepo ports.UserRepository, clock ports.Clock) ports.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		pollRepo:    pollRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

func (s *commentService) PostRoot(ctx context.Context, pollID, authorID int64, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.post(ctx, domain.PollTarget(pollID), authorID, text)
}

// PostReply attaches under an existing comment. No cycle check is needed: a
// reply is always a new node and its parent must already exist.
func (s *commentService) PostReply(ctx context.Context, parentCommentID, authorID int64, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}
	if _, err := s.commentRepo.GetByID(ctx, parentCommentID); err != nil {
		return nil, err
	}
	return s.post(ctx, domain.ParentTarget(parentCommentID), authorID, text)
}

func (s *commentService) post(ctx context.Context, target domain.CommentTarget, authorID int64, text string) (*domain.Comment, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Text:     text,
		AuthorID: authorID,
		Target:   target,
		PostedAt: s.clock.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListForPoll(ctx context.Context, pollID, viewerID int64) ([]*domain.CommentView, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListRoots(ctx, pollID, viewerID)
}

func (s *commentService) ListReplies(ctx context.Context, parentCommentID, viewerID int64) ([]*domain.CommentView, error) {
	if _, err := s.commentRepo.GetByID(ctx, parentCommentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, parentCommentID, viewerID)
}

func (s *commentService) Like(ctx context.Context, commentID, userID int64) (int, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return 0, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.commentRepo.Like(ctx, commentID, userID)
}

func (s *commentService) Unlike(ctx context.Context, commentID, userID int64) (int, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.Unlike(ctx, commentID, userID)
}

func (s *commentService) Delete(ctx context.Context, commentID, requesterID int64) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	slog.Info("comment deleted", "comment_id", commentID, "requester_id", requesterID)
	return nil
}
