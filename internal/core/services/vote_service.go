package services

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	userRepo ports.UserRepository
	clock    ports.Clock
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository, clock ports.Clock) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		userRepo: userRepo,
		clock:    clock,
	}
}

// Cast records a vote. The pre-checks here give precise errors on the common
// paths; the repository's insert remains the authority under concurrency, so
// two simultaneous votes for the same (poll, user) can never both land.
func (s *voteService) Cast(ctx context.Context, pollID, optionID, userID int64) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	validOption := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			validOption = true
			break
		}
	}
	if !validOption {
		return domain.ErrOptionNotFound
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	hasVoted, err := s.voteRepo.HasVoted(ctx, pollID, userID)
	if err != nil {
		return err
	}
	if hasVoted {
		return domain.ErrAlreadyVoted
	}

	vote := &domain.Vote{
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    userID,
		CreatedAt: s.clock.Now(),
	}
	return s.voteRepo.Save(ctx, vote)
}

func (s *voteService) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return false, err
	}
	return s.voteRepo.HasVoted(ctx, pollID, userID)
}
