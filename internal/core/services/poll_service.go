package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

// defaultPollLifetime applies when a creation request carries no expiry.
const defaultPollLifetime = 12 * time.Hour

// deleteVoteLimit is the anti-churn guard: a poll that gathered this many
// votes can no longer be deleted.
const deleteVoteLimit = 10

type pollService struct {
	pollRepo    ports.PollRepository
	voteRepo    ports.VoteRepository
	commentRepo ports.CommentRepository
	userRepo    ports.UserRepository
	clock       ports.Clock
}

func NewPollService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, commentRepo ports.CommentRepository, userRepo ports.UserRepository, clock ports.Clock) ports.PollService {
	return &pollService{
		pollRepo:    pollRepo,
		voteRepo:    voteRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if len(input.Options) < 2 {
		return nil, domain.ErrTooFewOptions
	}
	if _, err := s.userRepo.GetByID(ctx, input.CreatorID); err != nil {
		return nil, err
	}

	expiresAt := input.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.clock.Now().Add(defaultPollLifetime)
	}

	poll := &domain.Poll{
		Question:  input.Question,
		CreatorID: input.CreatorID,
		ExpiresAt: expiresAt,
		CreatedAt: s.clock.Now(),
	}
	for _, text := range input.Options {
		poll.Options = append(poll.Options, domain.PollOption{Text: text})
	}

	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Get(ctx context.Context, id int64) (*domain.PollView, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.OptionCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetByID(ctx, poll.CreatorID)
	if err != nil {
		return nil, err
	}

	return buildPollView(poll, creator.Handle, counts), nil
}

func (s *pollService) Delete(ctx context.Context, id, requesterID int64) error {
	if err := s.pollRepo.Delete(ctx, id, deleteVoteLimit); err != nil {
		return err
	}
	slog.Info("poll deleted", "poll_id", id, "requester_id", requesterID)
	return nil
}

// List realizes the filter+sort views. Vote counts and the requester's
// voted/commented sets are folded in from the ledgers on every call; nothing
// here reads a stored counter.
func (s *pollService) List(ctx context.Context, requesterID int64, filter ports.PollFilter, sortBy ports.PollSort) ([]*domain.PollView, error) {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.AllOptionCounts(ctx)
	if err != nil {
		return nil, err
	}

	var voted map[int64]bool
	if requesterID != domain.Anonymous {
		voted, err = s.voteRepo.PollIDsVotedBy(ctx, requesterID)
		if err != nil {
			return nil, err
		}
	}

	var commented map[int64]bool
	if filter == ports.FilterInteracted && requesterID != domain.Anonymous {
		commented, err = s.commentRepo.PollIDsCommentedBy(ctx, requesterID)
		if err != nil {
			return nil, err
		}
	}

	handles := make(map[int64]string)
	views := make([]*domain.PollView, 0, len(polls))
	for _, poll := range polls {
		switch filter {
		case ports.FilterUnvoted:
			if voted[poll.ID] {
				continue
			}
		case ports.FilterMine:
			if poll.CreatorID != requesterID {
				continue
			}
		case ports.FilterInteracted:
			if !voted[poll.ID] && !commented[poll.ID] {
				continue
			}
		}

		handle, ok := handles[poll.CreatorID]
		if !ok {
			creator, err := s.userRepo.GetByID(ctx, poll.CreatorID)
			if err != nil {
				return nil, err
			}
			handle = creator.Handle
			handles[poll.CreatorID] = handle
		}

		views = append(views, buildPollView(poll, handle, counts))
	}

	switch sortBy {
	case ports.SortVotesDesc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].TotalVotes() > views[j].TotalVotes()
		})
	case ports.SortVotesAsc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].TotalVotes() < views[j].TotalVotes()
		})
	case ports.SortCompletedFirst:
		sort.SliceStable(views, func(i, j int) bool {
			return voted[views[i].ID] && !voted[views[j].ID]
		})
	}

	return views, nil
}

func buildPollView(poll *domain.Poll, creatorHandle string, optionCounts map[int64]int) *domain.PollView {
	view := &domain.PollView{
		ID:            poll.ID,
		Question:      poll.Question,
		CreatorHandle: creatorHandle,
		ExpiresAt:     poll.ExpiresAt,
	}
	for _, opt := range poll.Options {
		view.Options = append(view.Options, domain.OptionView{
			ID:        opt.ID,
			Text:      opt.Text,
			VoteCount: optionCounts[opt.ID],
		})
	}
	return view
}
