package services

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

// In-memory repository fakes for service unit tests. They honor the same
// error contracts as the postgres adapters.

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Handle == user.Handle {
			return domain.ErrHandleTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Handle == handle {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) add(handle string) *domain.User {
	u := &domain.User{Handle: handle, CreatedAt: testNow}
	_ = r.Create(context.Background(), u)
	return u
}

type fakePollRepo struct {
	mu        sync.Mutex
	nextID    int64
	nextOptID int64
	polls     map[int64]*domain.Poll
	order     []int64
	voteRepo  *fakeVoteRepo
}

func newFakePollRepo(voteRepo *fakeVoteRepo) *fakePollRepo {
	return &fakePollRepo{nextID: 1, nextOptID: 1, polls: make(map[int64]*domain.Poll), voteRepo: voteRepo}
}

func (r *fakePollRepo) Create(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll.ID = r.nextID
	r.nextID++
	for i := range poll.Options {
		poll.Options[i].ID = r.nextOptID
		poll.Options[i].PollID = poll.ID
		r.nextOptID++
	}
	copied := *poll
	copied.Options = append([]domain.PollOption(nil), poll.Options...)
	r.polls[poll.ID] = &copied
	r.order = append(r.order, poll.ID)
	return nil
}

func (r *fakePollRepo) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	copied := *p
	copied.Options = append([]domain.PollOption(nil), p.Options...)
	return &copied, nil
}

func (r *fakePollRepo) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	polls := make([]*domain.Poll, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.polls[id]
		copied.Options = append([]domain.PollOption(nil), r.polls[id].Options...)
		polls = append(polls, &copied)
	}
	return polls, nil
}

func (r *fakePollRepo) Delete(ctx context.Context, id int64, voteLimit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	if r.voteRepo != nil && r.voteRepo.countForPoll(id) >= voteLimit {
		return domain.ErrPollHasVotes
	}
	delete(r.polls, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes []*domain.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{}
}

func (r *fakeVoteRepo) Save(ctx context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.PollID == vote.PollID && v.UserID == vote.UserID {
			return domain.ErrAlreadyVoted
		}
	}
	vote.ID = int64(len(r.votes) + 1)
	copied := *vote
	r.votes = append(r.votes, &copied)
	return nil
}

func (r *fakeVoteRepo) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.PollID == pollID && v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVoteRepo) OptionCounts(ctx context.Context, pollID int64) (map[int64]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[int64]int)
	for _, v := range r.votes {
		if v.PollID == pollID {
			counts[v.OptionID]++
		}
	}
	return counts, nil
}

func (r *fakeVoteRepo) AllOptionCounts(ctx context.Context) (map[int64]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[int64]int)
	for _, v := range r.votes {
		counts[v.OptionID]++
	}
	return counts, nil
}

func (r *fakeVoteRepo) PollIDsVotedBy(ctx context.Context, userID int64) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int64]bool)
	for _, v := range r.votes {
		if v.UserID == userID {
			ids[v.PollID] = true
		}
	}
	return ids, nil
}

func (r *fakeVoteRepo) countForPoll(pollID int64) int {
	count := 0
	for _, v := range r.votes {
		if v.PollID == pollID {
			count++
		}
	}
	return count
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*domain.Comment
	order    []int64
	likes    map[int64]map[int64]bool // commentID -> userID set
	handles  map[int64]string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		nextID:   1,
		comments: make(map[int64]*domain.Comment),
		likes:    make(map[int64]map[int64]bool),
		handles:  make(map[int64]string),
	}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) view(c *domain.Comment, viewerID int64) *domain.CommentView {
	return &domain.CommentView{
		ID:            c.ID,
		AuthorHandle:  r.handles[c.AuthorID],
		Text:          c.Text,
		LikeCount:     len(r.likes[c.ID]),
		PostedAt:      c.PostedAt,
		LikedByViewer: r.likes[c.ID][viewerID],
	}
}

func (r *fakeCommentRepo) ListRoots(ctx context.Context, pollID, viewerID int64) ([]*domain.CommentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var views []*domain.CommentView
	for _, id := range r.order {
		c := r.comments[id]
		if pid, ok := c.Target.Poll(); ok && pid == pollID {
			views = append(views, r.view(c, viewerID))
		}
	}
	return views, nil
}

func (r *fakeCommentRepo) ListReplies(ctx context.Context, parentCommentID, viewerID int64) ([]*domain.CommentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var views []*domain.CommentView
	for _, id := range r.order {
		c := r.comments[id]
		if pid, ok := c.Target.Parent(); ok && pid == parentCommentID {
			views = append(views, r.view(c, viewerID))
		}
	}
	return views, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	toDelete := []int64{id}
	for len(toDelete) > 0 {
		cur := toDelete[0]
		toDelete = toDelete[1:]
		for _, c := range r.comments {
			if pid, ok := c.Target.Parent(); ok && pid == cur {
				toDelete = append(toDelete, c.ID)
			}
		}
		delete(r.comments, cur)
		delete(r.likes, cur)
		for i, cid := range r.order {
			if cid == cur {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (r *fakeCommentRepo) Like(ctx context.Context, commentID, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[commentID] == nil {
		r.likes[commentID] = make(map[int64]bool)
	}
	if r.likes[commentID][userID] {
		return 0, domain.ErrAlreadyLiked
	}
	r.likes[commentID][userID] = true
	return len(r.likes[commentID]), nil
}

func (r *fakeCommentRepo) Unlike(ctx context.Context, commentID, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.likes[commentID][userID] {
		return 0, domain.ErrNotLiked
	}
	delete(r.likes[commentID], userID)
	return len(r.likes[commentID]), nil
}

func (r *fakeCommentRepo) PollIDsCommentedBy(ctx context.Context, userID int64) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int64]bool)
	for _, c := range r.comments {
		if c.AuthorID != userID {
			continue
		}
		if pollID, ok := r.rootPoll(c); ok {
			ids[pollID] = true
		}
	}
	return ids, nil
}

// rootPoll walks reply chains up to the poll the thread is attached to.
func (r *fakeCommentRepo) rootPoll(c *domain.Comment) (int64, bool) {
	for {
		if pollID, ok := c.Target.Poll(); ok {
			return pollID, true
		}
		parentID, ok := c.Target.Parent()
		if !ok {
			return 0, false
		}
		parent, ok := r.comments[parentID]
		if !ok {
			return 0, false
		}
		c = parent
	}
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[[2]int64]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[[2]int64]bool)}
}

func (r *fakeFollowRepo) Create(ctx context.Context, follow *domain.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{follow.FollowerID, follow.FollowedID}
	if r.edges[key] {
		return domain.ErrAlreadyFollowing
	}
	r.edges[key] = true
	return nil
}

func (r *fakeFollowRepo) Delete(ctx context.Context, followerID, followedID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{followerID, followedID}
	if !r.edges[key] {
		return domain.ErrNotFollowing
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeFollowRepo) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[[2]int64{followerID, followedID}], nil
}

func (r *fakeFollowRepo) CountFollowers(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key[1] == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) CountFollowing(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.edges {
		if key[0] == userID {
			count++
		}
	}
	return count, nil
}
