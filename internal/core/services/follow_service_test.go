package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type followFixture struct {
	users   *fakeUserRepo
	follows *fakeFollowRepo
	service ports.FollowService
}

func newFollowFixture() *followFixture {
	users := newFakeUserRepo()
	follows := newFakeFollowRepo()
	return &followFixture{
		users:   users,
		follows: follows,
		service: NewFollowService(follows, users, fixedClock{testNow}),
	}
}

func TestFollowLifecycle(t *testing.T) {
	f := newFollowFixture()
	ana := f.users.add("ana")
	bob := f.users.add("bob")
	ctx := context.Background()

	require.NoError(t, f.service.Follow(ctx, ana.ID, bob.ID))

	following, err := f.service.IsFollowing(ctx, ana.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed.
	reverse, err := f.service.IsFollowing(ctx, bob.ID, ana.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	err = f.service.Follow(ctx, ana.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)

	require.NoError(t, f.service.Unfollow(ctx, ana.ID, bob.ID))

	err = f.service.Unfollow(ctx, ana.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFollowing)
}

func TestFollowValidation(t *testing.T) {
	f := newFollowFixture()
	ana := f.users.add("ana")
	ctx := context.Background()

	err := f.service.Follow(ctx, ana.ID, ana.ID)
	assert.ErrorIs(t, err, domain.ErrSelfFollow)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	err = f.service.Follow(ctx, ana.ID, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = f.service.Follow(ctx, 999, ana.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFollowCounts(t *testing.T) {
	f := newFollowFixture()
	ana := f.users.add("ana")
	bob := f.users.add("bob")
	cleo := f.users.add("cleo")
	ctx := context.Background()

	require.NoError(t, f.service.Follow(ctx, ana.ID, cleo.ID))
	require.NoError(t, f.service.Follow(ctx, bob.ID, cleo.ID))
	require.NoError(t, f.service.Follow(ctx, cleo.ID, ana.ID))

	followers, err := f.service.FollowerCount(ctx, cleo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, followers)

	following, err := f.service.FollowingCount(ctx, cleo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, following)

	_, err = f.service.FollowerCount(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
