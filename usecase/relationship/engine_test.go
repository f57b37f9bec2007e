package relationship

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/internal/testutil"
	"github.com/fastygo/social/usecase"
)

var testPolicy = usecase.RetryPolicy{MaxAttempts: 100, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}

type fixture struct {
	inner   testutil.Repos
	repos   testutil.Repos
	faulty  *testutil.FaultyStore
	repairs *testutil.RepairQueue
	engine  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	faulty := testutil.NewFaultyStore(store)
	f := &fixture{
		inner:   testutil.NewRepos(store),
		repos:   testutil.NewRepos(faulty),
		faulty:  faulty,
		repairs: &testutil.RepairQueue{},
	}
	f.engine = New(f.repos.Profiles, f.repairs, nil, WithRetryPolicy(testPolicy))
	return f
}

func (f *fixture) account(t *testing.T, name string) string {
	t.Helper()
	return testutil.SeedAccount(t, f.inner, name+"@example.com", name, "Test").ID
}

func (f *fixture) profile(t *testing.T, userID string) *domain.Profile {
	t.Helper()
	return testutil.Profile(t, f.inner, userID)
}

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	follower, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, follower.Followings.Has(bob))

	assert.Equal(t, []string{bob}, f.profile(t, alice).Followings.IDs())
	assert.Equal(t, []string{alice}, f.profile(t, bob).Followers.IDs())
	assert.Zero(t, f.profile(t, bob).Followings.Len())

	_, err = f.engine.Unfollow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, f.profile(t, alice).Followings.Len())
	assert.Zero(t, f.profile(t, bob).Followers.Len())
}

func TestFollowTwiceFailsWithoutChangingState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)
	before := f.profile(t, alice)

	_, err = f.engine.Follow(ctx, alice, bob)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)
	assert.Equal(t, domain.ReasonAlreadyRelated, domain.ReasonOf(err))

	after := f.profile(t, alice)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Followings.Edges(), after.Followings.Edges())
	assert.Equal(t, 1, f.profile(t, bob).Followers.Len())
}

func TestFollowBackIsNotADuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.engine.Follow(ctx, bob, alice)
	require.NoError(t, err)

	a := f.profile(t, alice)
	assert.True(t, a.Followings.Has(bob))
	assert.True(t, a.Followers.Has(bob))
}

func TestUnfollowWithoutEdge(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.Unfollow(context.Background(), alice, bob)
	assert.ErrorIs(t, err, domain.ErrNotFollowing)
	assert.Equal(t, domain.ReasonNotRelated, domain.ReasonOf(err))
}

func TestRelationshipsRequireBothProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "alice")

	_, err := f.engine.Follow(ctx, alice, "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = f.engine.Follow(ctx, "ghost", alice)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = f.engine.RequestFriend(ctx, alice, "ghost")
	assert.Equal(t, domain.ReasonNotFound, domain.ReasonOf(err))

	_, err = f.engine.Follow(ctx, alice, alice)
	assert.ErrorIs(t, err, domain.ErrSelfRelation)

	assert.Zero(t, f.profile(t, alice).Followings.Len())
}

func TestFriendRequestAndAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	recipient, err := f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, recipient.FriendRequests.Has(alice))
	assert.Zero(t, f.profile(t, alice).FriendRequests.Len())

	_, err = f.engine.RequestFriend(ctx, alice, bob)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	_, err = f.engine.AcceptFriend(ctx, bob, alice)
	require.NoError(t, err)

	a, b := f.profile(t, alice), f.profile(t, bob)
	assert.True(t, a.Friends.Has(bob))
	assert.True(t, b.Friends.Has(alice))
	assert.False(t, b.FriendRequests.Has(alice))

	_, err = f.engine.RequestFriend(ctx, alice, bob)
	assert.ErrorIs(t, err, domain.ErrAlreadyFriends)
}

func TestAcceptClearsCrossedRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.engine.RequestFriend(ctx, bob, alice)
	require.NoError(t, err)

	_, err = f.engine.AcceptFriend(ctx, bob, alice)
	require.NoError(t, err)

	a, b := f.profile(t, alice), f.profile(t, bob)
	assert.Zero(t, a.FriendRequests.Len())
	assert.Zero(t, b.FriendRequests.Len())
	assert.True(t, a.Friends.Has(bob))
	assert.True(t, b.Friends.Has(alice))
}

func TestAcceptWithoutRequest(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.AcceptFriend(context.Background(), bob, alice)
	assert.ErrorIs(t, err, domain.ErrNoSuchRequest)
	assert.Zero(t, f.profile(t, bob).Friends.Len())
}

func TestRejectAndCancelRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.engine.RejectFriend(ctx, bob, alice)
	require.NoError(t, err)
	assert.Zero(t, f.profile(t, bob).FriendRequests.Len())

	_, err = f.engine.RejectFriend(ctx, bob, alice)
	assert.ErrorIs(t, err, domain.ErrNoSuchRequest)

	_, err = f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.engine.CancelRequest(ctx, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, f.profile(t, bob).FriendRequests.Len())

	_, err = f.engine.CancelRequest(ctx, alice, bob)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRemoveFriend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.RemoveFriend(ctx, alice, bob)
	assert.ErrorIs(t, err, domain.ErrFriendNotFound)

	_, err = f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.engine.AcceptFriend(ctx, bob, alice)
	require.NoError(t, err)

	_, err = f.engine.RemoveFriend(ctx, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, f.profile(t, alice).Friends.Len())
	assert.Zero(t, f.profile(t, bob).Friends.Len())
}

func TestCounterpartFailureIsQueuedForRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	ioErr := errors.New("connection reset")
	f.faulty.FailUpdates(func(doc *domain.Aggregate) error {
		if testutil.OwnedBy(doc, domain.KindProfile, bob) {
			return ioErr
		}
		return nil
	})

	follower, err := f.engine.Follow(ctx, alice, bob)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonPartialRelationship, domain.ReasonOf(err))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.ErrorIs(t, err, ioErr)
	require.NotNil(t, follower)
	assert.True(t, follower.Followings.Has(bob))

	queued := f.repairs.Changes()
	require.Len(t, queued, 1)
	change := queued[0]
	assert.Equal(t, bob, change.OwnerID)
	assert.Equal(t, domain.CollectionFollowers, change.Collection)
	assert.Equal(t, domain.EdgeAdd, change.Action)
	assert.Contains(t, err.Error(), change.OperationID())

	assert.True(t, f.profile(t, alice).Followings.Has(bob))
	assert.False(t, f.profile(t, bob).Followers.Has(alice))

	f.faulty.FailUpdates(nil)
	require.NoError(t, f.engine.ApplyEdgeChange(ctx, change))
	assert.True(t, f.profile(t, bob).Followers.Has(alice))

	version := f.profile(t, bob).Version
	require.NoError(t, f.engine.ApplyEdgeChange(ctx, change))
	assert.Equal(t, version, f.profile(t, bob).Version)
}

func TestAcceptQueuesEveryCounterpartChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	_, err := f.engine.RequestFriend(ctx, alice, bob)
	require.NoError(t, err)

	f.faulty.FailUpdates(func(doc *domain.Aggregate) error {
		if testutil.OwnedBy(doc, domain.KindProfile, alice) {
			return errors.New("timeout")
		}
		return nil
	})

	_, err = f.engine.AcceptFriend(ctx, bob, alice)
	assert.Equal(t, domain.ReasonPartialRelationship, domain.ReasonOf(err))

	queued := f.repairs.Changes()
	require.Len(t, queued, 2)
	assert.Equal(t, domain.CollectionFriends, queued[0].Collection)
	assert.Equal(t, domain.CollectionFriendRequests, queued[1].Collection)
	assert.NotEqual(t, queued[0].OperationID(), queued[1].OperationID())
}

func TestDeletedCounterpartIsNotAPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	f.faulty.FailUpdates(func(doc *domain.Aggregate) error {
		if testutil.OwnedBy(doc, domain.KindProfile, bob) {
			return domain.ErrAggregateNotFound
		}
		return nil
	})

	_, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)
	assert.Empty(t, f.repairs.Changes())
}

func TestFollowRetriesAfterConcurrentWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.account(t, "alice"), f.account(t, "bob"), f.account(t, "carol")

	var once sync.Once
	f.faulty.BeforeUpdate(func(doc *domain.Aggregate) {
		if !testutil.OwnedBy(doc, domain.KindProfile, alice) {
			return
		}
		once.Do(func() {
			racing := f.profile(t, alice)
			racing.Followings.Add(domain.Edge{UserID: carol, CreatedAt: time.Now().UTC()})
			require.NoError(t, f.inner.Profiles.Save(ctx, racing))
		})
	})

	_, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)

	a := f.profile(t, alice)
	assert.True(t, a.Followings.Has(bob))
	assert.True(t, a.Followings.Has(carol))
}

func TestConcurrentFollowersAreNotLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := f.account(t, "target")

	followers := make([]string, 8)
	for i := range followers {
		followers[i] = f.account(t, fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(followers))
	for i, id := range followers {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.engine.Follow(ctx, id, target)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, followers, f.profile(t, target).Followers.IDs())
}

func TestApplyEdgeChangeRejectsInvalidChange(t *testing.T) {
	f := newFixture(t)
	err := f.engine.ApplyEdgeChange(context.Background(), domain.EdgeChange{OwnerID: "a", Collection: "likes", Action: domain.EdgeAdd})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestApplyEdgeChangeRejectsOvertakenChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.account(t, "alice"), f.account(t, "bob")

	stale := domain.EdgeChange{
		OwnerID:    bob,
		Collection: domain.CollectionFollowers,
		Action:     domain.EdgeAdd,
		Edge:       domain.Edge{UserID: alice, CreatedAt: time.Now().UTC()},
	}
	version := f.profile(t, bob).Version
	assert.ErrorIs(t, f.engine.ApplyEdgeChange(ctx, stale), domain.ErrStaleEdgeChange)
	assert.Equal(t, version, f.profile(t, bob).Version)

	_, err := f.engine.Follow(ctx, alice, bob)
	require.NoError(t, err)
	stale.Action = domain.EdgeRemove
	assert.ErrorIs(t, f.engine.ApplyEdgeChange(ctx, stale), domain.ErrStaleEdgeChange)
	assert.True(t, f.profile(t, bob).Followers.Has(alice))
}
