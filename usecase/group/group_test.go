package group

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/internal/testutil"
	"github.com/fastygo/social/usecase"
)

func newUseCase(t *testing.T) (*UseCase, testutil.Repos) {
	t.Helper()
	repos := testutil.NewRepos(testutil.NewStore(t))
	return New(repos.Groups, repos.Accounts, usecase.RetryPolicy{MaxAttempts: 50}, nil), repos
}

func seed(t *testing.T, repos testutil.Repos, name string) string {
	t.Helper()
	return testutil.SeedAccount(t, repos, name+"@example.com", name, "Member").ID
}

func TestCreateAddsCreatorAsAdminMember(t *testing.T) {
	uc, repos := newUseCase(t)
	owner := seed(t, repos, "owner")

	group, err := uc.Create(context.Background(), owner, Fields{Name: " Gophers ", Code: "go"})
	require.NoError(t, err)

	assert.Equal(t, "Gophers", group.Name)
	assert.Equal(t, []string{owner}, group.Members.IDs())
	manager, ok := group.Managers.Get(owner)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, manager.Role)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	uc, repos := newUseCase(t)
	owner := seed(t, repos, "owner")
	ctx := context.Background()

	_, err := uc.Create(ctx, owner, Fields{Name: "First", Code: "X"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, owner, Fields{Name: "Second", Code: "X"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	assert.Equal(t, domain.ReasonDuplicateCode, domain.ReasonOf(err))

	_, err = uc.Create(ctx, "ghost", Fields{Name: "Third", Code: "Y"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = uc.Create(ctx, owner, Fields{Name: "", Code: "Z"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestUpdateRejectsCollisions(t *testing.T) {
	uc, repos := newUseCase(t)
	owner := seed(t, repos, "owner")
	ctx := context.Background()

	first, err := uc.Create(ctx, owner, Fields{Name: "First", Code: "a"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, owner, Fields{Name: "Second", Code: "b"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, second.ID, Fields{Name: "Second", Code: "a"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	_, err = uc.Update(ctx, second.ID, Fields{Name: "First", Code: "c"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	updated, err := uc.Update(ctx, first.ID, Fields{Name: "First", Code: "a", Description: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Description)

	_, err = uc.Update(ctx, "missing", Fields{Name: "Other", Code: "z"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestJoinFlow(t *testing.T) {
	uc, repos := newUseCase(t)
	owner, user := seed(t, repos, "owner"), seed(t, repos, "user")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)

	_, err = uc.AcceptJoin(ctx, group.ID, user)
	assert.ErrorIs(t, err, domain.ErrNoSuchRequest)

	group, err = uc.RequestJoin(ctx, group.ID, user)
	require.NoError(t, err)
	assert.True(t, group.MemberRequests.Has(user))

	_, err = uc.RequestJoin(ctx, group.ID, user)
	assert.ErrorIs(t, err, domain.ErrAlreadyRequested)

	group, err = uc.AcceptJoin(ctx, group.ID, user)
	require.NoError(t, err)
	assert.False(t, group.MemberRequests.Has(user))
	assert.Equal(t, []string{user, owner}, group.Members.IDs())

	_, err = uc.RequestJoin(ctx, group.ID, user)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	_, err = uc.RequestJoin(ctx, group.ID, owner)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestRejectJoin(t *testing.T) {
	uc, repos := newUseCase(t)
	owner, user := seed(t, repos, "owner"), seed(t, repos, "user")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)
	_, err = uc.RequestJoin(ctx, group.ID, user)
	require.NoError(t, err)

	group, err = uc.RejectJoin(ctx, group.ID, user)
	require.NoError(t, err)
	assert.Zero(t, group.MemberRequests.Len())
	assert.False(t, group.Members.Has(user))
}

func TestManagerRoles(t *testing.T) {
	uc, repos := newUseCase(t)
	owner, user, outsider := seed(t, repos, "owner"), seed(t, repos, "user"), seed(t, repos, "outsider")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)
	_, err = uc.RequestJoin(ctx, group.ID, user)
	require.NoError(t, err)
	_, err = uc.AcceptJoin(ctx, group.ID, user)
	require.NoError(t, err)

	_, err = uc.SetManager(ctx, group.ID, outsider, domain.RoleMod)
	assert.ErrorIs(t, err, domain.ErrNotAMember)

	_, err = uc.SetManager(ctx, group.ID, user, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	group, err = uc.SetManager(ctx, group.ID, user, domain.RoleMod)
	require.NoError(t, err)
	edge, _ := group.Managers.Get(user)
	assert.Equal(t, domain.RoleMod, edge.Role)

	_, err = uc.SetManager(ctx, group.ID, user, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrAlreadyManager)

	group, err = uc.RemoveManager(ctx, group.ID, user)
	require.NoError(t, err)
	assert.False(t, group.IsManager(user))
	assert.True(t, group.Members.Has(user))

	_, err = uc.RemoveManager(ctx, group.ID, user)
	assert.ErrorIs(t, err, domain.ErrNotAManager)
	_, err = uc.RemoveManager(ctx, group.ID, outsider)
	assert.ErrorIs(t, err, domain.ErrNotAMember)
}

func TestRemoveMemberCascadesManagerRole(t *testing.T) {
	uc, repos := newUseCase(t)
	owner, user := seed(t, repos, "owner"), seed(t, repos, "user")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)

	_, err = uc.RemoveMember(ctx, group.ID, owner)
	assert.ErrorIs(t, err, domain.ErrLastMember)
	assert.Equal(t, domain.ReasonLastMember, domain.ReasonOf(err))

	_, err = uc.RemoveMember(ctx, group.ID, user)
	assert.ErrorIs(t, err, domain.ErrNotAMember)

	_, err = uc.RequestJoin(ctx, group.ID, user)
	require.NoError(t, err)
	_, err = uc.AcceptJoin(ctx, group.ID, user)
	require.NoError(t, err)

	group, err = uc.RemoveMember(ctx, group.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{user}, group.Members.IDs())
	assert.False(t, group.IsManager(owner))
}

func TestListMembersResolvesAccounts(t *testing.T) {
	uc, repos := newUseCase(t)
	owner, user := seed(t, repos, "owner"), seed(t, repos, "user")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)
	_, err = uc.RequestJoin(ctx, group.ID, user)
	require.NoError(t, err)
	_, err = uc.AcceptJoin(ctx, group.ID, user)
	require.NoError(t, err)

	members, err := uc.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, user, members[0].ID)
	assert.Equal(t, owner, members[1].ID)
}

func TestConcurrentJoinRequestsAreNotLost(t *testing.T) {
	uc, repos := newUseCase(t)
	owner := seed(t, repos, "owner")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)

	users := []string{seed(t, repos, "u1"), seed(t, repos, "u2"), seed(t, repos, "u3"), seed(t, repos, "u4")}
	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := uc.RequestJoin(ctx, group.ID, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	loaded, err := uc.Get(ctx, group.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, users, loaded.MemberRequests.IDs())
}

func TestDelete(t *testing.T) {
	uc, repos := newUseCase(t)
	owner := seed(t, repos, "owner")
	ctx := context.Background()

	group, err := uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, group.ID))

	_, err = uc.Get(ctx, group.ID)
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	_, err = uc.Create(ctx, owner, Fields{Name: "G", Code: "g"})
	assert.NoError(t, err)
}
