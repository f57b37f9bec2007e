package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/internal/testutil"
	"github.com/fastygo/social/pkg/token"
)

func newUseCase(t *testing.T) (*UseCase, *testutil.Sessions, *token.Manager) {
	t.Helper()
	repos := testutil.NewRepos(testutil.NewStore(t))
	sessions := testutil.NewSessions()
	tokens := token.NewManager("test-secret", "social", time.Hour)
	uc := New(repos.Accounts, sessions, tokens, nil)
	uc.bcryptCost = bcrypt.MinCost
	return uc, sessions, tokens
}

func TestRegisterHashesPassword(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	account, err := uc.Register(ctx, Registration{FirstName: "Ada", LastName: "L", Email: " Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", account.Email)
	assert.Empty(t, account.PasswordHash)
	assert.Contains(t, account.Avatar, "gravatar.com/avatar/")

	stored, err := uc.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = uc.Register(ctx, Registration{FirstName: "Other", Email: "ada@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = uc.Register(ctx, Registration{FirstName: "Short", Email: "s@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLoginIssuesTokenForSession(t *testing.T) {
	uc, sessions, tokens := newUseCase(t)
	ctx := context.Background()

	account, err := uc.Register(ctx, Registration{FirstName: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	login, err := uc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, login.Account.ID)
	assert.Empty(t, login.Account.PasswordHash)

	claims, err := tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, login.Session.ID, claims.SessionID)

	_, err = sessions.Get(ctx, login.Session.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, login.Session.ID))
	_, err = uc.GetSession(ctx, login.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, Registration{FirstName: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestExpiredSessionIsDropped(t *testing.T) {
	uc, sessions, _ := newUseCase(t)
	ctx := context.Background()

	account, err := uc.Register(ctx, Registration{FirstName: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	session, err := uc.CreateSession(ctx, account.ID, -time.Minute)
	require.NoError(t, err)

	_, err = uc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = sessions.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRefreshSessionExtendsExpiry(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	account, err := uc.Register(ctx, Registration{FirstName: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	session, err := uc.CreateSession(ctx, account.ID, time.Minute)
	require.NoError(t, err)

	refreshed, err := uc.RefreshSession(ctx, session.ID, time.Hour)
	require.NoError(t, err)
	assert.True(t, refreshed.ExpiresAt.After(session.ExpiresAt))

	me, err := uc.Me(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)
}
