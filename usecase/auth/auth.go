package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

const minPasswordLength = 6

// TokenIssuer signs access tokens bound to a session.
type TokenIssuer interface {
	Issue(userID, sessionID string) (string, time.Time, error)
	TTL() time.Duration
}

// Registration is the input of Register.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Login is the result of a successful sign-in.
type Login struct {
	Token     string
	ExpiresAt time.Time
	Session   *domain.Session
	Account   *domain.Account
}

type UseCase struct {
	accounts   repository.AccountRepository
	sessions   repository.SessionRepository
	tokens     TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

func New(accounts repository.AccountRepository, sessions repository.SessionRepository, tokens TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts:   accounts,
		sessions:   sessions,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Register creates an account with a hashed password and a gravatar avatar.
func (uc *UseCase) Register(ctx context.Context, in Registration) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.FirstName) == "" || len(in.Password) < minPasswordLength {
		return nil, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	account := &domain.Account{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Avatar:       gravatar(email),
		PasswordHash: string(hash),
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	uc.logger.Info("account registered", zap.String("user_id", account.ID))
	return sanitized(account), nil
}

// Login checks the password and opens a session referenced by a fresh token.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Login, error) {
	account, err := uc.accounts.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := uc.CreateSession(ctx, account.ID, uc.tokens.TTL())
	if err != nil {
		return nil, err
	}
	signed, expiresAt, err := uc.tokens.Issue(account.ID, session.ID)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, domain.WrapError(domain.ErrCodeInternal, "issue token", err)
	}

	return &Login{
		Token:     signed,
		ExpiresAt: expiresAt,
		Session:   session,
		Account:   sanitized(account),
	}, nil
}

// Logout revokes the session behind the caller's token.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.RevokeSession(ctx, sessionID)
}

// Me returns the caller's account without its password hash.
func (uc *UseCase) Me(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitized(account), nil
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, ttl); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func sanitized(account *domain.Account) *domain.Account {
	out := *account
	out.PasswordHash = ""
	return &out
}

func gravatar(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
