package profile

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/usecase"
)

// Fields are the user-editable attributes of a profile.
type Fields struct {
	Company  string
	Website  string
	Location string
	Status   string
	Skills   []string
	Bio      string
	Social   domain.Social
}

type UseCase struct {
	profiles repository.ProfileRepository
	accounts repository.AccountRepository
	policy   usecase.RetryPolicy
	logger   *zap.Logger
}

func New(profiles repository.ProfileRepository, accounts repository.AccountRepository, policy usecase.RetryPolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		accounts: accounts,
		policy:   policy,
		logger:   logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return uc.profiles.GetByUser(ctx, userID)
}

func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]domain.Profile, error) {
	return uc.profiles.List(ctx, limit, offset)
}

// Upsert creates the user's profile or overwrites its editable fields.
// Relationship edges are never touched.
func (uc *UseCase) Upsert(ctx context.Context, userID string, fields Fields) (*domain.Profile, error) {
	if _, err := uc.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	fields, err := fields.normalized()
	if err != nil {
		return nil, err
	}

	var result *domain.Profile
	err = usecase.RetryOnConflict(ctx, uc.policy, func() error {
		profile, err := uc.profiles.GetByUser(ctx, userID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			profile = &domain.Profile{UserID: userID}
			fields.apply(profile)
			if err := uc.profiles.Create(ctx, profile); err != nil {
				if errors.Is(err, domain.ErrDuplicateKey) {
					return domain.ErrVersionConflict
				}
				return err
			}
			result = profile
			return nil
		}
		if err != nil {
			return err
		}
		fields.apply(profile)
		if err := uc.profiles.Save(ctx, profile); err != nil {
			return err
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the profile and then the account it belongs to.
func (uc *UseCase) Delete(ctx context.Context, userID string) error {
	profile, err := uc.profiles.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}
	if profile != nil {
		if err := uc.profiles.Delete(ctx, profile); err != nil {
			return err
		}
	}
	if err := uc.accounts.Delete(ctx, userID); err != nil {
		return err
	}
	uc.logger.Info("profile and account deleted", zap.String("user_id", userID))
	return nil
}

func (f Fields) normalized() (Fields, error) {
	var err error
	if f.Website, err = normalizeURL(f.Website); err != nil {
		return f, err
	}
	for _, link := range []*string{&f.Social.YouTube, &f.Social.Twitter, &f.Social.Facebook, &f.Social.Instagram, &f.Social.LinkedIn} {
		if *link, err = normalizeURL(*link); err != nil {
			return f, err
		}
	}

	skills := make([]string, 0, len(f.Skills))
	for _, s := range f.Skills {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				skills = append(skills, part)
			}
		}
	}
	f.Skills = skills
	f.Company = strings.TrimSpace(f.Company)
	f.Location = strings.TrimSpace(f.Location)
	f.Status = strings.TrimSpace(f.Status)
	f.Bio = strings.TrimSpace(f.Bio)
	return f, nil
}

func (f Fields) apply(p *domain.Profile) {
	p.Company = f.Company
	p.Website = f.Website
	p.Location = f.Location
	p.Status = f.Status
	p.Skills = f.Skills
	p.Bio = f.Bio
	p.Social = f.Social
}

// normalizeURL forces https and drops a trailing slash.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", domain.WrapError(domain.ErrCodeInvalid, "invalid url", domain.ErrInvalidPayload)
	}
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}
