package document

import (
	"context"
	"errors"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

type accountRepository struct {
	store repository.AggregateStore
}

// NewAccountRepository stores accounts as documents keyed uniquely by email.
func NewAccountRepository(store repository.AggregateStore) repository.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	doc, err := r.store.Get(ctx, domain.KindAccount, id)
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return decodeAccount(doc)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	doc, err := r.store.FindByUniqueKey(ctx, domain.KindAccount, keyEmail+domain.NormalizeEmail(email))
	if err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return decodeAccount(doc)
}

func (r *accountRepository) GetMany(ctx context.Context, ids []string) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := r.GetByID(ctx, id)
		if errors.Is(err, domain.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	doc, err := accountDocument(account)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	account.SetMeta(doc)
	return nil
}

func (r *accountRepository) Save(ctx context.Context, account *domain.Account) error {
	doc, err := accountDocument(account)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.ErrEmailTaken
		}
		return notFound(err, domain.ErrAccountNotFound)
	}
	account.SetMeta(doc)
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Delete(ctx, domain.KindAccount, id), domain.ErrAccountNotFound)
}

func accountDocument(account *domain.Account) (*domain.Aggregate, error) {
	if account == nil || account.Email == "" {
		return nil, domain.ErrInvalidPayload
	}
	doc, err := encode(domain.KindAccount, account.Meta, account)
	if err != nil {
		return nil, err
	}
	doc.OwnerID = account.ID
	doc.UniqueKey = keyEmail + domain.NormalizeEmail(account.Email)
	return doc, nil
}

func decodeAccount(doc *domain.Aggregate) (*domain.Account, error) {
	var account domain.Account
	if err := decode(doc, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
