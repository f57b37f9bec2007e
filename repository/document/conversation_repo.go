package document

import (
	"context"
	"sort"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

type conversationRepository struct {
	store repository.AggregateStore
}

// NewConversationRepository keys conversations by their unordered participant pair,
// so a second conversation for the same pair is rejected by the store with domain.ErrDuplicateKey.
func NewConversationRepository(store repository.AggregateStore) repository.ConversationRepository {
	return &conversationRepository{store: store}
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	doc, err := r.store.Get(ctx, domain.KindConversation, id)
	if err != nil {
		return nil, notFound(err, domain.ErrConversationNotFound)
	}
	return decodeConversation(doc)
}

func (r *conversationRepository) FindByPair(ctx context.Context, a, b string) (*domain.Conversation, error) {
	doc, err := r.store.FindByUniqueKey(ctx, domain.KindConversation, keyPair+domain.PairKey(a, b))
	if err != nil {
		return nil, notFound(err, domain.ErrConversationNotFound)
	}
	return decodeConversation(doc)
}

func (r *conversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	docs, err := r.store.List(ctx, repository.AggregateFilter{
		Kind:       domain.KindConversation,
		LabelKeys:  []string{labelParticipant1, labelParticipant2},
		LabelValue: userID,
	})
	if err != nil {
		return nil, err
	}
	conversations := make([]domain.Conversation, 0, len(docs))
	for i := range docs {
		conversation, err := decodeConversation(&docs[i])
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, *conversation)
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].RecentDate.After(conversations[j].RecentDate)
	})
	return conversations, nil
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	doc, err := conversationDocument(conversation)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		return err
	}
	conversation.SetMeta(doc)
	return nil
}

func (r *conversationRepository) Save(ctx context.Context, conversation *domain.Conversation) error {
	doc, err := conversationDocument(conversation)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, doc); err != nil {
		return notFound(err, domain.ErrConversationNotFound)
	}
	conversation.SetMeta(doc)
	return nil
}

func conversationDocument(conversation *domain.Conversation) (*domain.Aggregate, error) {
	if conversation == nil || conversation.Participant1 == "" || conversation.Participant2 == "" {
		return nil, domain.ErrInvalidPayload
	}
	doc, err := encode(domain.KindConversation, conversation.Meta, conversation)
	if err != nil {
		return nil, err
	}
	doc.OwnerID = conversation.Participant1
	doc.UniqueKey = keyPair + domain.PairKey(conversation.Participant1, conversation.Participant2)
	doc.Labels = map[string]string{
		labelParticipant1: conversation.Participant1,
		labelParticipant2: conversation.Participant2,
	}
	return doc, nil
}

func decodeConversation(doc *domain.Aggregate) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := decode(doc, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}
