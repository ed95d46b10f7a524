package infrastructure

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cakebot/internal/config"
	"github.com/sglre6355/cakebot/internal/modules/reactionroles/domain"
	"github.com/sglre6355/cakebot/internal/store"
)

// CollectionName is the store collection holding the bindings.
const CollectionName = "reaction_roles"

// Document fields.
const (
	fieldKey    = "emote"
	fieldID     = "emote_id"
	fieldEmoji  = "emoji"
	fieldRoleID = "role_id"
)

// StoreRepository is a BindingRepository backed by a store collection.
type StoreRepository struct {
	collection *store.Collection
}

// NewStoreRepository creates a StoreRepository on st.
func NewStoreRepository(st *store.Store) *StoreRepository {
	return &StoreRepository{
		collection: st.Collection(CollectionName, store.CollectionOptions{
			Unique:  []string{fieldKey},
			Indices: []string{fieldRoleID},
		}),
	}
}

// Bind stores b and returns it with its id.
func (r *StoreRepository) Bind(b domain.Binding) (domain.Binding, error) {
	id, err := r.collection.Insert(toDocument(b))
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return domain.Binding{}, domain.ErrAlreadyBound
		}
		return domain.Binding{}, err
	}
	b.ID = id
	return b, nil
}

// Unbind removes the binding of an emote key and returns it.
func (r *StoreRepository) Unbind(key string) (domain.Binding, error) {
	doc, ok := r.collection.FindOne(fieldKey, key)
	if !ok {
		return domain.Binding{}, domain.ErrNotBound
	}
	if err := r.collection.Remove(doc.ID()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Binding{}, domain.ErrNotBound
		}
		return domain.Binding{}, err
	}
	return fromDocument(doc), nil
}

// List returns every binding in creation order.
func (r *StoreRepository) List() []domain.Binding {
	docs := r.collection.Find(nil)
	bindings := make([]domain.Binding, 0, len(docs))
	for _, doc := range docs {
		bindings = append(bindings, fromDocument(doc))
	}
	return bindings
}

// Match returns the binding triggered by a reaction emoji.
func (r *StoreRepository) Match(emoji *discordgo.Emoji) (domain.Binding, bool) {
	if emoji == nil {
		return domain.Binding{}, false
	}
	key := domain.EmoteKey(config.Emote{Emoji: emoji.Name})
	if emoji.ID != "" {
		key = domain.EmoteKey(config.Emote{ID: emoji.ID})
	}

	doc, ok := r.collection.FindOne(fieldKey, key)
	if !ok {
		return domain.Binding{}, false
	}
	b := fromDocument(doc)
	return b, b.Matches(emoji)
}

func toDocument(b domain.Binding) store.Document {
	return store.Document{
		fieldKey:    b.Key(),
		fieldID:     b.Emote.ID,
		fieldEmoji:  b.Emote.Emoji,
		fieldRoleID: b.RoleID,
	}
}

func fromDocument(doc store.Document) domain.Binding {
	str := func(field string) string {
		s, _ := doc[field].(string)
		return s
	}
	return domain.Binding{
		ID:     doc.ID(),
		Emote:  config.Emote{ID: str(fieldID), Emoji: str(fieldEmoji)},
		RoleID: str(fieldRoleID),
	}
}

// Ensure StoreRepository implements BindingRepository.
var _ domain.BindingRepository = (*StoreRepository)(nil)
