package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// InteractionStore keeps interactions in memory. Records are copied on the way
// in and out so callers never share state with the store.
type InteractionStore struct {
	mu           sync.RWMutex
	nextID       domain.InteractionID
	interactions map[domain.InteractionID]*domain.Interaction
}

func NewInteractionStore() *InteractionStore {
	return &InteractionStore{
		interactions: make(map[domain.InteractionID]*domain.Interaction),
	}
}

var _ domain.InteractionStore = (*InteractionStore)(nil)

func (s *InteractionStore) CreateInteraction(ctx context.Context, i *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	i.ID = s.nextID
	if i.Conversation == nil {
		i.Conversation = []domain.Turn{}
	}
	s.interactions[i.ID] = i.Clone()
	return nil
}

func (s *InteractionStore) GetInteraction(ctx context.Context, id domain.InteractionID) (*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.interactions[id]
	if !ok {
		return nil, fmt.Errorf("interaction %d: %w", id, domain.ErrNotFound)
	}
	return i.Clone(), nil
}

func (s *InteractionStore) UpdateInteraction(ctx context.Context, i *domain.Interaction) error {
	if err := domain.ValidateConversation(i.Conversation); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interactions[i.ID]; !exists {
		return fmt.Errorf("interaction %d: %w", i.ID, domain.ErrNotFound)
	}
	s.interactions[i.ID] = i.Clone()
	return nil
}

// ListInteractionsByClient returns the client's interactions oldest first.
func (s *InteractionStore) ListInteractionsByClient(ctx context.Context, id domain.ClientID) ([]*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Interaction
	for _, i := range s.interactions {
		if i.ClientID != nil && *i.ClientID == id {
			out = append(out, i.Clone())
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}
