package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// DocumentStore is a simple in-memory implementation of domain.DocumentStore.
// It is NOT persistent and is only suitable for development / local mode.
type DocumentStore struct {
	mu            sync.RWMutex
	nextID        domain.DocumentID
	byInteraction map[domain.InteractionID][]*domain.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		byInteraction: make(map[domain.InteractionID][]*domain.Document),
	}
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) AddDocument(ctx context.Context, d *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	d.ID = s.nextID
	cp := *d
	s.byInteraction[d.InteractionID] = append(s.byInteraction[d.InteractionID], &cp)
	return nil
}

// ListDocumentsByInteraction returns documents newest first.
func (s *DocumentStore) ListDocumentsByInteraction(ctx context.Context, id domain.InteractionID) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.byInteraction[id]
	out := make([]*domain.Document, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		cp := *docs[i]
		out = append(out, &cp)
	}
	return out, nil
}
