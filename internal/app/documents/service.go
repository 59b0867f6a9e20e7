package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

// Service records files a client attached to an interaction.
type Service struct {
	store        domain.DocumentStore
	interactions domain.InteractionStore
	now          func() time.Time
}

// NewService creates a document service from a DocumentStore.
func NewService(store domain.DocumentStore, interactions domain.InteractionStore) *Service {
	return &Service{
		store:        store,
		interactions: interactions,
		now:          time.Now,
	}
}

type AttachInput struct {
	FileName string
	FileRef  string
	FileType string
}

// Attach records a document on an existing interaction.
func (s *Service) Attach(ctx context.Context, id domain.InteractionID, in AttachInput) (*domain.Document, error) {
	log := observability.LoggerFromContext(ctx).With("interaction_id", id)

	if strings.TrimSpace(in.FileName) == "" || strings.TrimSpace(in.FileRef) == "" {
		return nil, fmt.Errorf("file_name and file_ref are required")
	}
	if _, err := s.interactions.GetInteraction(ctx, id); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		InteractionID: id,
		FileName:      strings.TrimSpace(in.FileName),
		FileRef:       strings.TrimSpace(in.FileRef),
		FileType:      strings.TrimSpace(in.FileType),
		CreatedAt:     s.now(),
	}
	if err := s.store.AddDocument(ctx, doc); err != nil {
		log.Error("failed to add document", "error", err)
		return nil, err
	}

	log.Info("document attached", "document_id", doc.ID, "file_type", doc.FileType)
	return doc, nil
}

// List returns the interaction's documents, newest first.
func (s *Service) List(ctx context.Context, id domain.InteractionID) ([]*domain.Document, error) {
	if _, err := s.interactions.GetInteraction(ctx, id); err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocumentsByInteraction(ctx, id)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	return docs, nil
}
