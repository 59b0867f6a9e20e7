// Package storage opens the record stores selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/PabloGalante/intake-agent/internal/adapters/storage/firestore"
	"github.com/PabloGalante/intake-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/intake-agent/internal/adapters/storage/postgres"
	"github.com/PabloGalante/intake-agent/internal/config"
	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

// Stores groups every record store port. Close releases the backend.
type Stores struct {
	Departments  domain.DepartmentStore
	Clients      domain.ClientStore
	Interactions domain.InteractionStore
	Documents    domain.DocumentStore
	Close        func()
}

func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	log := observability.WithFields("storage_backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		// 1 store, implements 4 interfaces
		return &Stores{
			Departments:  fs,
			Clients:      fs,
			Interactions: fs,
			Documents:    fs,
			Close:        func() { _ = fs.Close() },
		}, nil

	case config.StoragePostgres:
		log.Info("using postgres storage")
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := postgres.NewStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Departments:  pg,
			Clients:      pg,
			Interactions: pg,
			Documents:    pg,
			Close:        pool.Close,
		}, nil

	case config.StorageMemory:
		log.Info("using in-memory storage")
		return &Stores{
			Departments:  memory.NewDepartmentStore(),
			Clients:      memory.NewClientStore(),
			Interactions: memory.NewInteractionStore(),
			Documents:    memory.NewDocumentStore(),
			Close:        func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
