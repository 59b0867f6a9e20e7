package departments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

// Seed creates every catalog entry whose name is not stored yet. Existing
// departments are left untouched.
func Seed(ctx context.Context, store domain.DepartmentStore, entries []Entry) (created, skipped int, err error) {
	log := observability.LoggerFromContext(ctx)
	now := time.Now().UTC()

	for _, e := range entries {
		_, err := store.GetDepartmentByName(ctx, e.Name)
		if err == nil {
			skipped++
			log.Debug("department already exists", "department", e.Name)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, skipped, fmt.Errorf("seed %q: %w", e.Name, err)
		}

		d := &domain.Department{
			Name:      e.Name,
			Prompt:    e.Prompt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateDepartment(ctx, d); err != nil {
			return created, skipped, fmt.Errorf("seed %q: %w", e.Name, err)
		}
		created++
		log.Info("department created", "department", d.Name, "department_id", d.ID)
	}

	log.Info("department seeding complete", "created", created, "skipped", skipped)
	return created, skipped, nil
}

// Names returns the canonical department names in store order.
func Names(ctx context.Context, store domain.DepartmentStore) ([]string, error) {
	depts, err := store.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, d.Name)
	}
	return names, nil
}
