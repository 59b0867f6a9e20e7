package departments_test

import (
	"context"
	"testing"

	"github.com/PabloGalante/intake-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/intake-agent/internal/app/departments"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDepartmentStore()
	catalog := departments.DefaultCatalog()

	created, skipped, err := departments.Seed(ctx, store, catalog)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if created != 18 || skipped != 0 {
		t.Fatalf("first seed: created=%d skipped=%d", created, skipped)
	}

	created, skipped, err = departments.Seed(ctx, store, catalog)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if created != 0 || skipped != 18 {
		t.Fatalf("second seed: created=%d skipped=%d", created, skipped)
	}

	names, err := departments.Names(ctx, store)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 18 {
		t.Fatalf("expected 18 names, got %d", len(names))
	}

	ip, err := store.GetDepartmentByName(ctx, "Intellectual Property")
	if err != nil {
		t.Fatalf("GetDepartmentByName: %v", err)
	}
	if ip.Prompt == "" {
		t.Fatalf("expected a prompt for Intellectual Property")
	}
}

func TestDefaultCatalogIsACopy(t *testing.T) {
	a := departments.DefaultCatalog()
	a[0].Name = "changed"

	if departments.DefaultCatalog()[0].Name == "changed" {
		t.Fatalf("DefaultCatalog must not expose its backing array")
	}
}
