// Command seed-departments creates the firm's departments in the configured
// store. Existing departments are skipped.
package main

import (
	"context"
	"os"

	"github.com/PabloGalante/intake-agent/internal/adapters/storage"
	"github.com/PabloGalante/intake-agent/internal/app/departments"
	"github.com/PabloGalante/intake-agent/internal/config"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

func main() {
	ctx := context.Background()
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	observability.SetLevel(cfg.LogLevel)

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("error initializing storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	created, skipped, err := departments.Seed(ctx, stores.Departments, departments.DefaultCatalog())
	if err != nil {
		log.Error("seeding failed", "error", err, "created", created, "skipped", skipped)
		stores.Close()
		os.Exit(1)
	}
	log.Info("seeding complete", "created", created, "skipped", skipped)
}
