package commands

import (
	"context"
	"fmt"

	"hoopsight/internal/catalogsource"
	"hoopsight/internal/featurespec"
	"hoopsight/internal/league"
	"hoopsight/pkg/config"
	"hoopsight/pkg/database"
	"hoopsight/pkg/logger"
)

// runtime bundles the language core every command needs: the compiled
// catalog, the group registry built over it, and the enumerator.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	catalog  *featurespec.Catalog
	registry *featurespec.GroupRegistry
	enum     *featurespec.Enumerator
}

// Close releases the runtime's connections.
func (r *runtime) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// initRuntime loads config and builds the language core. The database is
// only dialed when the catalog actually comes from postgres.
func initRuntime(ctx context.Context) (*runtime, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database (postgres catalog source only)
	var db *database.DB
	if cfg.Catalog.Source == "postgres" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
	}

	// 4. Build the stat catalog
	catalog, err := catalogsource.Load(ctx, cfg, db)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// 5. Apply league overrides
	var opts []featurespec.RegistryOption
	if cfg.League.ConfigPath != "" {
		leagueCfg, err := league.Load(cfg.League.ConfigPath, catalog)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("load league config: %w", err)
		}
		opts = leagueCfg.RegistryOptions()
	}

	// 6. Build the group registry and enumerator
	registry, err := featurespec.NewGroupRegistry(catalog, opts...)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("build group registry: %w", err)
	}
	enum := featurespec.NewEnumerator(registry, log.Zerolog())

	return &runtime{
		cfg:      cfg,
		log:      log,
		db:       db,
		catalog:  catalog,
		registry: registry,
		enum:     enum,
	}, nil
}
