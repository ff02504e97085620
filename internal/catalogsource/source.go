// Package catalogsource loads the stat catalog from external declarative
// sources: a YAML stat table or a postgres table. External specs override
// the built-in table entry by entry, keyed on the stat name, so a
// deployment can retune one stat without restating the whole catalog.
package catalogsource

import (
	"context"
	"fmt"

	"hoopsight/internal/featurespec"
	"hoopsight/pkg/config"
	"hoopsight/pkg/database"
)

// Source yields the declarative stat specs of one catalog input.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	Specs(ctx context.Context) ([]featurespec.StatSpec, error)
}

// Build compiles a catalog from the built-in table with one source's
// specs merged over it.
func Build(ctx context.Context, source Source) (*featurespec.Catalog, error) {
	specs, err := source.Specs(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog source %s: %w", source.Name(), err)
	}
	catalog, err := featurespec.NewCatalog(Merge(featurespec.DefaultStatSpecs(), specs))
	if err != nil {
		return nil, fmt.Errorf("catalog source %s: %w", source.Name(), err)
	}
	return catalog, nil
}

// Merge overlays override specs onto a base table. An override with a
// known name replaces the base entry in place; new names append in their
// own order.
func Merge(base, overrides []featurespec.StatSpec) []featurespec.StatSpec {
	out := make([]featurespec.StatSpec, len(base))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, spec := range out {
		index[spec.Name] = i
	}
	for _, spec := range overrides {
		if i, ok := index[spec.Name]; ok {
			out[i] = spec
			continue
		}
		index[spec.Name] = len(out)
		out = append(out, spec)
	}
	return out
}

// Load builds the catalog the config names. The db handle is only needed
// for the postgres source and may be nil otherwise.
func Load(ctx context.Context, cfg *config.Config, db *database.DB) (*featurespec.Catalog, error) {
	switch cfg.Catalog.Source {
	case "", "builtin":
		return featurespec.DefaultCatalog(), nil
	case "file":
		return Build(ctx, NewFileSource(cfg.Catalog.FilePath))
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("catalog source postgres: no database connection")
		}
		source, err := NewPostgresSource(db, cfg.Catalog.Table)
		if err != nil {
			return nil, err
		}
		return Build(ctx, source)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
