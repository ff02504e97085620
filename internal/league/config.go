// Package league loads the league configuration file: league identity,
// season bounds, and at most one league-contributed semantic group that
// extends the built-in registry.
package league

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hoopsight/internal/featurespec"
)

// firstSeason is the earliest season any supported league can claim.
const firstSeason = 1946

// Config is the league configuration file.
type Config struct {
	League Meta `yaml:"league" json:"league"`

	// ExtraGroup is an optional league-contributed semantic group,
	// registered after the built-in groups.
	ExtraGroup *featurespec.GroupSpec `yaml:"extra_group,omitempty" json:"extra_group,omitempty"`
}

// Meta identifies the league and its season range.
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	SeasonStart int    `yaml:"season_start" json:"season_start"`
	// SeasonEnd of 0 means the league is still running.
	SeasonEnd int `yaml:"season_end,omitempty" json:"season_end,omitempty"`
}

// InSeasonRange reports whether a season falls inside the league's bounds.
func (m *Meta) InSeasonRange(season int) bool {
	if season < m.SeasonStart {
		return false
	}
	return m.SeasonEnd == 0 || season <= m.SeasonEnd
}

// ValidationError reports one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates a league config. Unknown YAML fields fail the
// load so that typos never silently drop configuration.
func Load(path string, catalog *featurespec.Catalog) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("league config %s: %w", path, err)
	}
	if err := Validate(&cfg, catalog); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks all required constraints, returning the first failure.
func Validate(cfg *Config, catalog *featurespec.Catalog) error {
	if cfg.League.Name == "" {
		return ValidationError{"league.name", "required"}
	}
	if cfg.League.SeasonStart < firstSeason {
		return ValidationError{"league.season_start", fmt.Sprintf("must be >= %d", firstSeason)}
	}
	if cfg.League.SeasonEnd != 0 && cfg.League.SeasonEnd < cfg.League.SeasonStart {
		return ValidationError{"league.season_end", "must be >= season_start or omitted"}
	}

	if cfg.ExtraGroup == nil {
		return nil
	}
	g := cfg.ExtraGroup
	if g.Name == "" {
		return ValidationError{"extra_group.name", "required"}
	}
	if g.Layer < 0 {
		return ValidationError{"extra_group.layer", "must be >= 0"}
	}
	if len(g.MemberStats) == 0 {
		return ValidationError{"extra_group.member_stats", "must list at least one stat"}
	}
	for _, stat := range g.MemberStats {
		if _, ok := catalog.Lookup(stat); !ok {
			return ValidationError{"extra_group.member_stats", fmt.Sprintf("unknown stat %q", stat)}
		}
	}
	return nil
}

// RegistryOptions returns the registry options this config contributes.
func (c *Config) RegistryOptions() []featurespec.RegistryOption {
	if c.ExtraGroup == nil {
		return nil
	}
	return []featurespec.RegistryOption{featurespec.WithLeagueGroup(*c.ExtraGroup)}
}
