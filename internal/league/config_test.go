package league

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hoopsight/internal/featurespec"
)

const validYAML = `league:
  name: NBA
  season_start: 1946
extra_group:
  name: travel
  description: schedule travel load
  layer: 6
  member_stats:
    - travel_miles
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "league.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	catalog := featurespec.DefaultCatalog()
	cfg, err := Load(writeConfig(t, validYAML), catalog)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.League.Name != "NBA" {
		t.Errorf("league name = %q, want NBA", cfg.League.Name)
	}
	if cfg.ExtraGroup == nil || cfg.ExtraGroup.Name != "travel" {
		t.Fatalf("extra group = %+v, want travel", cfg.ExtraGroup)
	}
	if got := cfg.ExtraGroup.MemberStats; len(got) != 1 || got[0] != "travel_miles" {
		t.Errorf("member stats = %v, want [travel_miles]", got)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	catalog := featurespec.DefaultCatalog()
	content := strings.Replace(validYAML, "season_start: 1946", "season_start: 1946\n  tie_breaker: coin", 1)
	if _, err := Load(writeConfig(t, content), catalog); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), featurespec.DefaultCatalog()); err == nil {
		t.Error("missing file accepted")
	}
}

func TestValidate(t *testing.T) {
	catalog := featurespec.DefaultCatalog()
	base := func() *Config {
		return &Config{
			League: Meta{Name: "NBA", SeasonStart: 1946},
			ExtraGroup: &featurespec.GroupSpec{
				Name:        "travel",
				Layer:       6,
				MemberStats: []string{"travel_miles"},
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing name", func(c *Config) { c.League.Name = "" }, "league.name"},
		{"season too early", func(c *Config) { c.League.SeasonStart = 1900 }, "league.season_start"},
		{"end before start", func(c *Config) { c.League.SeasonEnd = 1940 }, "league.season_end"},
		{"group without name", func(c *Config) { c.ExtraGroup.Name = "" }, "extra_group.name"},
		{"negative layer", func(c *Config) { c.ExtraGroup.Layer = -1 }, "extra_group.layer"},
		{"group without members", func(c *Config) { c.ExtraGroup.MemberStats = nil }, "extra_group.member_stats"},
		{"unknown member stat", func(c *Config) { c.ExtraGroup.MemberStats = []string{"dunks"} }, "extra_group.member_stats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg, catalog)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}

	cfg := base()
	cfg.ExtraGroup = nil
	if err := Validate(cfg, catalog); err != nil {
		t.Errorf("config without extra group failed: %v", err)
	}
}

func TestInSeasonRange(t *testing.T) {
	running := Meta{Name: "NBA", SeasonStart: 1946}
	if !running.InSeasonRange(2026) || running.InSeasonRange(1940) {
		t.Error("open-ended range misjudged")
	}
	closed := Meta{Name: "ABA", SeasonStart: 1967, SeasonEnd: 1976}
	if !closed.InSeasonRange(1970) || closed.InSeasonRange(1977) {
		t.Error("closed range misjudged")
	}
}

func TestRegistryOptions(t *testing.T) {
	catalog := featurespec.DefaultCatalog()
	cfg, err := Load(writeConfig(t, validYAML), catalog)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	registry, err := featurespec.NewGroupRegistry(catalog, cfg.RegistryOptions()...)
	if err != nil {
		t.Fatalf("NewGroupRegistry with league group: %v", err)
	}
	if _, ok := registry.Group("travel"); !ok {
		t.Error("league group not registered")
	}

	plain := &Config{League: Meta{Name: "NBA", SeasonStart: 1946}}
	if opts := plain.RegistryOptions(); len(opts) != 0 {
		t.Errorf("config without group contributed %d options", len(opts))
	}
}
