package featurespec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(DefaultCatalog())
}

func TestValidateFeature(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		feature string
		wantErr string // substring of the error message, "" means valid
	}{
		// Shape.
		{"four segments", "points|season|avg|diff", ""},
		{"three segments", "points|season|avg", "expected at least 4"},
		{"junk fifth segment ignored", "points|season|avg|diff|extra", ""},
		{"side plus trailing junk", "points|season|avg|diff|side|junk", ""},

		// Stat resolution.
		{"unknown stat", "dunks|season|avg|diff", "Invalid stat: 'dunks'"},
		{"net variant", "points_net|season|avg|diff", ""},
		{"net on unsupported stat", "fga_net|season|avg|diff", "Invalid stat: 'fga_net'"},

		// Period syntax.
		{"typo period", "points|seasn|avg|diff", "Invalid time period: 'seasn'"},
		{"empty period", "points||avg|diff", "Invalid time period: ''"},
		{"zero window", "points|games_0|avg|diff", "Invalid time period: 'games_0'"},
		{"unknown family", "points|weeks_2|avg|diff", "Invalid time period: 'weeks_2'"},
		{"anchor none", "points|none|avg|diff", ""},
		{"close window", "points|games_close_10|avg|diff", ""},

		// Composite periods.
		{"blend period", "points|blend:season:0.80/games_12:0.20|avg|diff", ""},
		{"blend sum high", "points|blend:season:0.80/games_12:0.30|avg|diff", "blend weights sum to 1.10, expected 1.0 (±0.01)"},
		{"blend sum low", "points|blend:season:0.30/games_10:0.20|avg|diff", "blend weights sum to 0.50"},
		{"blend bad leaf", "points|blend:seasn:0.7/games_10:0.3|avg|diff", "Invalid time period: 'seasn'"},
		{"blend bad weight", "points|blend:season:heavy|avg|diff", "non-numeric blend weight"},
		{"delta period", "points|delta:games_10-season|avg|diff", ""},
		{"delta with blend recent", "points|delta:blend:games_5:0.6/games_10:0.4-season|avg|diff", ""},
		{"delta with blend baseline", "points|delta:season-blend:games_5:0.6/games_10:0.4|avg|diff", "baseline"},
		{"nested delta", "points|delta:delta:games_5-games_10-season|avg|diff", "delta"},
		{"delta embedded blend sum", "points|delta:blend:games_5:0.6/games_10:0.5-season|avg|diff", "blend weights sum to 1.10"},

		// Per-stat period legality.
		{"restricted period rejected", "rest_days|games_5|raw|diff", "not allowed for stat 'rest_days'"},
		{"family placeholder admits instance", "form|games_12|avg|diff", ""},
		{"family mismatch", "form|season|avg|diff", "not allowed for stat 'form'"},
		{"close family stays distinct", "win_pct_close|games_10|avg|diff", "not allowed for stat 'win_pct_close'"},
		{"delta leaf checked per stat", "sos|delta:games_10-season|avg|diff", "not allowed for stat 'sos'"},

		// Weight syntax.
		{"unknown weight", "points|season|weighted|diff", "Invalid calc weight: 'weighted'"},
		{"param weight", "points|season|top(k=5)|diff", ""},
		{"param weight zero", "points|season|top(k=0)|diff", "Invalid calc weight: 'top(k=0)'"},
		{"unknown pattern", "points|season|best(k=5)|diff", "Invalid calc weight: 'best(k=5)'"},

		// Per-stat weight legality.
		{"rate stat rejects raw", "efg|season|raw|diff", "not allowed for stat 'efg'"},
		{"rate stat allows avg", "efg|season|avg|diff", ""},
		{"pinned param weight", "form|games_10|recency(k=5)|diff", ""},
		{"unpinned param weight", "form|games_10|recency(k=7)|diff", "not allowed for stat 'form'"},

		// Weight blends.
		{"weight blend allowed", "margin|season|blend:avg:0.6/raw:0.4|diff", ""},
		{"weight blend gated", "win_pct|season|blend:avg:0.6/raw:0.4|diff", "blend weights not allowed for stat 'win_pct'"},
		{"weight blend sum", "margin|season|blend:avg:0.6/raw:0.5|diff", "blend weights sum to 1.10"},
		{"weight blend bad component", "margin|season|blend:spicy:1.0|diff", "Invalid calc weight: 'spicy'"},
		{"weight blend unrestricted stat", "points|season|blend:raw:0.5/avg:0.5|diff", ""},

		// Perspective.
		{"unknown perspective", "points|season|avg|sideways", "Invalid perspective: 'sideways'"},
		{"restricted perspective", "vegas_line|none|raw|diff", "not allowed for stat 'vegas_line'"},
		{"allowed perspective", "vegas_line|none|raw|none", ""},

		// Side split gating.
		{"side supported", "points|season|avg|diff|side", ""},
		{"side unsupported", "elo|season|avg|diff|side", "stat 'elo' does not support side splits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFeature(tt.feature)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateFeature(%q) error = %v, want valid", tt.feature, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateFeature(%q) = nil, want error containing %q", tt.feature, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateFeature(%q) error = %q, want substring %q", tt.feature, err.Error(), tt.wantErr)
			}
		})
	}
}

// TestValidateFeatureOrder pins the short-circuit order: the first failing
// check reports, later defects stay silent.
func TestValidateFeatureOrder(t *testing.T) {
	v := newTestValidator(t)

	// Everything after the stat is broken too; the stat reports first.
	err := v.ValidateFeature("dunks|seasn|weighted|sideways")
	if err == nil || !strings.Contains(err.Error(), "Invalid stat") {
		t.Errorf("Expected stat error first, got %v", err)
	}

	// With a known stat, the period reports before weight and perspective.
	err = v.ValidateFeature("points|seasn|weighted|sideways")
	if err == nil || !strings.Contains(err.Error(), "Invalid time period") {
		t.Errorf("Expected time period error, got %v", err)
	}

	// With a valid period, the weight reports before the perspective.
	err = v.ValidateFeature("points|season|weighted|sideways")
	if err == nil || !strings.Contains(err.Error(), "Invalid calc weight") {
		t.Errorf("Expected calc weight error, got %v", err)
	}
}

func TestValidateFeatureErrorTypes(t *testing.T) {
	v := newTestValidator(t)

	t.Run("parse error", func(t *testing.T) {
		var parseErr *ParseError
		err := v.ValidateFeature("points|season")
		if !errors.As(err, &parseErr) {
			t.Fatalf("Expected *ParseError, got %T", err)
		}
	})

	t.Run("unknown entity", func(t *testing.T) {
		var unknownErr *UnknownEntityError
		err := v.ValidateFeature("points|seasn|avg|diff")
		if !errors.As(err, &unknownErr) {
			t.Fatalf("Expected *UnknownEntityError, got %T", err)
		}
		if unknownErr.Position != PositionTimePeriod {
			t.Errorf("Position = %q, want %q", unknownErr.Position, PositionTimePeriod)
		}
		if unknownErr.Value != "seasn" {
			t.Errorf("Value = %q, want seasn", unknownErr.Value)
		}
	})

	t.Run("constraint violation", func(t *testing.T) {
		var constraintErr *ConstraintViolationError
		err := v.ValidateFeature("rest_days|games_5|raw|diff")
		if !errors.As(err, &constraintErr) {
			t.Fatalf("Expected *ConstraintViolationError, got %T", err)
		}
		if constraintErr.Stat != "rest_days" {
			t.Errorf("Stat = %q, want rest_days", constraintErr.Stat)
		}
		if !reflect.DeepEqual(constraintErr.Allowed, []string{"none"}) {
			t.Errorf("Allowed = %v, want [none]", constraintErr.Allowed)
		}
	})

	t.Run("blend weight parse error relabeled", func(t *testing.T) {
		var parseErr *ParseError
		err := v.ValidateFeature("margin|season|blend:avg|diff")
		if !errors.As(err, &parseErr) {
			t.Fatalf("Expected *ParseError, got %T", err)
		}
		if parseErr.Position != PositionCalcWeight {
			t.Errorf("Position = %q, want %q", parseErr.Position, PositionCalcWeight)
		}
	})
}

func TestValidateFeatureList(t *testing.T) {
	v := newTestValidator(t)

	report := v.ValidateFeatureList([]string{
		"points|season|avg|diff",
		"points|seasn|avg|diff",
		"margin|games_10|avg|home",
		"elo|season|avg|diff|side",
		"win_pct|season|avg|diff",
	})

	if report.Valid {
		t.Error("Report.Valid = true, want false")
	}
	if report.ValidCount != 3 {
		t.Errorf("ValidCount = %d, want 3", report.ValidCount)
	}
	wantInvalid := []string{"points|seasn|avg|diff", "elo|season|avg|diff|side"}
	if !reflect.DeepEqual(report.InvalidFeatures, wantInvalid) {
		t.Errorf("InvalidFeatures = %v, want %v", report.InvalidFeatures, wantInvalid)
	}
	if msg := report.Errors["points|seasn|avg|diff"]; !strings.Contains(msg, "Invalid time period") {
		t.Errorf("Errors entry = %q", msg)
	}

	clean := v.ValidateFeatureList([]string{"points|season|avg|diff"})
	if !clean.Valid || clean.ValidCount != 1 || clean.Errors != nil {
		t.Errorf("Clean report = %+v", clean)
	}
}

// TestValidateUniverseForUnrestrictedStat guards the enumerator's
// assumption that every universe period is legal for an unrestricted stat.
func TestValidateUniverseForUnrestrictedStat(t *testing.T) {
	v := newTestValidator(t)
	for _, p := range UniversePeriods() {
		feature := Render("points", p, "avg", "diff", false)
		if err := v.ValidateFeature(feature); err != nil {
			t.Errorf("ValidateFeature(%q) error = %v", feature, err)
		}
	}
}
