package featurespec

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEnumerator(t *testing.T, opts ...RegistryOption) *Enumerator {
	t.Helper()
	return NewEnumerator(newTestRegistry(t, opts...), zerolog.Nop())
}

func TestEnumerateGroupUnknown(t *testing.T) {
	e := newTestEnumerator(t)

	// era_normalization and other are categorizer-only buckets; asking the
	// enumerator for them is a caller bug, not an empty result.
	for _, group := range []string{"nope", GroupEraNormalization, GroupOther} {
		if _, err := e.EnumerateGroup(group); err == nil {
			t.Errorf("EnumerateGroup(%q) expected error, got nil", group)
		} else if !strings.Contains(err.Error(), "unknown semantic group") {
			t.Errorf("EnumerateGroup(%q) error = %v", group, err)
		}
	}
}

func TestEnumerateVegasLines(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupVegasLines)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	// Market stats pin every axis, so the expansion is exact.
	want := []string{
		"vegas_implied_prob|none|raw|away",
		"vegas_implied_prob|none|raw|home",
		"vegas_line|none|raw|none",
		"vegas_total|none|raw|none",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnumerateGroup(vegas_lines) = %v, want %v", got, want)
	}
}

func TestEnumeratePredictionFeatures(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupPredictionFeatures)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	want := []string{
		"pred_margin|none|raw|none",
		"pred_win_prob|none|raw|none",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnumerateGroup(prediction_features) = %v, want %v", got, want)
	}
}

func TestEnumerateEloStrength(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupEloStrength)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	// elo: 2 periods x 2 weights x 3 default perspectives, no side split.
	if len(got) != 12 {
		t.Fatalf("len = %d, want 12: %v", len(got), got)
	}
	for _, name := range got {
		if strings.HasSuffix(name, "|side") {
			t.Errorf("elo must not enumerate side variants: %q", name)
		}
	}
	if !containsString(got, "elo|season|avg|diff") || !containsString(got, "elo|none|raw|home") {
		t.Errorf("Expected elo variants missing: %v", got)
	}
}

func TestEnumerateH2H(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupH2H)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	// margin_h2h: 10 periods (6 bases + 4 composites) x 2 weights x 3
	// perspectives = 60. win_pct_h2h: 10 x 1 x 3 = 30.
	if len(got) != 90 {
		t.Fatalf("len = %d, want 90", len(got))
	}
	for _, name := range got {
		if !strings.Contains(name, "h2h") {
			t.Errorf("h2h group emitted non-h2h name %q", name)
		}
	}
	if !containsString(got, "margin_h2h|delta:games_10-season|raw|diff") {
		t.Error("Composite periods missing from h2h expansion")
	}
}

func TestEnumerateCloseGames(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupCloseGames)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	for _, name := range got {
		if !strings.Contains(name, "close") {
			t.Errorf("close_games emitted non-close name %q", name)
		}
	}
	// Its own member stat.
	if !containsString(got, "win_pct_close|season|avg|diff") {
		t.Error("win_pct_close variants missing")
	}
	// Pulled in from another group's cross product by the claim substring.
	if !containsString(got, "points|games_close_10|avg|diff") {
		t.Error("Claimed points variant missing from close_games")
	}
	// win_pct_close does not allow plain game windows.
	if containsString(got, "win_pct_close|games_10|avg|diff") {
		t.Error("Period restriction ignored for win_pct_close")
	}
}

func TestEnumerateScoring(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupScoring)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	if !containsString(got, "points|season|avg|diff") {
		t.Error("points|season|avg|diff missing")
	}
	if !containsString(got, "points|season|avg|diff|side") {
		t.Error("Side variant missing for points")
	}
	// Composite periods enumerate; blend calc weights never do.
	if !containsString(got, "margin|blend:season:0.7/games_10:0.3|avg|diff") {
		t.Error("Blend period variant missing for margin")
	}
	for _, name := range got {
		if strings.Contains(name, "close") || strings.Contains(name, "h2h") {
			t.Errorf("Claimed name %q left in scoring", name)
		}
		parsed, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", name, err)
		}
		if strings.HasPrefix(parsed.CalcWeight, blendPrefix) {
			t.Errorf("Blend calc weight enumerated: %q", name)
		}
	}
}

func TestEnumerateSituational(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupSituational)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	// rest_days and streak each pin none|raw x 3 perspectives.
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6: %v", len(got), got)
	}
	for _, name := range got {
		parsed, _ := Parse(name)
		if parsed.TimePeriod != "none" {
			t.Errorf("Unexpected period in %q", name)
		}
	}
}

func TestEnumerateMomentum(t *testing.T) {
	e := newTestEnumerator(t)

	got, err := e.EnumerateGroup(GroupMomentum)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}

	// form: 4 game windows x 3 weights x 3 perspectives. Every universe
	// composite carries a season leaf, so none survive the games_N
	// restriction.
	if len(got) != 36 {
		t.Fatalf("len = %d, want 36", len(got))
	}
	for _, name := range got {
		if !strings.HasPrefix(name, "form|games_") {
			t.Errorf("Unexpected momentum name %q", name)
		}
	}
	if !containsString(got, "form|games_10|recency(k=5)|diff") {
		t.Error("Parameterized weight variant missing")
	}
}

func TestEnumerateCuratedPassthrough(t *testing.T) {
	e := newTestEnumerator(t)

	talent, err := e.EnumerateGroup(GroupPlayerTalent)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}
	if !reflect.DeepEqual(talent, curatedPlayerTalent) {
		t.Errorf("player_talent = %v, want curated list", talent)
	}

	injuries, err := e.EnumerateGroup(GroupInjuries)
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}
	if !reflect.DeepEqual(injuries, curatedInjuries) {
		t.Errorf("injuries = %v, want curated list", injuries)
	}

	// The returned slice is a copy; callers must not be able to corrupt
	// the registry.
	talent[0] = "tampered"
	again, _ := e.EnumerateGroup(GroupPlayerTalent)
	if again[0] != curatedPlayerTalent[0] {
		t.Error("EnumerateGroup must return a fresh copy")
	}
}

func TestEnumerateLeagueGroup(t *testing.T) {
	e := newTestEnumerator(t, WithLeagueGroup(GroupSpec{
		Name:        "travel",
		MemberStats: []string{"travel_miles"},
	}))

	got, err := e.EnumerateGroup("travel")
	if err != nil {
		t.Fatalf("EnumerateGroup error = %v", err)
	}
	// travel_miles: 4 game windows x 2 weights x 3 perspectives.
	if len(got) != 24 {
		t.Fatalf("len = %d, want 24", len(got))
	}
	if !containsString(got, "travel_miles|games_5|raw|diff") {
		t.Errorf("Expected travel variant missing: %v", got)
	}
}

// TestEnumerateAllPartition pins the exclusivity law: across the full
// expansion, every feature name lands in exactly one group.
func TestEnumerateAllPartition(t *testing.T) {
	e := newTestEnumerator(t)

	all := e.EnumerateAll()
	if len(all) != 16 {
		t.Fatalf("len(EnumerateAll()) = %d, want 16", len(all))
	}

	owners := make(map[string][]string)
	for group, features := range all {
		for _, name := range features {
			owners[name] = append(owners[name], group)
		}
	}
	for name, groups := range owners {
		if len(groups) != 1 {
			t.Errorf("Feature %q owned by %v", name, groups)
		}
	}

	flat := e.EnumerateAllFlat()
	if len(flat) != len(owners) {
		t.Errorf("Flat len = %d, union len = %d", len(flat), len(owners))
	}
	if !sort.StringsAreSorted(flat) {
		t.Error("EnumerateAllFlat not sorted")
	}
}

// TestEnumerateAllValid pins the defensive re-validation contract: no
// emitted name may fail the validator it was checked against.
func TestEnumerateAllValid(t *testing.T) {
	e := newTestEnumerator(t)
	v := newTestValidator(t)

	flat := e.EnumerateAllFlat()
	if len(flat) == 0 {
		t.Fatal("Empty expansion")
	}
	for _, name := range flat {
		if err := v.ValidateFeature(name); err != nil {
			t.Errorf("Enumerated feature %q invalid: %v", name, err)
		}
		parsed, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", name, err)
		}
		if strings.HasSuffix(parsed.Stat, "_net") {
			t.Errorf("Derived stat variant enumerated: %q", name)
		}
		if parsed.Stat == "points_rel" || parsed.Stat == "efg_rel" {
			t.Errorf("Ungrouped stat enumerated: %q", name)
		}
	}
}

func TestEnumerateAllDeterministic(t *testing.T) {
	e := newTestEnumerator(t)
	if !reflect.DeepEqual(e.EnumerateAll(), e.EnumerateAll()) {
		t.Error("EnumerateAll not deterministic")
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
