package featurespec

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestGroupFor(t *testing.T) {
	registry := newTestRegistry(t)

	tests := []struct {
		name    string
		feature string
		want    string
	}{
		// Stat prefixes run first.
		{"pred prefix", "pred_win_prob|none|raw|none", GroupPredictionFeatures},
		{"inj prefix", "inj_severity|none|raw|home", GroupInjuries},
		{"player prefix", "player_per|season|top(k=3)|diff", GroupPlayerTalent},
		{"vegas prefix", "vegas_line|none|raw|none", GroupVegasLines},

		// Claim substrings, in group priority order.
		{"h2h stat", "margin_h2h|season|avg|diff", GroupH2H},
		{"close stat", "win_pct_close|season|avg|diff", GroupCloseGames},
		{"close via period", "points|games_close_10|avg|diff", GroupCloseGames},

		// Member-stat lookup.
		{"counting stat", "points|season|avg|diff", GroupScoring},
		{"side variant", "points|season|avg|diff|side", GroupScoring},
		{"rate stat", "tov_rate|games_10|avg|away", GroupPlaymaking},
		{"rating stat", "elo|season|raw|diff", GroupEloStrength},
		{"composite period", "margin|delta:games_10-season|avg|diff", GroupScoring},

		// Derived stat names resolve through their base stat.
		{"net variant", "points_net|season|avg|diff", GroupScoring},

		// Legacy fallbacks for names outside the catalog.
		{"elo fallback", "elo_variant|season|raw|diff", GroupEloStrength},
		{"per fallback", "whisper_index|season|avg|diff", GroupPlayerTalent},
		{"rel fallback", "points_rel|season|avg|diff", GroupEraNormalization},
		{"rel fallback efg", "efg_rel|season|avg|diff", GroupEraNormalization},

		// Everything else.
		{"ungrouped stat", "travel_miles|games_5|raw|diff", GroupOther},
		{"unknown stat", "dunks|season|avg|diff", GroupOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.GroupFor(tt.feature); got != tt.want {
				t.Errorf("GroupFor(%q) = %q, want %q", tt.feature, got, tt.want)
			}
		})
	}
}

// TestGroupForSubstringPriority pins the tie-break: a name matching two
// claim substrings goes to the higher-priority group.
func TestGroupForSubstringPriority(t *testing.T) {
	registry := newTestRegistry(t)

	if got := registry.GroupFor("win_pct_h2h|games_close_10|avg|diff"); got != GroupH2H {
		t.Errorf("GroupFor = %q, want %q", got, GroupH2H)
	}
}

func TestGroupForWithLeagueGroup(t *testing.T) {
	registry := newTestRegistry(t, WithLeagueGroup(GroupSpec{
		Name:        "travel",
		MemberStats: []string{"travel_miles"},
	}))

	if got := registry.GroupFor("travel_miles|games_5|raw|diff"); got != "travel" {
		t.Errorf("GroupFor = %q, want travel", got)
	}
}

// TestGroupForMatchesEnumeration ties the two sides of group ownership
// together: every name a group enumerates must categorize back to that
// same group.
func TestGroupForMatchesEnumeration(t *testing.T) {
	registry := newTestRegistry(t)
	e := NewEnumerator(registry, zerolog.Nop())

	for group, features := range e.EnumerateAll() {
		for _, name := range features {
			if got := registry.GroupFor(name); got != group {
				t.Errorf("GroupFor(%q) = %q, enumerated under %q", name, got, group)
			}
		}
	}
}

func TestCategorizeBatch(t *testing.T) {
	registry := newTestRegistry(t)

	values := map[string]float64{
		"points|season|avg|diff":         3.2,
		"margin|season|avg|diff":         -2.0,
		"points|games_close_10|avg|diff": 1.5,
		"inj_count|none|raw|home":        2.0,
		"margin_h2h|season|avg|diff":     -1.1,
		"elo|season|raw|diff":            35.0,
		"mystery|season|avg|diff":        0.5,
	}

	got := registry.CategorizeBatch(values)

	wantGroups := []string{GroupScoring, GroupCloseGames, GroupInjuries, GroupH2H, GroupEloStrength, GroupOther}
	if len(got) != len(wantGroups) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(wantGroups), got)
	}
	for _, group := range wantGroups {
		if _, ok := got[group]; !ok {
			t.Errorf("Group %q missing from batch result", group)
		}
	}

	// Entries within a group come back sorted by feature name.
	wantScoring := []FeatureValue{
		{Name: "margin|season|avg|diff", Value: -2.0},
		{Name: "points|season|avg|diff", Value: 3.2},
	}
	if !reflect.DeepEqual(got[GroupScoring], wantScoring) {
		t.Errorf("Scoring batch = %v, want %v", got[GroupScoring], wantScoring)
	}

	if empty := registry.CategorizeBatch(nil); len(empty) != 0 {
		t.Errorf("CategorizeBatch(nil) = %v, want empty", empty)
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"margin_h2h|season|avg|diff", "h2h", true},
		{"MARGIN_H2H|season", "h2h", true},
		{"points|season|avg|diff", "h2h", false},
		{"win_pct_CLOSE|season", "close", true},
	}
	for _, tt := range tests {
		if got := containsFold(tt.s, tt.substr); got != tt.want {
			t.Errorf("containsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}
