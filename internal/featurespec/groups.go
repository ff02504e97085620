package featurespec

import (
	"fmt"
	"sort"
)

// Canonical group names. GroupEraNormalization and GroupOther are
// categorizer-only buckets: the categorizer can assign them but the
// registry never enumerates them.
const (
	GroupVegasLines         = "vegas_lines"
	GroupScoring            = "scoring"
	GroupShooting           = "shooting"
	GroupRebounding         = "rebounding"
	GroupPlaymaking         = "playmaking"
	GroupDefense            = "defense"
	GroupPaceContext        = "pace_context"
	GroupRecord             = "record"
	GroupSituational        = "situational"
	GroupMomentum           = "momentum"
	GroupH2H                = "h2h"
	GroupCloseGames         = "close_games"
	GroupEloStrength        = "elo_strength"
	GroupPlayerTalent       = "player_talent"
	GroupInjuries           = "injuries"
	GroupPredictionFeatures = "prediction_features"

	GroupEraNormalization = "era_normalization"
	GroupOther            = "other"
)

// GroupSpec is the serializable description of a semantic group, used by
// league config files to contribute extra groups at startup.
type GroupSpec struct {
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	Layer           int      `yaml:"layer" json:"layer"`
	MemberStats     []string `yaml:"member_stats" json:"member_stats"`
	FilterSubstring string   `yaml:"filter_substring,omitempty" json:"filter_substring,omitempty"`
}

// SemanticGroup is one registered group. Exactly one of two enumeration
// modes applies: curated groups return their literal feature list, all
// others are expanded by cross product over MemberStats.
type SemanticGroup struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Layer       int      `json:"layer"`
	MemberStats []string `json:"member_stats,omitempty"`

	// FilterSubstring makes the group claim every enumerated name that
	// contains the substring, regardless of which group's cross product
	// produced it.
	FilterSubstring string `json:"filter_substring,omitempty"`

	// CuratedFeatures, when non-nil, is the group's entire enumeration.
	// Curated lists exist for stats whose legal combinations are too
	// irregular for a cross product; they are validated at registry
	// build and drift-checked against the compute layer in tests.
	CuratedFeatures []string `json:"curated_features,omitempty"`
}

// Curated reports whether the group enumerates from a literal list.
func (g *SemanticGroup) Curated() bool { return g.CuratedFeatures != nil }

// curatedPlayerTalent and curatedInjuries are the hand-maintained
// enumerations for the aggregation-backed groups. Keep them in sync with
// the compute layer's aggregator output; TestCuratedListsMatchAggregators
// fails on any drift.
var curatedPlayerTalent = []string{
	"player_availability|none|raw|away",
	"player_availability|none|raw|diff",
	"player_availability|none|raw|home",
	"player_per|games_10|avg|away",
	"player_per|games_10|avg|diff",
	"player_per|games_10|avg|home",
	"player_per|season|avg|away",
	"player_per|season|avg|diff",
	"player_per|season|avg|home",
	"player_per|season|top(k=3)|diff",
	"player_per|season|top(k=5)|diff",
	"player_per|season|top(k=8)|diff",
}

var curatedInjuries = []string{
	"inj_count|none|raw|away",
	"inj_count|none|raw|diff",
	"inj_count|none|raw|home",
	"inj_severity|none|raw|away",
	"inj_severity|none|raw|diff",
	"inj_severity|none|raw|home",
	"inj_starters_out|none|raw|away",
	"inj_starters_out|none|raw|diff",
	"inj_starters_out|none|raw|home",
}

// defaultGroups returns the built-in groups in priority order. Order
// matters twice: substring groups claim names in this order, and the
// categorizer applies its substring rules in this order.
func defaultGroups() []*SemanticGroup {
	return []*SemanticGroup{
		{
			Name:        GroupVegasLines,
			Description: "closing market lines",
			Layer:       0,
			MemberStats: []string{"vegas_line", "vegas_total", "vegas_implied_prob"},
		},
		{
			Name:        GroupScoring,
			Description: "scoring volume and efficiency",
			Layer:       1,
			MemberStats: []string{"points", "margin", "off_rtg"},
		},
		{
			Name:        GroupShooting,
			Description: "shooting volume and accuracy",
			Layer:       1,
			MemberStats: []string{
				"efg", "ts_pct", "fg_pct", "fg3_pct", "ft_pct",
				"fga", "fgm", "fg3a", "fg3m", "fta", "ftm", "ftr",
			},
		},
		{
			Name:        GroupRebounding,
			Description: "rebounding totals and rates",
			Layer:       1,
			MemberStats: []string{"reb", "oreb", "dreb", "oreb_pct", "dreb_pct"},
		},
		{
			Name:        GroupPlaymaking,
			Description: "ball movement and ball security",
			Layer:       1,
			MemberStats: []string{"ast", "tov", "tov_rate"},
		},
		{
			Name:        GroupDefense,
			Description: "defensive activity and efficiency",
			Layer:       1,
			MemberStats: []string{"def_rtg", "stl", "blk", "pf"},
		},
		{
			Name:        GroupPaceContext,
			Description: "tempo context",
			Layer:       1,
			MemberStats: []string{"pace"},
		},
		{
			Name:        GroupRecord,
			Description: "win-loss record and schedule strength",
			Layer:       2,
			MemberStats: []string{"win_pct", "sos"},
		},
		{
			Name:        GroupSituational,
			Description: "rest and schedule situation",
			Layer:       2,
			MemberStats: []string{"rest_days", "streak"},
		},
		{
			Name:        GroupMomentum,
			Description: "recent form",
			Layer:       2,
			MemberStats: []string{"form"},
		},
		{
			Name:            GroupH2H,
			Description:     "head-to-head history between the two teams",
			Layer:           2,
			MemberStats:     []string{"margin_h2h", "win_pct_h2h"},
			FilterSubstring: "h2h",
		},
		{
			Name:            GroupCloseGames,
			Description:     "performance in close games",
			Layer:           2,
			MemberStats:     []string{"win_pct_close"},
			FilterSubstring: "close",
		},
		{
			Name:        GroupEloStrength,
			Description: "elo-style team strength",
			Layer:       3,
			MemberStats: []string{"elo"},
		},
		{
			Name:            GroupPlayerTalent,
			Description:     "roster talent aggregated from player stats",
			Layer:           4,
			MemberStats:     []string{"player_per", "player_availability"},
			CuratedFeatures: curatedPlayerTalent,
		},
		{
			Name:            GroupInjuries,
			Description:     "injury report impact",
			Layer:           4,
			MemberStats:     []string{"inj_severity", "inj_count", "inj_starters_out"},
			CuratedFeatures: curatedInjuries,
		},
		{
			Name:        GroupPredictionFeatures,
			Description: "outputs of the previous model run, fed back as inputs",
			Layer:       5,
			MemberStats: []string{"pred_win_prob", "pred_margin"},
		},
	}
}

// GroupRegistry holds the semantic groups for one catalog and answers
// membership and ownership questions. Build it once at startup; it is
// immutable afterward and safe for concurrent use.
type GroupRegistry struct {
	catalog *Catalog

	groups    map[string]*SemanticGroup
	ordered   []*SemanticGroup // priority order
	substring []*SemanticGroup // substring claimants, priority order

	membership map[string]string // stat name -> owning group
}

// RegistryOption customizes registry construction.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	extra []GroupSpec
}

// WithLeagueGroup registers one league-contributed group after the
// built-in groups. League config may contribute at most one; passing the
// option twice makes NewGroupRegistry fail.
func WithLeagueGroup(spec GroupSpec) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.extra = append(cfg.extra, spec)
	}
}

// NewGroupRegistry builds the registry for a catalog and verifies its
// invariants: group names unique, every member stat present in the
// catalog, no stat owned by two groups, and every curated feature valid
// against the catalog.
func NewGroupRegistry(catalog *Catalog, opts ...RegistryOption) (*GroupRegistry, error) {
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.extra) > 1 {
		return nil, fmt.Errorf("group registry: at most one league group is supported, got %d", len(cfg.extra))
	}

	groups := defaultGroups()
	for _, spec := range cfg.extra {
		groups = append(groups, &SemanticGroup{
			Name:            spec.Name,
			Description:     spec.Description,
			Layer:           spec.Layer,
			MemberStats:     spec.MemberStats,
			FilterSubstring: spec.FilterSubstring,
		})
	}

	r := &GroupRegistry{
		catalog:    catalog,
		groups:     make(map[string]*SemanticGroup, len(groups)),
		ordered:    groups,
		membership: make(map[string]string),
	}
	validator := NewValidator(catalog)
	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("group registry: group with empty name")
		}
		if _, dup := r.groups[g.Name]; dup {
			return nil, fmt.Errorf("group registry: duplicate group %q", g.Name)
		}
		r.groups[g.Name] = g
		if g.FilterSubstring != "" {
			r.substring = append(r.substring, g)
		}
		for _, stat := range g.MemberStats {
			if _, ok := catalog.Lookup(stat); !ok {
				return nil, fmt.Errorf("group registry: group %q references unknown stat %q", g.Name, stat)
			}
			if owner, taken := r.membership[stat]; taken {
				return nil, fmt.Errorf("group registry: stat %q claimed by both %q and %q", stat, owner, g.Name)
			}
			r.membership[stat] = g.Name
		}
		for _, feature := range g.CuratedFeatures {
			if err := validator.ValidateFeature(feature); err != nil {
				return nil, fmt.Errorf("group registry: curated feature %q in group %q: %w", feature, g.Name, err)
			}
		}
	}
	return r, nil
}

// Group returns the group registered under name.
func (r *GroupRegistry) Group(name string) (*SemanticGroup, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// Groups returns all groups in priority order.
func (r *GroupRegistry) Groups() []*SemanticGroup {
	out := make([]*SemanticGroup, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns all group names in sorted order.
func (r *GroupRegistry) Names() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the catalog the registry was built against.
func (r *GroupRegistry) Catalog() *Catalog { return r.catalog }

// owner returns the substring group that claims the feature name, if any.
// Claims are checked in priority order so that a name matching two
// substrings always lands in the same group.
func (r *GroupRegistry) owner(feature string) (*SemanticGroup, bool) {
	for _, g := range r.substring {
		if containsFold(feature, g.FilterSubstring) {
			return g, true
		}
	}
	return nil, false
}
