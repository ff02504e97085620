package featurespec

import (
	"sort"
	"strings"
)

// prefixRules route feature names to their group by stat prefix before
// any other ownership rule runs. Order matters: earlier entries win.
var prefixRules = []struct {
	prefix string
	group  string
}{
	{"pred_", GroupPredictionFeatures},
	{"inj_", GroupInjuries},
	{"player_", GroupPlayerTalent},
	{"vegas_", GroupVegasLines},
}

// fallbackRules catch names that no prefix, substring, or membership rule
// resolved. They exist for historical names that predate the catalog;
// era_normalization in particular is a categorizer-only bucket with no
// enumerable group behind it.
var fallbackRules = []struct {
	substring string
	group     string
}{
	{"elo", GroupEloStrength},
	{"per", GroupPlayerTalent},
	{"rel", GroupEraNormalization},
}

// GroupFor maps any feature name to the group that owns it. Rules apply
// in a fixed order: stat prefix, claim substring (same priority order the
// enumerator uses), member-stat lookup, legacy fallbacks, then
// GroupOther. The result is deterministic for every input, including
// names that would never validate.
func (r *GroupRegistry) GroupFor(feature string) string {
	for _, rule := range prefixRules {
		if strings.HasPrefix(feature, rule.prefix) {
			return rule.group
		}
	}
	if g, ok := r.owner(feature); ok {
		return g.Name
	}
	stat := feature
	if idx := strings.Index(feature, Separator); idx >= 0 {
		stat = feature[:idx]
	}
	if group := r.memberOwner(stat); group != "" {
		return group
	}
	if def, derived, ok := r.catalog.Resolve(stat); ok && derived {
		if group := r.memberOwner(def.Name); group != "" {
			return group
		}
	}
	for _, rule := range fallbackRules {
		if containsFold(feature, rule.substring) {
			return rule.group
		}
	}
	return GroupOther
}

// memberOwner resolves stat membership against non-substring groups only.
// Substring groups claim names through their substring; a member of one
// that somehow lacks the substring must not resolve through membership.
func (r *GroupRegistry) memberOwner(stat string) string {
	group, ok := r.membership[stat]
	if !ok {
		return ""
	}
	if g := r.groups[group]; g != nil && g.FilterSubstring != "" {
		return ""
	}
	return group
}

// FeatureValue pairs a feature name with its computed value for grouped
// responses.
type FeatureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CategorizeBatch splits a computed feature map into per-group slices,
// each sorted by feature name. Groups with no matching features are
// absent from the result.
func (r *GroupRegistry) CategorizeBatch(values map[string]float64) map[string][]FeatureValue {
	out := make(map[string][]FeatureValue)
	for name, value := range values {
		group := r.GroupFor(name)
		out[group] = append(out[group], FeatureValue{Name: name, Value: value})
	}
	for _, features := range out {
		sort.Slice(features, func(i, j int) bool { return features[i].Name < features[j].Name })
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
