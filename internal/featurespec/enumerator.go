package featurespec

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Enumerator expands semantic groups into concrete feature names. Every
// candidate assembled by the cross product is re-validated before it is
// emitted; a candidate that fails validation means the candidate universe
// and the catalog have drifted apart, so it is logged and skipped rather
// than aborting the batch.
type Enumerator struct {
	registry  *GroupRegistry
	validator *Validator
	log       zerolog.Logger
}

// NewEnumerator builds an enumerator over the registry's catalog.
func NewEnumerator(registry *GroupRegistry, log zerolog.Logger) *Enumerator {
	return &Enumerator{
		registry:  registry,
		validator: NewValidator(registry.Catalog()),
		log:       log.With().Str("component", "featurespec.enumerator").Logger(),
	}
}

// EnumerateGroup returns the sorted feature names owned by one group.
// Curated groups return their literal list. Substring groups return only
// names containing their substring, including names produced by other
// groups' member stats; non-substring groups lose any name a substring
// group claims.
func (e *Enumerator) EnumerateGroup(group string) ([]string, error) {
	g, ok := e.registry.Group(group)
	if !ok {
		return nil, fmt.Errorf("unknown semantic group %q", group)
	}
	return e.enumerateGroup(g, make(map[string][]string)), nil
}

// EnumerateAll expands every registered group. The map holds an entry for
// every group, each sorted; a stat cross product is computed once and
// shared across groups.
func (e *Enumerator) EnumerateAll() map[string][]string {
	memo := make(map[string][]string)
	out := make(map[string][]string, len(e.registry.groups))
	for _, g := range e.registry.Groups() {
		out[g.Name] = e.enumerateGroup(g, memo)
	}
	return out
}

// EnumerateAllFlat expands every group and returns the deduplicated union
// as one sorted slice.
func (e *Enumerator) EnumerateAllFlat() []string {
	seen := make(map[string]bool)
	var flat []string
	for _, features := range e.EnumerateAll() {
		for _, f := range features {
			if !seen[f] {
				seen[f] = true
				flat = append(flat, f)
			}
		}
	}
	sort.Strings(flat)
	return flat
}

func (e *Enumerator) enumerateGroup(g *SemanticGroup, memo map[string][]string) []string {
	if g.Curated() {
		out := make([]string, len(g.CuratedFeatures))
		copy(out, g.CuratedFeatures)
		sort.Strings(out)
		return out
	}

	set := make(map[string]bool)
	for _, stat := range g.MemberStats {
		for _, name := range e.statProduct(stat, memo) {
			set[name] = true
		}
	}

	if g.FilterSubstring != "" {
		// Keep only names this group claims, then pull in claimed names
		// produced by every other non-curated group's member stats.
		for name := range set {
			if owner, _ := e.registry.owner(name); owner != g {
				delete(set, name)
			}
		}
		for _, other := range e.registry.Groups() {
			if other == g || other.Curated() {
				continue
			}
			for _, stat := range other.MemberStats {
				for _, name := range e.statProduct(stat, memo) {
					if owner, ok := e.registry.owner(name); ok && owner == g {
						set[name] = true
					}
				}
			}
		}
	} else {
		// Non-substring groups lose every name a substring group claims.
		for name := range set {
			if _, claimed := e.registry.owner(name); claimed {
				delete(set, name)
			}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// statProduct expands one stat into every valid feature name: candidate
// periods x calc weights x perspectives, plus a "|side" variant when the
// stat supports side splits. Results are memoized per enumeration call.
func (e *Enumerator) statProduct(stat string, memo map[string][]string) []string {
	if names, ok := memo[stat]; ok {
		return names
	}
	def, ok := e.registry.Catalog().Lookup(stat)
	if !ok {
		// Registry construction guarantees members exist; a miss here is
		// catalog drift at runtime.
		e.log.Warn().Str("stat", stat).Msg("member stat missing from catalog, skipping")
		memo[stat] = nil
		return nil
	}

	periods := e.candidatePeriods(def)
	weights := e.candidateWeights(def)
	perspectives := e.candidatePerspectives(def)

	names := make([]string, 0, len(periods)*len(weights)*len(perspectives))
	for _, p := range periods {
		for _, w := range weights {
			for _, persp := range perspectives {
				names = e.appendValid(names, Render(def.Name, p, w, persp, false))
				if def.SupportsSideSplit {
					names = e.appendValid(names, Render(def.Name, p, w, persp, true))
				}
			}
		}
	}
	memo[stat] = names
	return names
}

// appendValid re-validates a candidate before emitting it.
func (e *Enumerator) appendValid(names []string, candidate string) []string {
	if err := e.validator.ValidateFeature(candidate); err != nil {
		drift := &CatalogDriftError{Feature: candidate, Cause: err}
		e.log.Warn().Err(drift).Str("feature", candidate).Msg("dropping enumerated feature")
		return names
	}
	return append(names, candidate)
}

// candidatePeriods filters the period universe down to what the stat
// allows. A composite candidate survives only if every leaf is allowed.
func (e *Enumerator) candidatePeriods(def *StatDefinition) []string {
	if !def.PeriodRestricted() {
		return UniversePeriods()
	}
	var out []string
	for _, p := range universeBasePeriods {
		if def.AllowsPeriodLeaf(p) {
			out = append(out, p)
		}
	}
	for _, c := range universeCompositePeriods {
		period, err := ParseTimePeriod(c)
		if err != nil {
			continue
		}
		allowed := true
		for _, leaf := range period.Leaves() {
			if !def.AllowsPeriodLeaf(leaf) {
				allowed = false
				break
			}
		}
		if allowed {
			out = append(out, c)
		}
	}
	return out
}

// candidateWeights returns the stat's weight set minus the blend
// sentinel, or the default pair for unrestricted stats. Blend weights
// never enumerate: the sentinel marks a capability for hand-written
// names, not a candidate.
func (e *Enumerator) candidateWeights(def *StatDefinition) []string {
	if !def.WeightRestricted() {
		return defaultEnumCalcWeights
	}
	out := make([]string, 0, len(def.CalcWeights))
	for _, w := range def.CalcWeights {
		if w == blendWeightSentinel {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (e *Enumerator) candidatePerspectives(def *StatDefinition) []string {
	if !def.PerspectiveRestricted() {
		return defaultEnumPerspectives
	}
	return def.Perspectives
}
