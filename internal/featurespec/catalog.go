package featurespec

import (
	"fmt"
	"sort"
	"strings"
)

// Category buckets stats by how their values are produced.
type Category string

const (
	// CategoryBasic covers raw counting stats read straight off game logs.
	CategoryBasic Category = "basic"
	// CategoryRate covers ratio and per-possession stats.
	CategoryRate Category = "rate"
	// CategoryDerived covers stats computed from other stats or schedule
	// context.
	CategoryDerived Category = "derived"
	// CategorySpecial covers stats with bespoke pipelines: ratings, vegas
	// lines, player aggregations, injuries, model outputs.
	CategorySpecial Category = "special"
)

func (c Category) String() string { return string(c) }

// IsValid reports whether c is one of the defined categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBasic, CategoryRate, CategoryDerived, CategorySpecial:
		return true
	}
	return false
}

// blendWeightSentinel is the per-stat calc-weight entry that opts a stat
// into composite "blend:..." weights. It is a capability marker, never a
// literal weight: enumeration skips it and validation only consults it to
// gate blend syntax.
const blendWeightSentinel = "blend"

// StatSpec is the declarative, serializable description of one stat. It
// is what catalog files and catalog tables carry; NewCatalog compiles a
// slice of these into the indexed form the validator consumes.
//
// Empty restriction lists mean "unrestricted": any syntactically valid
// value is accepted for that position.
type StatSpec struct {
	Name                string   `yaml:"name" json:"name"`
	Category            Category `yaml:"category" json:"category"`
	Description         string   `yaml:"description,omitempty" json:"description,omitempty"`
	TimePeriods         []string `yaml:"valid_time_periods,omitempty" json:"valid_time_periods,omitempty"`
	CalcWeights         []string `yaml:"valid_calc_weights,omitempty" json:"valid_calc_weights,omitempty"`
	Perspectives        []string `yaml:"valid_perspectives,omitempty" json:"valid_perspectives,omitempty"`
	SupportsSideSplit   bool     `yaml:"supports_side_split" json:"supports_side_split"`
	SupportsNet         bool     `yaml:"supports_net" json:"supports_net"`
	RequiresAggregation bool     `yaml:"requires_aggregation" json:"requires_aggregation"`
	DBField             string   `yaml:"db_field" json:"db_field"`
}

// StatDefinition is the compiled form of a StatSpec, with lookup sets
// prebuilt for the validator's hot path.
type StatDefinition struct {
	StatSpec

	periodSet  map[string]bool
	weightSet  map[string]bool
	perspSet   map[string]bool
	allowBlend bool
}

// PeriodRestricted reports whether the stat restricts time periods.
func (d *StatDefinition) PeriodRestricted() bool { return len(d.TimePeriods) > 0 }

// WeightRestricted reports whether the stat restricts calc weights.
func (d *StatDefinition) WeightRestricted() bool { return len(d.CalcWeights) > 0 }

// PerspectiveRestricted reports whether the stat restricts perspectives.
func (d *StatDefinition) PerspectiveRestricted() bool { return len(d.Perspectives) > 0 }

// AllowsPeriodLeaf reports whether a single base-period leaf satisfies
// the stat's allowed-period set. Window periods match by family, so an
// entry of "games_N" (or any concrete "games_K") admits every "games_*"
// instance.
func (d *StatDefinition) AllowsPeriodLeaf(leaf string) bool {
	if !d.PeriodRestricted() {
		return true
	}
	if d.periodSet[leaf] {
		return true
	}
	for _, entry := range d.TimePeriods {
		if periodMatchesEntry(leaf, entry) {
			return true
		}
	}
	return false
}

// AllowsCalcWeight reports whether an exact weight token is in the stat's
// allowed set. Blend weights are gated separately via AllowsBlendWeights.
func (d *StatDefinition) AllowsCalcWeight(w string) bool {
	if !d.WeightRestricted() {
		return true
	}
	return d.weightSet[w]
}

// AllowsBlendWeights reports whether the stat's allowed set carries the
// blend sentinel.
func (d *StatDefinition) AllowsBlendWeights() bool {
	return !d.WeightRestricted() || d.allowBlend
}

// AllowsPerspective reports whether a perspective token is legal for the
// stat.
func (d *StatDefinition) AllowsPerspective(p string) bool {
	if !d.PerspectiveRestricted() {
		return true
	}
	return d.perspSet[p]
}

// SpecError reports an invalid entry in a catalog's stat table, scoped to
// the stat and field that carries it.
type SpecError struct {
	Stat    string
	Field   string
	Message string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("stat %q: %s: %s", e.Stat, e.Field, e.Message)
}

// variantRule describes a derived-name suffix and the capability a base
// stat must declare for the variant to resolve. Adding a new derived
// family is a one-line change here.
type variantRule struct {
	suffix    string
	permitted func(*StatDefinition) bool
}

var variantRules = []variantRule{
	{suffix: "_net", permitted: func(d *StatDefinition) bool { return d.SupportsNet }},
}

// Catalog is an immutable, indexed set of stat definitions. Build one
// with NewCatalog and share it freely across goroutines.
type Catalog struct {
	defs  map[string]*StatDefinition
	names []string
}

// NewCatalog compiles and validates a stat table. Every entry is checked
// for a unique name, a known category, well-formed restriction sets, and
// a db_field; the first violation is returned as a *SpecError.
func NewCatalog(specs []StatSpec) (*Catalog, error) {
	c := &Catalog{
		defs:  make(map[string]*StatDefinition, len(specs)),
		names: make([]string, 0, len(specs)),
	}
	for _, spec := range specs {
		def, err := compileStatSpec(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.Name]; dup {
			return nil, &SpecError{Stat: def.Name, Field: "name", Message: "duplicate stat name"}
		}
		c.defs[def.Name] = def
		c.names = append(c.names, def.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// MustNewCatalog is NewCatalog for compiled-in tables; it panics on error.
func MustNewCatalog(specs []StatSpec) *Catalog {
	c, err := NewCatalog(specs)
	if err != nil {
		panic(fmt.Sprintf("featurespec: invalid built-in stat table: %v", err))
	}
	return c
}

func compileStatSpec(spec StatSpec) (*StatDefinition, error) {
	if spec.Name == "" {
		return nil, &SpecError{Stat: spec.Name, Field: "name", Message: "must not be empty"}
	}
	if strings.Contains(spec.Name, Separator) {
		return nil, &SpecError{Stat: spec.Name, Field: "name", Message: "must not contain '|'"}
	}
	if !spec.Category.IsValid() {
		return nil, &SpecError{Stat: spec.Name, Field: "category", Message: fmt.Sprintf("unknown category %q", spec.Category)}
	}
	if spec.DBField == "" {
		return nil, &SpecError{Stat: spec.Name, Field: "db_field", Message: "must not be empty"}
	}
	def := &StatDefinition{
		StatSpec:  spec,
		periodSet: make(map[string]bool, len(spec.TimePeriods)),
		weightSet: make(map[string]bool, len(spec.CalcWeights)),
		perspSet:  make(map[string]bool, len(spec.Perspectives)),
	}
	for _, p := range spec.TimePeriods {
		if !basePeriodSyntaxOK(p) && familyKey(p) == "" {
			return nil, &SpecError{Stat: spec.Name, Field: "valid_time_periods", Message: fmt.Sprintf("invalid period entry %q", p)}
		}
		def.periodSet[p] = true
	}
	for _, w := range spec.CalcWeights {
		if w == blendWeightSentinel {
			def.allowBlend = true
			def.weightSet[w] = true
			continue
		}
		if !baseWeightSyntaxOK(w) {
			return nil, &SpecError{Stat: spec.Name, Field: "valid_calc_weights", Message: fmt.Sprintf("invalid weight entry %q", w)}
		}
		def.weightSet[w] = true
	}
	for _, p := range spec.Perspectives {
		if !globalPerspectives[p] {
			return nil, &SpecError{Stat: spec.Name, Field: "valid_perspectives", Message: fmt.Sprintf("unknown perspective %q", p)}
		}
		def.perspSet[p] = true
	}
	return def, nil
}

// Lookup returns the definition registered under the exact name.
func (c *Catalog) Lookup(name string) (*StatDefinition, bool) {
	def, ok := c.defs[name]
	return def, ok
}

// Resolve maps a stat token to its definition, resolving derived-name
// suffixes: "points_net" resolves to the "points" definition when points
// declares supports_net. The second result reports whether a variant rule
// (rather than a direct entry) resolved the name.
func (c *Catalog) Resolve(name string) (def *StatDefinition, derived bool, ok bool) {
	if def, ok := c.defs[name]; ok {
		return def, false, true
	}
	for _, rule := range variantRules {
		base, found := strings.CutSuffix(name, rule.suffix)
		if !found || base == "" {
			continue
		}
		if def, ok := c.defs[base]; ok && rule.permitted(def) {
			return def, true, true
		}
	}
	return nil, false, false
}

// Names returns all registered stat names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of registered stats.
func (c *Catalog) Len() int { return len(c.defs) }
