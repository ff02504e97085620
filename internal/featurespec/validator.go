package featurespec

import (
	"fmt"
	"math"
	"strings"
)

// legalPeriodHint and friends are appended to unknown-entity errors so
// that callers surface actionable messages without consulting docs.
const (
	legalPeriodHint = "expected 'season', 'none', a window like 'games_10', or a 'blend:'/'delta:' composite"
	legalWeightHint = "expected 'raw', 'avg', a pattern like 'top(k=5)' or 'recency(k=10)', or 'blend:...' where the stat allows it"
	legalPerspHint  = "expected one of 'diff', 'home', 'away', 'none'"
)

// Validator checks feature names against a catalog. It is stateless and
// safe for concurrent use; build one per catalog and share it.
type Validator struct {
	catalog *Catalog
}

// NewValidator returns a validator bound to the given catalog.
func NewValidator(catalog *Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Catalog returns the catalog the validator was built with.
func (v *Validator) Catalog() *Catalog { return v.catalog }

// ValidateFeature checks a single feature name and returns nil when it is
// legal. Checks run in a fixed order and stop at the first failure: shape,
// stat, period syntax, period legality, weight syntax, weight legality,
// perspective, side split. The returned error is always one of the typed
// errors in this package.
func (v *Validator) ValidateFeature(name string) error {
	parsed, err := Parse(name)
	if err != nil {
		return err
	}

	def, _, ok := v.catalog.Resolve(parsed.Stat)
	if !ok {
		return &UnknownEntityError{
			Position: PositionStat,
			Value:    parsed.Stat,
			Legal:    "not in the stat catalog; '_net' names require a net-capable base stat",
		}
	}

	period, err := ParseTimePeriod(parsed.TimePeriod)
	if err != nil {
		return err
	}
	if err := v.checkPeriodSyntax(period); err != nil {
		return err
	}

	for _, leaf := range period.Leaves() {
		if !def.AllowsPeriodLeaf(leaf) {
			return &ConstraintViolationError{
				Position: PositionTimePeriod,
				Stat:     parsed.Stat,
				Value:    leaf,
				Allowed:  def.TimePeriods,
			}
		}
	}

	if err := v.checkWeight(parsed.Stat, def, parsed.CalcWeight); err != nil {
		return err
	}

	if !globalPerspectives[parsed.Perspective] {
		return &UnknownEntityError{
			Position: PositionPerspective,
			Value:    parsed.Perspective,
			Legal:    legalPerspHint,
		}
	}
	if !def.AllowsPerspective(parsed.Perspective) {
		return &ConstraintViolationError{
			Position: PositionPerspective,
			Stat:     parsed.Stat,
			Value:    parsed.Perspective,
			Allowed:  def.Perspectives,
		}
	}

	if parsed.HasSide && !def.SupportsSideSplit {
		return &ConstraintViolationError{
			Position: PositionSide,
			Stat:     parsed.Stat,
			Value:    sideToken,
			Message:  fmt.Sprintf("stat '%s' does not support side splits", parsed.Stat),
		}
	}
	return nil
}

// checkPeriodSyntax verifies that every leaf of a parsed period is a
// well-formed base period and that every embedded blend obeys the
// weight-sum law.
func (v *Validator) checkPeriodSyntax(period TimePeriod) error {
	for _, leaf := range period.Leaves() {
		if !basePeriodSyntaxOK(leaf) {
			return &UnknownEntityError{
				Position: PositionTimePeriod,
				Value:    leaf,
				Legal:    legalPeriodHint,
			}
		}
	}
	for _, blend := range embeddedBlends(period) {
		if err := checkBlendSum(PositionTimePeriod, blend.String(), blend.WeightSum()); err != nil {
			return err
		}
	}
	return nil
}

// embeddedBlends returns the blend nodes of a period tree: the period
// itself, or the recent side of a delta.
func embeddedBlends(period TimePeriod) []BlendPeriod {
	switch p := period.(type) {
	case BlendPeriod:
		return []BlendPeriod{p}
	case DeltaPeriod:
		if b, ok := p.Recent.(BlendPeriod); ok {
			return []BlendPeriod{b}
		}
	}
	return nil
}

func checkBlendSum(pos Position, value string, sum float64) error {
	if math.Abs(sum-1.0) <= blendWeightEpsilon {
		return nil
	}
	return &ConstraintViolationError{
		Position: pos,
		Value:    value,
		Message:  fmt.Sprintf("blend weights sum to %.2f, expected 1.0 (±%.2f)", sum, blendWeightEpsilon),
	}
}

// checkWeight runs the weight syntax check followed by the per-stat
// legality check.
func (v *Validator) checkWeight(stat string, def *StatDefinition, weight string) error {
	if strings.HasPrefix(weight, blendPrefix) {
		if !def.AllowsBlendWeights() {
			return &ConstraintViolationError{
				Position: PositionCalcWeight,
				Stat:     stat,
				Value:    weight,
				Message:  fmt.Sprintf("blend weights not allowed for stat '%s'", stat),
			}
		}
		// parseBlend is shared with periods: components here are weight
		// tokens rather than period names.
		blend, err := parseBlend(weight)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Position = PositionCalcWeight
			}
			return err
		}
		for _, c := range blend.Components {
			if !baseWeightSyntaxOK(c.Period) {
				return &UnknownEntityError{
					Position: PositionCalcWeight,
					Value:    c.Period,
					Legal:    legalWeightHint,
				}
			}
		}
		return checkBlendSum(PositionCalcWeight, weight, blend.WeightSum())
	}

	if !baseWeightSyntaxOK(weight) {
		return &UnknownEntityError{
			Position: PositionCalcWeight,
			Value:    weight,
			Legal:    legalWeightHint,
		}
	}
	if !def.AllowsCalcWeight(weight) {
		return &ConstraintViolationError{
			Position: PositionCalcWeight,
			Stat:     stat,
			Value:    weight,
			Allowed:  def.CalcWeights,
		}
	}
	return nil
}

// ValidationReport summarizes a batch validation.
type ValidationReport struct {
	Valid           bool              `json:"valid"`
	ValidCount      int               `json:"valid_count"`
	InvalidFeatures []string          `json:"invalid_features,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// ValidateFeatureList validates every name and reports the failures keyed
// by feature name. Order of InvalidFeatures follows the input.
func (v *Validator) ValidateFeatureList(names []string) *ValidationReport {
	report := &ValidationReport{Valid: true}
	for _, name := range names {
		if err := v.ValidateFeature(name); err != nil {
			if report.Errors == nil {
				report.Errors = make(map[string]string)
			}
			report.Valid = false
			report.InvalidFeatures = append(report.InvalidFeatures, name)
			report.Errors[name] = err.Error()
			continue
		}
		report.ValidCount++
	}
	return report
}
