package featurespec

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	blendPrefix = "blend:"
	deltaPrefix = "delta:"

	// blendWeightEpsilon is the tolerance applied when checking that blend
	// weights sum to 1.0.
	blendWeightEpsilon = 0.01
)

// TimePeriod is the parsed form of the time-period segment of a feature
// name. It is one of BasePeriod, BlendPeriod, or DeltaPeriod.
type TimePeriod interface {
	// Leaves returns every base-period string reachable from this node.
	Leaves() []string
	String() string

	isTimePeriod()
}

// BasePeriod is an atomic period such as "season", "none", or a window
// instance like "games_10".
type BasePeriod string

func (p BasePeriod) isTimePeriod() {}

func (p BasePeriod) Leaves() []string { return []string{string(p)} }

func (p BasePeriod) String() string { return string(p) }

// BlendComponent is a single weighted term of a blend.
type BlendComponent struct {
	Period string
	Weight float64
}

// BlendPeriod is a weighted mixture of base periods, written
// "blend:p1:w1/p2:w2/...". Weights must sum to 1.0 within
// blendWeightEpsilon; the sum law is enforced by the validator, not the
// parser, so that callers can report it with full context.
type BlendPeriod struct {
	Components []BlendComponent
}

func (p BlendPeriod) isTimePeriod() {}

func (p BlendPeriod) Leaves() []string {
	leaves := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		leaves = append(leaves, c.Period)
	}
	return leaves
}

// WeightSum returns the sum of all component weights.
func (p BlendPeriod) WeightSum() float64 {
	var sum float64
	for _, c := range p.Components {
		sum += c.Weight
	}
	return sum
}

func (p BlendPeriod) String() string {
	parts := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		parts = append(parts, fmt.Sprintf("%s:%s", c.Period, strconv.FormatFloat(c.Weight, 'g', -1, 64)))
	}
	return blendPrefix + strings.Join(parts, "/")
}

// DeltaPeriod is the difference between a recent window and a baseline,
// written "delta:recent-baseline". The recent side may itself be a blend
// (one level deep); the baseline must be a base period.
type DeltaPeriod struct {
	Recent   TimePeriod
	Baseline BasePeriod
}

func (p DeltaPeriod) isTimePeriod() {}

func (p DeltaPeriod) Leaves() []string {
	return append(p.Recent.Leaves(), string(p.Baseline))
}

func (p DeltaPeriod) String() string {
	return deltaPrefix + p.Recent.String() + "-" + p.Baseline.String()
}

// ParseTimePeriod parses the time-period segment of a feature name into
// its structured form. Plain strings with no composite prefix are returned
// as BasePeriod without further checking; base-period syntax is the
// validator's concern.
func ParseTimePeriod(s string) (TimePeriod, error) {
	switch {
	case strings.HasPrefix(s, blendPrefix):
		return parseBlend(s)
	case strings.HasPrefix(s, deltaPrefix):
		return parseDelta(s)
	default:
		return BasePeriod(s), nil
	}
}

// parseBlend parses "blend:p1:w1/p2:w2/...". Each pair is split on its
// LAST colon so that period names are free to evolve, as long as they
// never contain ':' themselves.
func parseBlend(s string) (BlendPeriod, error) {
	spec := strings.TrimPrefix(s, blendPrefix)
	if spec == "" {
		return BlendPeriod{}, &ParseError{Position: PositionTimePeriod, Input: s, Reason: "empty blend specification"}
	}
	parts := strings.Split(spec, "/")
	components := make([]BlendComponent, 0, len(parts))
	for _, part := range parts {
		idx := strings.LastIndex(part, ":")
		if idx <= 0 || idx == len(part)-1 {
			return BlendPeriod{}, &ParseError{
				Position: PositionTimePeriod,
				Input:    s,
				Reason:   fmt.Sprintf("malformed blend component %q, want period:weight", part),
			}
		}
		weight, err := strconv.ParseFloat(part[idx+1:], 64)
		if err != nil {
			return BlendPeriod{}, &ParseError{
				Position: PositionTimePeriod,
				Input:    s,
				Reason:   fmt.Sprintf("non-numeric blend weight %q", part[idx+1:]),
			}
		}
		components = append(components, BlendComponent{Period: part[:idx], Weight: weight})
	}
	return BlendPeriod{Components: components}, nil
}

// parseDelta parses "delta:recent-baseline", splitting on the LAST hyphen
// so that period names containing '-' on the recent side keep working. The
// asymmetry is deliberate: a blend is allowed as the recent side but never
// as the baseline, and deltas never nest.
func parseDelta(s string) (DeltaPeriod, error) {
	spec := strings.TrimPrefix(s, deltaPrefix)
	idx := strings.LastIndex(spec, "-")
	if idx < 0 {
		return DeltaPeriod{}, &ParseError{Position: PositionTimePeriod, Input: s, Reason: "delta missing '-' separator"}
	}
	recent, baseline := spec[:idx], spec[idx+1:]
	if recent == "" || baseline == "" {
		return DeltaPeriod{}, &ParseError{Position: PositionTimePeriod, Input: s, Reason: "delta requires both a recent and a baseline period"}
	}
	if strings.HasPrefix(baseline, blendPrefix) || strings.HasPrefix(baseline, deltaPrefix) {
		return DeltaPeriod{}, &ParseError{Position: PositionTimePeriod, Input: s, Reason: "delta baseline must be a base period"}
	}
	switch {
	case strings.HasPrefix(recent, deltaPrefix):
		return DeltaPeriod{}, &ParseError{Position: PositionTimePeriod, Input: s, Reason: "delta cannot nest another delta"}
	case strings.HasPrefix(recent, blendPrefix):
		blend, err := parseBlend(recent)
		if err != nil {
			return DeltaPeriod{}, err
		}
		return DeltaPeriod{Recent: blend, Baseline: BasePeriod(baseline)}, nil
	default:
		return DeltaPeriod{Recent: BasePeriod(recent), Baseline: BasePeriod(baseline)}, nil
	}
}

// IsComposite reports whether the raw period string uses a composite
// prefix.
func IsComposite(s string) bool {
	return strings.HasPrefix(s, blendPrefix) || strings.HasPrefix(s, deltaPrefix)
}
