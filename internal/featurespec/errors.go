package featurespec

import (
	"fmt"
	"strings"
)

// Position identifies which positional field of a feature name a
// validation error refers to.
type Position string

const (
	PositionStat        Position = "stat"
	PositionTimePeriod  Position = "time_period"
	PositionCalcWeight  Position = "calc_weight"
	PositionPerspective Position = "perspective"
	PositionSide        Position = "side"
)

// ParseError reports a feature name or composite period expression that
// could not be parsed at all: wrong segment count, malformed blend pair,
// non-numeric weight, empty delta side.
type ParseError struct {
	Position Position
	Input    string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Invalid feature format: %s (in %q)", e.Reason, e.Input)
}

// UnknownEntityError reports a syntactically positioned token that names
// no known stat, time period, calc weight, or perspective.
type UnknownEntityError struct {
	Position Position
	Value    string
	Legal    string // human description of the legal values
}

func (e *UnknownEntityError) Error() string {
	label := positionLabel(e.Position)
	if e.Legal == "" {
		return fmt.Sprintf("Invalid %s: '%s'", label, e.Value)
	}
	return fmt.Sprintf("Invalid %s: '%s' (%s)", label, e.Value, e.Legal)
}

// ConstraintViolationError reports a token that is syntactically valid but
// violates a grammar law (for example the blend weight-sum law) or is not
// legal for the specific stat it was used with.
type ConstraintViolationError struct {
	Position Position
	Stat     string
	Value    string
	Message  string   // set for grammar-law violations
	Allowed  []string // set for per-stat restrictions
}

func (e *ConstraintViolationError) Error() string {
	label := positionLabel(e.Position)
	if e.Message != "" {
		return fmt.Sprintf("Invalid %s: '%s' (%s)", label, e.Value, e.Message)
	}
	return fmt.Sprintf("Invalid %s: '%s' not allowed for stat '%s' (allowed: %s)",
		label, e.Value, e.Stat, strings.Join(e.Allowed, ", "))
}

// CatalogDriftError reports an enumerated candidate that failed its own
// re-validation. It signals that the candidate universe and the stat
// catalog have drifted apart; the enumerator logs it and skips the
// candidate rather than aborting the batch.
type CatalogDriftError struct {
	Feature string
	Cause   error
}

func (e *CatalogDriftError) Error() string {
	return fmt.Sprintf("catalog drift: enumerated feature %q failed validation: %v", e.Feature, e.Cause)
}

func (e *CatalogDriftError) Unwrap() error { return e.Cause }

func positionLabel(p Position) string {
	switch p {
	case PositionTimePeriod:
		return "time period"
	case PositionCalcWeight:
		return "calc weight"
	case PositionSide:
		return "side split"
	default:
		return string(p)
	}
}
