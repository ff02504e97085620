// Package featurespec implements the feature specification language used
// across the platform: the compact string grammar that names every model
// input, the catalog-driven validator that decides whether a name is
// legal, the enumerator that expands semantic groups into concrete
// feature names, and the categorizer that maps any name back to the group
// that owns it.
//
// A feature name is a pipe-separated string:
//
//	stat|time_period|calc_weight|perspective[|side]
//
// for example "points|games_10|avg|diff" or
// "efg|blend:season:0.7/games_10:0.3|avg|home|side".
package featurespec

import (
	"fmt"
	"strings"
)

// Separator joins the positional segments of a feature name.
const Separator = "|"

// sideToken is the only recognized value of the optional fifth segment.
const sideToken = "side"

// ParsedFeatureName is the structured form of a feature name. TimePeriod
// is kept as the raw (possibly composite) string so that rendering a
// parsed name reproduces the input byte for byte; use ParseTimePeriod to
// inspect composite structure.
type ParsedFeatureName struct {
	Stat        string `json:"stat"`
	TimePeriod  string `json:"time_period"`
	CalcWeight  string `json:"calc_weight"`
	Perspective string `json:"perspective"`
	HasSide     bool   `json:"has_side"`
}

// Parse splits a feature name into its positional segments. It checks
// shape only: any name with four or five segments parses, whether or not
// the segment values are legal. A fifth segment equal to "side" sets
// HasSide; any other fifth value is ignored, matching how downstream
// consumers have always read these names.
func Parse(name string) (*ParsedFeatureName, error) {
	segments := strings.Split(name, Separator)
	if len(segments) < 4 {
		return nil, &ParseError{
			Position: PositionStat,
			Input:    name,
			Reason:   fmt.Sprintf("expected at least 4 '|'-separated segments, got %d", len(segments)),
		}
	}
	parsed := &ParsedFeatureName{
		Stat:        segments[0],
		TimePeriod:  segments[1],
		CalcWeight:  segments[2],
		Perspective: segments[3],
	}
	if len(segments) >= 5 && segments[4] == sideToken {
		parsed.HasSide = true
	}
	return parsed, nil
}

// String renders the parsed name back to its canonical string form.
// Parse followed by String is lossless for every canonical name; an
// ignored junk fifth segment is dropped.
func (p *ParsedFeatureName) String() string {
	return Render(p.Stat, p.TimePeriod, p.CalcWeight, p.Perspective, p.HasSide)
}

// Render assembles a feature name from its parts.
func Render(stat, timePeriod, calcWeight, perspective string, side bool) string {
	name := stat + Separator + timePeriod + Separator + calcWeight + Separator + perspective
	if side {
		name += Separator + sideToken
	}
	return name
}
