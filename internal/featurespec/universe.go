package featurespec

import (
	"regexp"
	"strconv"
	"strings"
)

// periodFamilies are the window-period prefixes. An instance is the
// family name, an underscore, and a positive integer: "games_10",
// "games_close_5", "last_2".
var periodFamilies = map[string]bool{
	"games":       true,
	"days":        true,
	"months":      true,
	"games_close": true,
	"last":        true,
}

// anchorPeriods are the base periods that carry no window size.
var anchorPeriods = map[string]bool{
	"season": true,
	"none":   true,
}

// globalCalcWeights are the exact weight tokens every stat may use unless
// its catalog entry restricts them.
var globalCalcWeights = map[string]bool{
	"raw": true,
	"avg": true,
}

// paramWeightRe matches parameterized weights such as "top(k=5)" or
// "recency(k=10)".
var paramWeightRe = regexp.MustCompile(`^([a-z_]+)\(k=(\d+)\)$`)

// paramWeightPatterns are the recognized parameterized weight families.
var paramWeightPatterns = map[string]bool{
	"recency": true,
	"top":     true,
}

// globalPerspectives are the only legal perspective tokens.
var globalPerspectives = map[string]bool{
	"diff": true,
	"home": true,
	"away": true,
	"none": true,
}

// defaultEnumCalcWeights and defaultEnumPerspectives are the cross-product
// axes used for stats whose catalog entry leaves the corresponding set
// unrestricted. Enumeration deliberately uses a narrower default than the
// validator accepts: "none" perspectives and parameterized weights only
// appear when a stat asks for them.
var (
	defaultEnumCalcWeights  = []string{"raw", "avg"}
	defaultEnumPerspectives = []string{"diff", "home", "away"}
)

// universeBasePeriods is every non-composite period candidate offered to
// the cross product, in enumeration order.
var universeBasePeriods = []string{
	"season",
	"none",
	"games_3",
	"games_5",
	"games_10",
	"games_20",
	"days_10",
	"days_30",
	"months_1",
	"games_close_10",
	"last_2",
}

// universeCompositePeriods is the curated set of composite candidates.
// Every entry must parse and every leaf must be a legal base period;
// TestUniverseWellFormed pins that.
var universeCompositePeriods = []string{
	"blend:season:0.7/games_10:0.3",
	"blend:season:0.5/games_5:0.2/games_10:0.3",
	"delta:games_10-season",
	"delta:blend:games_5:0.6/games_10:0.4-season",
}

// UniversePeriods returns a copy of the full period candidate universe,
// base periods first, then composites.
func UniversePeriods() []string {
	out := make([]string, 0, len(universeBasePeriods)+len(universeCompositePeriods))
	out = append(out, universeBasePeriods...)
	out = append(out, universeCompositePeriods...)
	return out
}

// GlobalPerspectives returns the legal perspective tokens in a stable
// order.
func GlobalPerspectives() []string {
	return []string{"diff", "home", "away", "none"}
}

// familyKey returns the window family of a period-set entry, or "" when
// the entry is not a window period. Both concrete instances ("games_10")
// and family placeholders ("games_N") map to their family ("games"), so a
// stat's catalog may declare either form.
func familyKey(s string) string {
	idx := strings.LastIndex(s, "_")
	if idx <= 0 {
		return ""
	}
	if prefix := s[:idx]; periodFamilies[prefix] {
		return prefix
	}
	return ""
}

// basePeriodSyntaxOK reports whether s is a well-formed base period: an
// anchor period or a window-family instance with a positive size.
func basePeriodSyntaxOK(s string) bool {
	if anchorPeriods[s] {
		return true
	}
	idx := strings.LastIndex(s, "_")
	if idx <= 0 || !periodFamilies[s[:idx]] {
		return false
	}
	n, err := strconv.Atoi(s[idx+1:])
	return err == nil && n > 0
}

// baseWeightSyntaxOK reports whether s is a well-formed non-blend calc
// weight: a global token or a parameterized pattern with k >= 1.
func baseWeightSyntaxOK(s string) bool {
	if globalCalcWeights[s] {
		return true
	}
	m := paramWeightRe.FindStringSubmatch(s)
	if m == nil || !paramWeightPatterns[m[1]] {
		return false
	}
	k, err := strconv.Atoi(m[2])
	return err == nil && k > 0
}

// periodMatchesEntry reports whether a base-period leaf satisfies one
// entry of a stat's allowed-period set: exact match, or same window
// family when both sides are window periods.
func periodMatchesEntry(leaf, entry string) bool {
	if leaf == entry {
		return true
	}
	ef := familyKey(entry)
	return ef != "" && ef == familyKey(leaf)
}
