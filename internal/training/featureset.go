// Package training assembles the feature sets that model training runs
// consume and pins their identity, so that any run can be traced back to
// the exact feature universe it trained on.
package training

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"hoopsight/internal/featurespec"
)

// FeatureSet is a named, sorted, deduplicated list of feature names.
type FeatureSet struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

// NewFeatureSet builds a set from hand-picked names. Every name is
// validated; one bad name fails the whole set.
func NewFeatureSet(name string, features []string, validator *featurespec.Validator) (*FeatureSet, error) {
	if name == "" {
		return nil, fmt.Errorf("feature set: empty name")
	}
	report := validator.ValidateFeatureList(features)
	if !report.Valid {
		first := report.InvalidFeatures[0]
		return nil, fmt.Errorf("feature set %q: %d invalid features, first %q: %s",
			name, len(report.InvalidFeatures), first, report.Errors[first])
	}
	return &FeatureSet{Name: name, Features: normalize(features)}, nil
}

// DefaultFeatureSet is the full enumerated universe.
func DefaultFeatureSet(enum *featurespec.Enumerator) *FeatureSet {
	return &FeatureSet{Name: "default", Features: enum.EnumerateAllFlat()}
}

// GroupFeatureSet is the union of the named groups.
func GroupFeatureSet(enum *featurespec.Enumerator, name string, groups ...string) (*FeatureSet, error) {
	var features []string
	for _, group := range groups {
		names, err := enum.EnumerateGroup(group)
		if err != nil {
			return nil, fmt.Errorf("feature set %q: %w", name, err)
		}
		features = append(features, names...)
	}
	return &FeatureSet{Name: name, Features: normalize(features)}, nil
}

// AblationSet is the default universe with one group removed, for
// measuring that group's contribution to model quality.
func AblationSet(enum *featurespec.Enumerator, group string) (*FeatureSet, error) {
	removed, err := enum.EnumerateGroup(group)
	if err != nil {
		return nil, fmt.Errorf("ablation set: %w", err)
	}
	return ablate(enum.EnumerateAllFlat(), group, removed), nil
}

// AblationSets builds one ablation set per registered group.
func AblationSets(enum *featurespec.Enumerator) map[string]*FeatureSet {
	flat := enum.EnumerateAllFlat()
	out := make(map[string]*FeatureSet)
	for group, removed := range enum.EnumerateAll() {
		out[group] = ablate(flat, group, removed)
	}
	return out
}

func ablate(flat []string, group string, removed []string) *FeatureSet {
	drop := make(map[string]bool, len(removed))
	for _, name := range removed {
		drop[name] = true
	}
	features := make([]string, 0, len(flat)-len(removed))
	for _, name := range flat {
		if !drop[name] {
			features = append(features, name)
		}
	}
	return &FeatureSet{Name: "ablate_" + group, Features: features}
}

// Len returns the number of features in the set.
func (s *FeatureSet) Len() int { return len(s.Features) }

// DatasetID is the SHA-256 of the sorted feature list in canonical JSON.
// Two runs with equal IDs trained on the same feature universe.
func (s *FeatureSet) DatasetID() (string, error) {
	jsonBytes, err := json.Marshal(s.Features)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

func normalize(features []string) []string {
	seen := make(map[string]bool, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
