package training

import (
	"time"

	"hoopsight/internal/featurespec"
)

// Manifest pins the identity and composition of one training dataset. It
// is written next to every trained model artifact.
type Manifest struct {
	Name         string         `json:"name"`
	DatasetID    string         `json:"dataset_id"`
	FeatureCount int            `json:"feature_count"`
	Groups       map[string]int `json:"groups"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// BuildManifest computes a set's identity and its per-group feature
// counts.
func BuildManifest(set *FeatureSet, registry *featurespec.GroupRegistry) (*Manifest, error) {
	id, err := set.DatasetID()
	if err != nil {
		return nil, err
	}
	groups := make(map[string]int)
	for _, feature := range set.Features {
		groups[registry.GroupFor(feature)]++
	}
	return &Manifest{
		Name:         set.Name,
		DatasetID:    id,
		FeatureCount: set.Len(),
		Groups:       groups,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}
