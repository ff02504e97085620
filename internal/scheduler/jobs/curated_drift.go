// Package jobs holds the scheduled jobs that watch the feature universe
// for silent drift.
package jobs

import (
	"context"
	"fmt"
	"sort"

	"hoopsight/internal/contracts"
	"hoopsight/internal/featurespec"
	"hoopsight/pkg/logger"
	"hoopsight/pkg/metrics"
)

// CuratedDriftJob diffs the registry's curated feature lists against the
// aggregation layer's live universe. The curated groups bypass
// cross-product enumeration, so nothing else catches the two sets
// drifting apart; historically that drift made validated features
// silently compute to zero.
type CuratedDriftJob struct {
	registry *featurespec.GroupRegistry
	source   contracts.AggregationSource
	logger   *logger.Logger
	metrics  *metrics.Metrics
	schedule string
}

// NewCuratedDriftJob creates the drift watch. Metrics may be nil.
func NewCuratedDriftJob(registry *featurespec.GroupRegistry, source contracts.AggregationSource, log *logger.Logger, m *metrics.Metrics, schedule string) *CuratedDriftJob {
	if schedule == "" {
		schedule = "0 0 6 * * *" // daily, before the morning training run
	}
	return &CuratedDriftJob{
		registry: registry,
		source:   source,
		logger:   log,
		metrics:  m,
		schedule: schedule,
	}
}

// Name returns the job name
func (j *CuratedDriftJob) Name() string { return "curated-drift" }

// Schedule returns the cron schedule expression
func (j *CuratedDriftJob) Schedule() string { return j.schedule }

// Run checks every curated group and fails on the first drift found, so
// the scheduler's history shows the drift until someone fixes the lists.
func (j *CuratedDriftJob) Run(ctx context.Context) error {
	for _, name := range []string{featurespec.GroupPlayerTalent, featurespec.GroupInjuries} {
		group, ok := j.registry.Group(name)
		if !ok || !group.Curated() {
			return fmt.Errorf("curated group %q not registered", name)
		}

		live, err := j.source.FeatureNames(name)
		if err != nil {
			return fmt.Errorf("live universe for %q: %w", name, err)
		}

		missing, extra := diffSets(group.CuratedFeatures, live)
		if len(missing) == 0 && len(extra) == 0 {
			j.logger.WithFields(map[string]interface{}{
				"group":    name,
				"features": len(live),
			}).Debug("Curated list matches live universe")
			continue
		}

		if j.metrics != nil {
			j.metrics.CatalogDrift.Inc()
		}
		j.logger.WithFields(map[string]interface{}{
			"group":   name,
			"missing": missing,
			"extra":   extra,
		}).Warn("Curated feature list has drifted from the aggregation layer")
		return fmt.Errorf("group %q drifted: %d missing from curated list, %d no longer served",
			name, len(missing), len(extra))
	}
	return nil
}

// diffSets returns the names the live side serves but curated lacks
// (missing) and the names curated carries but live no longer serves
// (extra), both sorted.
func diffSets(curated, live []string) (missing, extra []string) {
	curatedSet := make(map[string]bool, len(curated))
	for _, name := range curated {
		curatedSet[name] = true
	}
	liveSet := make(map[string]bool, len(live))
	for _, name := range live {
		liveSet[name] = true
		if !curatedSet[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range curated {
		if !liveSet[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}
