package jobs

import (
	"context"
	"fmt"
	"sync"

	"hoopsight/internal/featurespec"
	"hoopsight/internal/training"
	"hoopsight/pkg/logger"
)

// UniverseHashJob recomputes the default feature set's dataset identity
// and warns when it changes between runs. A changed identity means the
// enumerable universe moved under a running deployment: a catalog edit, a
// group change, or drift the enumerator silently skipped over.
type UniverseHashJob struct {
	enum     *featurespec.Enumerator
	logger   *logger.Logger
	schedule string

	mu     sync.Mutex
	lastID string
}

// NewUniverseHashJob creates the universe identity watch.
func NewUniverseHashJob(enum *featurespec.Enumerator, log *logger.Logger, schedule string) *UniverseHashJob {
	if schedule == "" {
		schedule = "0 0 * * * *" // hourly
	}
	return &UniverseHashJob{
		enum:     enum,
		logger:   log,
		schedule: schedule,
	}
}

// Name returns the job name
func (j *UniverseHashJob) Name() string { return "universe-hash" }

// Schedule returns the cron schedule expression
func (j *UniverseHashJob) Schedule() string { return j.schedule }

// Run computes the current dataset identity and compares it against the
// previous run's. The first run only records a baseline.
func (j *UniverseHashJob) Run(ctx context.Context) error {
	set := training.DefaultFeatureSet(j.enum)
	id, err := set.DatasetID()
	if err != nil {
		return fmt.Errorf("dataset identity: %w", err)
	}

	j.mu.Lock()
	previous := j.lastID
	j.lastID = id
	j.mu.Unlock()

	switch {
	case previous == "":
		j.logger.WithFields(map[string]interface{}{
			"dataset_id": id,
			"features":   set.Len(),
		}).Info("Recorded universe identity baseline")
	case previous != id:
		j.logger.WithFields(map[string]interface{}{
			"previous": previous,
			"current":  id,
			"features": set.Len(),
		}).Warn("Feature universe identity changed between runs")
	default:
		j.logger.WithField("dataset_id", id).Debug("Universe identity unchanged")
	}
	return nil
}

// LastID returns the most recently computed dataset identity, or "" when
// the job has not run yet.
func (j *UniverseHashJob) LastID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastID
}
