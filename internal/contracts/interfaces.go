package contracts

import (
	"context"
	"time"
)

// StatComputer resolves validated feature names to values for a matchup.
type StatComputer interface {
	Compute(ctx context.Context, feature string, matchup *Matchup) (float64, error)
	ComputeBatch(ctx context.Context, features []string, matchup *Matchup) (map[string]float64, error)
}

// GameLogSource provides team snapshots for feature computation.
type GameLogSource interface {
	Snapshot(ctx context.Context, team string, season int, asOf time.Time) (*TeamSnapshot, error)
}

// LinesSource provides the latest betting lines for a game.
type LinesSource interface {
	Lines(ctx context.Context, gameID string) (*GameLines, error)
}

// PredictionSource provides the previous model run's output for a game.
type PredictionSource interface {
	Prediction(ctx context.Context, gameID string) (*GamePrediction, error)
}

// AggregationSource exposes the live feature-name universe of the
// aggregation-backed groups (player_talent, injuries). The registry's
// curated lists are checked against it.
type AggregationSource interface {
	FeatureNames(group string) ([]string, error)
}
