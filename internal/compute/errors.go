package compute

import "errors"

var (
	// ErrNoGames means a window resolved to zero usable game logs.
	ErrNoGames = errors.New("no games in window")

	// ErrNoPlayers means an aggregation found no rated players for the
	// team and window.
	ErrNoPlayers = errors.New("no rated players")

	// ErrMissingScalar means a point-in-time stat has no value in the
	// team snapshot.
	ErrMissingScalar = errors.New("missing point-in-time scalar")

	// ErrMissingBaseline means an era-relative stat has no league
	// baseline scalar to subtract.
	ErrMissingBaseline = errors.New("missing league baseline scalar")

	// ErrNotConfigured means the feature needs a collaborator (lines,
	// predictions, aggregation) the computer was built without.
	ErrNotConfigured = errors.New("source not configured")
)
