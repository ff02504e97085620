// Package compute resolves validated feature names to values. The
// computer walks a parsed name top-down: perspective picks which team
// values to combine, the time period picks game-log windows or scalars,
// and the calc weight folds each window's series into a number. Stats
// whose values live outside the game logs are delegated: market fields to
// the lines source, model outputs to the prediction source, player-level
// stats to the aggregation layer.
package compute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hoopsight/internal/contracts"
	"hoopsight/internal/featurespec"
)

// gameLevelFields are the db_fields whose values describe the upcoming
// game itself rather than either team's history.
var gameLevelFields = map[string]bool{
	"spread":        true,
	"total":         true,
	"implied_prob":  true,
	"pred_win_prob": true,
	"pred_margin":   true,
}

// Aggregator serves the stats whose catalog entry sets
// requires_aggregation: values built from player rows rather than team
// game logs. The computer hands it one base-period leaf and one base
// weight at a time; composite periods and blend weights are combined a
// level up.
type Aggregator interface {
	Aggregate(ctx context.Context, team string, season int, asOf time.Time, stat, periodLeaf, weight string) (float64, error)
}

// Sources are the computer's collaborators. Logs is needed for every
// team-history feature; the rest are optional and features that need a
// missing one fail with ErrNotConfigured.
type Sources struct {
	Logs        contracts.GameLogSource
	Lines       contracts.LinesSource
	Predictions contracts.PredictionSource
	Aggregator  Aggregator
}

// Computer resolves feature names for matchups. It validates every name
// against its catalog before computing, so group enumerations and
// hand-written feature lists go through the same gate.
type Computer struct {
	catalog   *featurespec.Catalog
	validator *featurespec.Validator
	sources   Sources
	cache     Cache
	log       zerolog.Logger
}

var _ contracts.StatComputer = (*Computer)(nil)

// NewComputer builds a computer over a catalog. A nil cache gets an
// in-process MemoryCache.
func NewComputer(catalog *featurespec.Catalog, sources Sources, cache Cache, log zerolog.Logger) *Computer {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Computer{
		catalog:   catalog,
		validator: featurespec.NewValidator(catalog),
		sources:   sources,
		cache:     cache,
		log:       log.With().Str("component", "compute").Logger(),
	}
}

// Catalog returns the catalog the computer validates against.
func (c *Computer) Catalog() *featurespec.Catalog { return c.catalog }

// Compute resolves one feature name for a matchup.
func (c *Computer) Compute(ctx context.Context, feature string, matchup *contracts.Matchup) (float64, error) {
	return c.compute(ctx, feature, matchup, &snapshotPair{c: c, matchup: matchup})
}

// ComputeBatch resolves many names for one matchup, sharing the team
// snapshots across them. Features that fail are logged and left out of
// the result rather than failing the batch: one stale stat should not
// sink a prediction run.
func (c *Computer) ComputeBatch(ctx context.Context, features []string, matchup *contracts.Matchup) (map[string]float64, error) {
	if matchup == nil {
		return nil, fmt.Errorf("compute batch: nil matchup")
	}
	snaps := &snapshotPair{c: c, matchup: matchup}
	out := make(map[string]float64, len(features))
	for _, feature := range features {
		v, err := c.compute(ctx, feature, matchup, snaps)
		if err != nil {
			c.log.Warn().Err(err).
				Str("feature", feature).
				Str("game_id", matchup.GameID).
				Msg("skipping feature")
			continue
		}
		out[feature] = v
	}
	return out, nil
}

func (c *Computer) compute(ctx context.Context, feature string, m *contracts.Matchup, snaps *snapshotPair) (float64, error) {
	if m == nil {
		return 0, fmt.Errorf("compute %q: nil matchup", feature)
	}
	if err := c.validator.ValidateFeature(feature); err != nil {
		return 0, err
	}
	parsed, err := featurespec.Parse(feature)
	if err != nil {
		return 0, err
	}
	def, derived, ok := c.catalog.Resolve(parsed.Stat)
	if !ok {
		return 0, fmt.Errorf("stat %q not in catalog", parsed.Stat)
	}

	if gameLevelFields[def.DBField] {
		return c.gameValue(ctx, parsed, def, m)
	}

	switch parsed.Perspective {
	case "home":
		return c.teamValue(ctx, parsed, def, derived, m, snaps, true)
	case "away":
		return c.teamValue(ctx, parsed, def, derived, m, snaps, false)
	case "diff", "none":
		home, err := c.teamValue(ctx, parsed, def, derived, m, snaps, true)
		if err != nil {
			return 0, err
		}
		away, err := c.teamValue(ctx, parsed, def, derived, m, snaps, false)
		if err != nil {
			return 0, err
		}
		if parsed.Perspective == "diff" {
			return home - away, nil
		}
		// The "none" perspective is matchup context: both teams averaged.
		return (home + away) / 2, nil
	default:
		return 0, fmt.Errorf("unsupported perspective %q", parsed.Perspective)
	}
}

// gameValue resolves the game-level fields from the lines or prediction
// source.
func (c *Computer) gameValue(ctx context.Context, parsed *featurespec.ParsedFeatureName, def *featurespec.StatDefinition, m *contracts.Matchup) (float64, error) {
	switch def.DBField {
	case "spread", "total", "implied_prob":
		if c.sources.Lines == nil {
			return 0, fmt.Errorf("%s: lines source: %w", parsed.Stat, ErrNotConfigured)
		}
		lines, err := c.sources.Lines.Lines(ctx, m.GameID)
		if err != nil {
			return 0, fmt.Errorf("lines for game %s: %w", m.GameID, err)
		}
		switch def.DBField {
		case "spread":
			return lines.Spread, nil
		case "total":
			return lines.Total, nil
		default:
			if parsed.Perspective == "away" {
				return lines.AwayImpliedProb(), nil
			}
			return lines.HomeImpliedProb(), nil
		}
	case "pred_win_prob", "pred_margin":
		if c.sources.Predictions == nil {
			return 0, fmt.Errorf("%s: prediction source: %w", parsed.Stat, ErrNotConfigured)
		}
		pred, err := c.sources.Predictions.Prediction(ctx, m.GameID)
		if err != nil {
			return 0, fmt.Errorf("prediction for game %s: %w", m.GameID, err)
		}
		if def.DBField == "pred_margin" {
			return pred.Margin, nil
		}
		return pred.WinProb, nil
	}
	return 0, fmt.Errorf("unsupported game-level field %q", def.DBField)
}

// teamValue resolves one team's side of a feature, consulting the cache
// first. Aggregation-backed stats are never cached: injury reports and
// availability move within the day.
func (c *Computer) teamValue(ctx context.Context, parsed *featurespec.ParsedFeatureName, def *featurespec.StatDefinition, net bool, m *contracts.Matchup, snaps *snapshotPair, home bool) (float64, error) {
	team, opponent := m.HomeTeam, m.AwayTeam
	if !home {
		team, opponent = m.AwayTeam, m.HomeTeam
	}

	key := Key{
		Team:    team,
		Season:  m.Season,
		AsOf:    m.Date.Format("2006-01-02"),
		Feature: cacheFeature(parsed, home),
	}
	cacheable := !def.RequiresAggregation
	if cacheable {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
	}

	ev := &evaluation{
		c:      c,
		def:    def,
		net:    net,
		parsed: parsed,
		team:   team,
		season: m.Season,
		asOf:   m.Date,
	}
	if !def.RequiresAggregation {
		snap, err := snaps.side(ctx, home)
		if err != nil {
			return 0, err
		}
		ev.view = teamView(snap, def, parsed, opponent, home)
	}

	v, err := ev.value(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s for %s: %w", parsed.String(), team, err)
	}
	if cacheable {
		c.cache.Upsert(key, v)
	}
	return v, nil
}

// cacheFeature is the canonical feature string, with the matchup side
// appended for side-split names: the same name windows a team's home
// games in one matchup and its road games in another.
func cacheFeature(parsed *featurespec.ParsedFeatureName, home bool) string {
	name := parsed.String()
	if !parsed.HasSide {
		return name
	}
	if home {
		return name + "#home"
	}
	return name + "#away"
}

// teamView narrows a snapshot to the logs a stat may see before any
// window is applied: head-to-head stats see only games against the
// current opponent, close-game stats only close games, and side-split
// names only games on the team's side in this matchup.
func teamView(snap *contracts.TeamSnapshot, def *featurespec.StatDefinition, parsed *featurespec.ParsedFeatureName, opponent string, home bool) *contracts.TeamSnapshot {
	view := *snap
	if strings.HasSuffix(def.Name, "_h2h") {
		view.Logs = view.VersusLogs(opponent)
	}
	if strings.HasSuffix(def.Name, "_close") {
		view.Logs = closeOnly(view.Logs)
	}
	if parsed.HasSide {
		view.Logs = view.SideLogs(home)
	}
	return &view
}

// evaluation carries everything needed to resolve one team's side of one
// feature. view is nil for aggregation-backed stats, which never read
// game logs.
type evaluation struct {
	c      *Computer
	def    *featurespec.StatDefinition
	net    bool
	parsed *featurespec.ParsedFeatureName
	view   *contracts.TeamSnapshot
	team   string
	season int
	asOf   time.Time
}

// value applies the calc weight. A blend weight resolves the period once
// per component weight and mixes the results; base weights pass straight
// through to the period walk.
func (ev *evaluation) value(ctx context.Context) (float64, error) {
	period, err := featurespec.ParseTimePeriod(ev.parsed.TimePeriod)
	if err != nil {
		return 0, err
	}

	weight := ev.parsed.CalcWeight
	if !strings.HasPrefix(weight, "blend:") {
		return ev.evalPeriod(ctx, period, weight)
	}
	// Components here are weight tokens rather than period names; the
	// validator has already approved the blend shape and sum.
	parsedWeight, err := featurespec.ParseTimePeriod(weight)
	if err != nil {
		return 0, err
	}
	blend, ok := parsedWeight.(featurespec.BlendPeriod)
	if !ok {
		return 0, fmt.Errorf("malformed blend weight %q", weight)
	}
	var sum float64
	for _, comp := range blend.Components {
		v, err := ev.evalPeriod(ctx, period, comp.Period)
		if err != nil {
			return 0, err
		}
		sum += comp.Weight * v
	}
	return sum, nil
}

// evalPeriod walks a parsed time period: blends mix their component
// windows, deltas subtract the baseline window from the recent one.
func (ev *evaluation) evalPeriod(ctx context.Context, period featurespec.TimePeriod, weight string) (float64, error) {
	switch p := period.(type) {
	case featurespec.BasePeriod:
		return ev.evalLeaf(ctx, string(p), weight)
	case featurespec.BlendPeriod:
		var sum float64
		for _, comp := range p.Components {
			v, err := ev.evalLeaf(ctx, comp.Period, weight)
			if err != nil {
				return 0, err
			}
			sum += comp.Weight * v
		}
		return sum, nil
	case featurespec.DeltaPeriod:
		recent, err := ev.evalPeriod(ctx, p.Recent, weight)
		if err != nil {
			return 0, err
		}
		baseline, err := ev.evalLeaf(ctx, string(p.Baseline), weight)
		if err != nil {
			return 0, err
		}
		return recent - baseline, nil
	default:
		return 0, fmt.Errorf("unsupported time period %T", period)
	}
}

// evalLeaf resolves one base-period leaf: aggregation stats go to the
// aggregator, "none" reads the point-in-time scalar, everything else
// windows the game logs and folds the series.
func (ev *evaluation) evalLeaf(ctx context.Context, leaf, weight string) (float64, error) {
	if ev.def.RequiresAggregation {
		if ev.c.sources.Aggregator == nil {
			return 0, fmt.Errorf("aggregator: %w", ErrNotConfigured)
		}
		return ev.c.sources.Aggregator.Aggregate(ctx, ev.team, ev.season, ev.asOf, ev.def.Name, leaf, weight)
	}
	if leaf == "none" {
		v, ok := ev.view.Scalar(ev.def.DBField)
		if !ok {
			return 0, fmt.Errorf("%s: %w", ev.def.DBField, ErrMissingScalar)
		}
		return v, nil
	}
	logs, err := windowLogs(ev.view, leaf)
	if err != nil {
		return 0, err
	}
	series, err := seriesValues(ev.def, ev.net, logs, ev.view)
	if err != nil {
		return 0, err
	}
	return aggregate(series, weight)
}

// snapshotPair fetches each team's snapshot at most once per compute call
// or batch.
type snapshotPair struct {
	c       *Computer
	matchup *contracts.Matchup
	home    *contracts.TeamSnapshot
	away    *contracts.TeamSnapshot
}

func (p *snapshotPair) side(ctx context.Context, home bool) (*contracts.TeamSnapshot, error) {
	if p.c.sources.Logs == nil {
		return nil, fmt.Errorf("game log source: %w", ErrNotConfigured)
	}
	team := p.matchup.HomeTeam
	cached := &p.home
	if !home {
		team = p.matchup.AwayTeam
		cached = &p.away
	}
	if *cached == nil {
		snap, err := p.c.sources.Logs.Snapshot(ctx, team, p.matchup.Season, p.matchup.Date)
		if err != nil {
			return nil, fmt.Errorf("snapshot for %s: %w", team, err)
		}
		*cached = snap
	}
	return *cached, nil
}
