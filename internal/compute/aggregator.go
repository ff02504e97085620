package compute

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"hoopsight/internal/contracts"
	"hoopsight/internal/featurespec"
)

// Injury report status values, most to least severe.
const (
	InjuryOut          = "out"
	InjuryDoubtful     = "doubtful"
	InjuryQuestionable = "questionable"
	InjuryProbable     = "probable"
)

// statusWeights is the expected share of a player's minutes lost per
// report status.
var statusWeights = map[string]float64{
	InjuryOut:          1.0,
	InjuryDoubtful:     0.75,
	InjuryQuestionable: 0.5,
	InjuryProbable:     0.25,
}

const (
	// rotationMinutes is the per-game minute pool a full rotation fills:
	// five spots times 48 minutes.
	rotationMinutes = 240.0

	// starterLoad is a starter's typical per-game minutes. Severity is
	// normalized by it so one starter ruled out scores 1.0.
	starterLoad = 36.0
)

// PlayerRating is one player's rating over a window, with the minutes
// backing it.
type PlayerRating struct {
	Player  string  `json:"player"`
	PER     float64 `json:"per"`
	Minutes float64 `json:"minutes"`
}

// InjuryEntry is one row of a team's injury report.
type InjuryEntry struct {
	Player  string  `json:"player"`
	Status  string  `json:"status"`
	Starter bool    `json:"starter"`
	Minutes float64 `json:"minutes"` // per-game minutes when healthy
}

// InjuryReport is a team's injury report as of a moment.
type InjuryReport struct {
	Team    string        `json:"team"`
	AsOf    time.Time     `json:"as_of"`
	Entries []InjuryEntry `json:"entries"`
}

// PlayerSource provides the player-level inputs behind the aggregated
// stats. The source does the windowing; PlayerAggregator only combines
// what it returns.
type PlayerSource interface {
	// PlayerRatings returns per-player ratings over the team's last n
	// games, or season to date when n is 0.
	PlayerRatings(ctx context.Context, team string, season int, asOf time.Time, lastN int) ([]PlayerRating, error)

	// InjuryReport returns the team's report as of a moment.
	InjuryReport(ctx context.Context, team string, asOf time.Time) (*InjuryReport, error)
}

// PlayerAggregator serves the aggregation-backed stats: player ratings
// folded to team level and injury-report summaries. It also publishes the
// feature universe it can serve, which the group registry's curated lists
// are drift-checked against.
type PlayerAggregator struct {
	source PlayerSource
	log    zerolog.Logger
}

var (
	_ Aggregator                  = (*PlayerAggregator)(nil)
	_ contracts.AggregationSource = (*PlayerAggregator)(nil)
)

// NewPlayerAggregator builds an aggregator over a player source.
func NewPlayerAggregator(source PlayerSource, log zerolog.Logger) *PlayerAggregator {
	return &PlayerAggregator{
		source: source,
		log:    log.With().Str("component", "compute.aggregator").Logger(),
	}
}

// Aggregate resolves one aggregation-backed stat for a team. The period
// leaf and weight arrive pre-validated against the catalog.
func (a *PlayerAggregator) Aggregate(ctx context.Context, team string, season int, asOf time.Time, stat, periodLeaf, weight string) (float64, error) {
	switch stat {
	case "player_per":
		return a.perValue(ctx, team, season, asOf, periodLeaf, weight)
	case "player_availability":
		return a.availability(ctx, team, asOf)
	case "inj_severity":
		return a.severity(ctx, team, asOf)
	case "inj_count":
		return a.count(ctx, team, asOf)
	case "inj_starters_out":
		return a.startersOut(ctx, team, asOf)
	default:
		return 0, fmt.Errorf("no aggregation for stat %q", stat)
	}
}

// perValue folds per-player ratings to a team value: avg is the
// minutes-weighted mean, top(k) the plain mean of the k best raters.
func (a *PlayerAggregator) perValue(ctx context.Context, team string, season int, asOf time.Time, leaf, weight string) (float64, error) {
	lastN := 0
	if leaf != "season" {
		family, n, err := splitWindow(leaf)
		if err != nil || family != "games" {
			return 0, fmt.Errorf("unsupported rating window %q", leaf)
		}
		lastN = n
	}
	ratings, err := a.source.PlayerRatings(ctx, team, season, asOf, lastN)
	if err != nil {
		return 0, fmt.Errorf("ratings for %s: %w", team, err)
	}
	if len(ratings) == 0 {
		return 0, fmt.Errorf("%s over %s: %w", team, leaf, ErrNoPlayers)
	}

	if pattern, k, ok := parseParamWeight(weight); ok && pattern == "top" {
		values := make([]float64, 0, len(ratings))
		for _, r := range ratings {
			values = append(values, r.PER)
		}
		return topK(values, k), nil
	}
	if weight == "avg" {
		var sum, minutes float64
		for _, r := range ratings {
			sum += r.PER * r.Minutes
			minutes += r.Minutes
		}
		if minutes == 0 {
			return 0, fmt.Errorf("%s over %s: zero rated minutes", team, leaf)
		}
		return sum / minutes, nil
	}
	return 0, fmt.Errorf("unsupported calc weight %q for player_per", weight)
}

// availability is the share of the rotation's minutes expected to play.
func (a *PlayerAggregator) availability(ctx context.Context, team string, asOf time.Time) (float64, error) {
	report, err := a.report(ctx, team, asOf)
	if err != nil {
		return 0, err
	}
	var missed float64
	for _, e := range report.Entries {
		missed += statusWeights[e.Status] * e.Minutes
	}
	avail := 1 - missed/rotationMinutes
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}

// severity scores the report in starter-equivalents: status weight times
// the player's minutes, normalized so one starter out scores 1.0.
func (a *PlayerAggregator) severity(ctx context.Context, team string, asOf time.Time) (float64, error) {
	report, err := a.report(ctx, team, asOf)
	if err != nil {
		return 0, err
	}
	var score float64
	for _, e := range report.Entries {
		score += statusWeights[e.Status] * e.Minutes / starterLoad
	}
	return score, nil
}

func (a *PlayerAggregator) count(ctx context.Context, team string, asOf time.Time) (float64, error) {
	report, err := a.report(ctx, team, asOf)
	if err != nil {
		return 0, err
	}
	return float64(len(report.Entries)), nil
}

func (a *PlayerAggregator) startersOut(ctx context.Context, team string, asOf time.Time) (float64, error) {
	report, err := a.report(ctx, team, asOf)
	if err != nil {
		return 0, err
	}
	var out float64
	for _, e := range report.Entries {
		if e.Starter && e.Status == InjuryOut {
			out++
		}
	}
	return out, nil
}

func (a *PlayerAggregator) report(ctx context.Context, team string, asOf time.Time) (*InjuryReport, error) {
	report, err := a.source.InjuryReport(ctx, team, asOf)
	if err != nil {
		return nil, fmt.Errorf("injury report for %s: %w", team, err)
	}
	return report, nil
}

// aggSpec pins one axis of the served universe: the period, weight, and
// perspectives the aggregation layer computes for a stat.
type aggSpec struct {
	stat         string
	period       string
	weight       string
	perspectives []string
}

// playerTalentSpecs and injurySpecs define the aggregation layer's served
// feature universe. The group registry carries matching curated lists;
// TestCuratedListsMatchAggregators fails on any drift between the two.
var playerTalentSpecs = []aggSpec{
	{stat: "player_per", period: "season", weight: "avg", perspectives: []string{"diff", "home", "away"}},
	{stat: "player_per", period: "games_10", weight: "avg", perspectives: []string{"diff", "home", "away"}},
	{stat: "player_per", period: "season", weight: "top(k=3)", perspectives: []string{"diff"}},
	{stat: "player_per", period: "season", weight: "top(k=5)", perspectives: []string{"diff"}},
	{stat: "player_per", period: "season", weight: "top(k=8)", perspectives: []string{"diff"}},
	{stat: "player_availability", period: "none", weight: "raw", perspectives: []string{"diff", "home", "away"}},
}

var injurySpecs = []aggSpec{
	{stat: "inj_severity", period: "none", weight: "raw", perspectives: []string{"diff", "home", "away"}},
	{stat: "inj_count", period: "none", weight: "raw", perspectives: []string{"diff", "home", "away"}},
	{stat: "inj_starters_out", period: "none", weight: "raw", perspectives: []string{"diff", "home", "away"}},
}

// FeatureNames returns the sorted feature universe the aggregation layer
// serves for a group.
func (a *PlayerAggregator) FeatureNames(group string) ([]string, error) {
	var specs []aggSpec
	switch group {
	case featurespec.GroupPlayerTalent:
		specs = playerTalentSpecs
	case featurespec.GroupInjuries:
		specs = injurySpecs
	default:
		return nil, fmt.Errorf("no aggregation universe for group %q", group)
	}
	var names []string
	for _, s := range specs {
		for _, persp := range s.perspectives {
			names = append(names, featurespec.Render(s.stat, s.period, s.weight, persp, false))
		}
	}
	sort.Strings(names)
	return names, nil
}
