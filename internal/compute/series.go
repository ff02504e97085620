package compute

import (
	"fmt"
	"strings"

	"hoopsight/internal/contracts"
	"hoopsight/internal/featurespec"
)

// seriesValues extracts the per-game series for a stat from windowed logs,
// newest first. Games missing the field are skipped; a window with no
// usable games is an ErrNoGames.
func seriesValues(def *featurespec.StatDefinition, net bool, logs []contracts.GameLog, snap *contracts.TeamSnapshot) ([]float64, error) {
	if net {
		return netSeries(def, logs)
	}
	if strings.HasSuffix(def.Name, "_rel") {
		return relSeries(def, logs, snap)
	}

	values := make([]float64, 0, len(logs))
	for i := range logs {
		if v, ok := logs[i].Stat(def.DBField); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: stat %s", ErrNoGames, def.Name)
	}
	return values, nil
}

// netSeries is own value minus the opponent's value in the same game. The
// opponent columns are ingested under an "opp_" prefix; the score-derived
// case falls out of the synthetic margin field.
func netSeries(def *featurespec.StatDefinition, logs []contracts.GameLog) ([]float64, error) {
	values := make([]float64, 0, len(logs))
	for i := range logs {
		if def.DBField == "pts" {
			values = append(values, logs[i].Margin())
			continue
		}
		own, okOwn := logs[i].Stat(def.DBField)
		opp, okOpp := logs[i].Stat("opp_" + def.DBField)
		if okOwn && okOpp {
			values = append(values, own-opp)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: stat %s_net", ErrNoGames, def.Name)
	}
	return values, nil
}

// relSeries is the per-game value minus the league-average scalar for the
// era, which the snapshot carries under a "league_" prefix.
func relSeries(def *featurespec.StatDefinition, logs []contracts.GameLog, snap *contracts.TeamSnapshot) ([]float64, error) {
	baseline, ok := snap.Scalar("league_" + def.DBField)
	if !ok {
		return nil, fmt.Errorf("%w: league_%s", ErrMissingBaseline, def.DBField)
	}
	values := make([]float64, 0, len(logs))
	for i := range logs {
		if v, ok := logs[i].Stat(def.DBField); ok {
			values = append(values, v-baseline)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: stat %s", ErrNoGames, def.Name)
	}
	return values, nil
}
