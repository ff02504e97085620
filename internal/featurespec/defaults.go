package featurespec

// The built-in stat table. Catalog files and the catalog DB table can
// extend or override it (see internal/catalogsource); everything here is
// what the model pipeline ships with out of the box.

// DefaultCatalog compiles the built-in stat table. The table is validated
// by TestDefaultCatalogCompiles, so the panic path in MustNewCatalog is
// unreachable in practice.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(defaultStatSpecs)
}

// DefaultStatSpecs returns a copy of the built-in stat table. Entries
// share their restriction slices; treat the result as read-only.
func DefaultStatSpecs() []StatSpec {
	out := make([]StatSpec, len(defaultStatSpecs))
	copy(out, defaultStatSpecs)
	return out
}

var defaultStatSpecs = buildDefaultStatSpecs()

func buildDefaultStatSpecs() []StatSpec {
	specs := make([]StatSpec, 0, 64)

	// Counting stats straight off the box score. Unrestricted periods,
	// weights, and perspectives; all support home/away side splits.
	counting := []struct {
		name string
		db   string
		net  bool
		desc string
	}{
		{"points", "pts", true, "points scored"},
		{"fga", "fga", false, "field goal attempts"},
		{"fgm", "fgm", false, "field goals made"},
		{"fg3a", "fg3a", false, "three-point attempts"},
		{"fg3m", "fg3m", false, "three-pointers made"},
		{"fta", "fta", false, "free throw attempts"},
		{"ftm", "ftm", false, "free throws made"},
		{"reb", "reb", true, "total rebounds"},
		{"oreb", "oreb", false, "offensive rebounds"},
		{"dreb", "dreb", false, "defensive rebounds"},
		{"ast", "ast", true, "assists"},
		{"stl", "stl", false, "steals"},
		{"blk", "blk", false, "blocks"},
		{"tov", "tov", true, "turnovers"},
		{"pf", "pf", false, "personal fouls"},
	}
	for _, s := range counting {
		specs = append(specs, StatSpec{
			Name:              s.name,
			Category:          CategoryBasic,
			Description:       s.desc,
			SupportsSideSplit: true,
			SupportsNet:       s.net,
			DBField:           s.db,
		})
	}

	// Rate stats. Averaging a ratio is the only sound aggregation, so the
	// weight set is pinned to avg.
	rates := []struct {
		name string
		db   string
		net  bool
		side bool
		desc string
	}{
		{"efg", "efg_pct", false, true, "effective field goal percentage"},
		{"ts_pct", "ts_pct", false, true, "true shooting percentage"},
		{"fg_pct", "fg_pct", false, true, "field goal percentage"},
		{"fg3_pct", "fg3_pct", false, true, "three-point percentage"},
		{"ft_pct", "ft_pct", false, true, "free throw percentage"},
		{"oreb_pct", "oreb_pct", false, true, "offensive rebound percentage"},
		{"dreb_pct", "dreb_pct", false, true, "defensive rebound percentage"},
		{"tov_rate", "tov_rate", false, true, "turnovers per 100 possessions"},
		{"ftr", "ftr", false, true, "free throw attempt rate"},
		{"pace", "pace", false, false, "possessions per 48 minutes"},
		{"off_rtg", "off_rtg", true, true, "points scored per 100 possessions"},
		{"def_rtg", "def_rtg", false, true, "points allowed per 100 possessions"},
	}
	for _, s := range rates {
		specs = append(specs, StatSpec{
			Name:              s.name,
			Category:          CategoryRate,
			Description:       s.desc,
			CalcWeights:       []string{"avg"},
			SupportsSideSplit: s.side,
			SupportsNet:       s.net,
			DBField:           s.db,
		})
	}

	specs = append(specs,
		StatSpec{
			Name:              "margin",
			Category:          CategoryDerived,
			Description:       "final score margin",
			CalcWeights:       []string{"raw", "avg", blendWeightSentinel},
			SupportsSideSplit: true,
			DBField:           "margin",
		},
		StatSpec{
			Name:              "win_pct",
			Category:          CategoryDerived,
			Description:       "win percentage",
			CalcWeights:       []string{"avg"},
			SupportsSideSplit: true,
			DBField:           "win",
		},
		StatSpec{
			Name:        "form",
			Category:    CategoryDerived,
			Description: "recency-weighted margin momentum",
			TimePeriods: []string{"games_N"},
			CalcWeights: []string{"avg", "recency(k=5)", "recency(k=10)", blendWeightSentinel},
			DBField:     "margin",
		},
		StatSpec{
			Name:        "sos",
			Category:    CategoryDerived,
			Description: "strength of schedule faced",
			TimePeriods: []string{"season", "months_N", "last_N"},
			CalcWeights: []string{"avg"},
			DBField:     "sos",
		},
		StatSpec{
			Name:         "rest_days",
			Category:     CategoryDerived,
			Description:  "days since the previous game",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"diff", "home", "away"},
			DBField:      "rest_days",
		},
		StatSpec{
			Name:         "streak",
			Category:     CategoryDerived,
			Description:  "current win/loss streak, signed",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"diff", "home", "away"},
			DBField:      "streak",
		},
		StatSpec{
			Name:        "margin_h2h",
			Category:    CategoryDerived,
			Description: "score margin in head-to-head meetings",
			TimePeriods: []string{"season", "games_N", "last_N"},
			CalcWeights: []string{"raw", "avg"},
			DBField:     "margin",
		},
		StatSpec{
			Name:        "win_pct_h2h",
			Category:    CategoryDerived,
			Description: "win percentage in head-to-head meetings",
			TimePeriods: []string{"season", "games_N", "last_N"},
			CalcWeights: []string{"avg"},
			DBField:     "win",
		},
		StatSpec{
			Name:        "win_pct_close",
			Category:    CategoryDerived,
			Description: "win percentage in close games",
			TimePeriods: []string{"season", "games_close_N"},
			CalcWeights: []string{"avg"},
			DBField:     "win",
		},
		StatSpec{
			Name:        "points_rel",
			Category:    CategoryDerived,
			Description: "points relative to league average for the era",
			TimePeriods: []string{"season"},
			CalcWeights: []string{"avg"},
			DBField:     "pts",
		},
		StatSpec{
			Name:        "efg_rel",
			Category:    CategoryDerived,
			Description: "efg relative to league average for the era",
			TimePeriods: []string{"season"},
			CalcWeights: []string{"avg"},
			DBField:     "efg_pct",
		},
		StatSpec{
			Name:         "travel_miles",
			Category:     CategoryDerived,
			Description:  "miles traveled over the window",
			TimePeriods:  []string{"games_N"},
			CalcWeights:  []string{"raw", "avg"},
			Perspectives: []string{"diff", "home", "away"},
			DBField:      "travel_miles",
		},
	)

	specs = append(specs,
		StatSpec{
			Name:        "elo",
			Category:    CategorySpecial,
			Description: "elo rating",
			TimePeriods: []string{"season", "none"},
			CalcWeights: []string{"raw", "avg"},
			DBField:     "elo",
		},
		StatSpec{
			Name:         "vegas_line",
			Category:     CategorySpecial,
			Description:  "closing point spread",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"none"},
			DBField:      "spread",
		},
		StatSpec{
			Name:         "vegas_total",
			Category:     CategorySpecial,
			Description:  "closing over/under total",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"none"},
			DBField:      "total",
		},
		StatSpec{
			Name:         "vegas_implied_prob",
			Category:     CategorySpecial,
			Description:  "win probability implied by the moneyline",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"home", "away"},
			DBField:      "implied_prob",
		},
		StatSpec{
			Name:                "player_per",
			Category:            CategorySpecial,
			Description:         "player efficiency rating, aggregated to team level",
			TimePeriods:         []string{"season", "games_N"},
			CalcWeights:         []string{"avg", "top(k=3)", "top(k=5)", "top(k=8)"},
			Perspectives:        []string{"diff", "home", "away"},
			RequiresAggregation: true,
			DBField:             "per",
		},
		StatSpec{
			Name:                "player_availability",
			Category:            CategorySpecial,
			Description:         "share of rotation minutes available",
			TimePeriods:         []string{"none"},
			CalcWeights:         []string{"raw"},
			Perspectives:        []string{"diff", "home", "away"},
			RequiresAggregation: true,
			DBField:             "avail_pct",
		},
		StatSpec{
			Name:                "inj_severity",
			Category:            CategorySpecial,
			Description:         "injury report severity score",
			TimePeriods:         []string{"none"},
			CalcWeights:         []string{"raw"},
			Perspectives:        []string{"diff", "home", "away"},
			RequiresAggregation: true,
			DBField:             "inj_severity",
		},
		StatSpec{
			Name:                "inj_count",
			Category:            CategorySpecial,
			Description:         "players on the injury report",
			TimePeriods:         []string{"none"},
			CalcWeights:         []string{"raw"},
			Perspectives:        []string{"diff", "home", "away"},
			RequiresAggregation: true,
			DBField:             "inj_count",
		},
		StatSpec{
			Name:                "inj_starters_out",
			Category:            CategorySpecial,
			Description:         "starters ruled out",
			TimePeriods:         []string{"none"},
			CalcWeights:         []string{"raw"},
			Perspectives:        []string{"diff", "home", "away"},
			RequiresAggregation: true,
			DBField:             "starters_out",
		},
		StatSpec{
			Name:         "pred_win_prob",
			Category:     CategorySpecial,
			Description:  "model win probability from the previous run",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"none"},
			DBField:      "pred_win_prob",
		},
		StatSpec{
			Name:         "pred_margin",
			Category:     CategorySpecial,
			Description:  "model margin from the previous run",
			TimePeriods:  []string{"none"},
			CalcWeights:  []string{"raw"},
			Perspectives: []string{"none"},
			DBField:      "pred_margin",
		},
	)

	return specs
}
