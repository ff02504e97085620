package contracts

import "time"

// CloseGameMargin is the score margin at or under which a game counts as
// close for the games_close window family.
const CloseGameMargin = 5.0

// TeamSnapshot is one team's state as of a moment in time: its game logs
// newest first, possibly spanning seasons, plus point-in-time scalars
// (elo, rest_days, streak, ...) keyed by db_field.
type TeamSnapshot struct {
	Team   string    `json:"team"`
	Season int       `json:"season"`
	AsOf   time.Time `json:"as_of"`

	// Logs are ordered newest first. Entries from earlier seasons stay in
	// the slice so that season-spanning windows can be resolved.
	Logs []GameLog `json:"logs"`

	Scalars map[string]float64 `json:"scalars,omitempty"`
}

// Scalar looks up a point-in-time value by db_field.
func (s *TeamSnapshot) Scalar(field string) (float64, bool) {
	v, ok := s.Scalars[field]
	return v, ok
}

// SeasonLogs returns the logs belonging to the snapshot's current season.
func (s *TeamSnapshot) SeasonLogs() []GameLog {
	return s.filter(func(g *GameLog) bool { return g.Season == s.Season })
}

// LastN returns the most recent n logs.
func (s *TeamSnapshot) LastN(n int) []GameLog {
	if n > len(s.Logs) {
		n = len(s.Logs)
	}
	return s.Logs[:n]
}

// LastNClose returns the most recent n close games.
func (s *TeamSnapshot) LastNClose(n int) []GameLog {
	out := make([]GameLog, 0, n)
	for i := range s.Logs {
		if len(out) == n {
			break
		}
		g := s.Logs[i]
		if m := g.Margin(); m <= CloseGameMargin && m >= -CloseGameMargin {
			out = append(out, g)
		}
	}
	return out
}

// WithinDays returns the logs played within the n days before AsOf.
func (s *TeamSnapshot) WithinDays(n int) []GameLog {
	cutoff := s.AsOf.AddDate(0, 0, -n)
	return s.filter(func(g *GameLog) bool { return !g.Date.Before(cutoff) })
}

// LastSeasons returns the logs from the current and the previous n-1
// seasons.
func (s *TeamSnapshot) LastSeasons(n int) []GameLog {
	first := s.Season - n + 1
	return s.filter(func(g *GameLog) bool { return g.Season >= first })
}

// SideLogs returns the logs played on one side of the floor: home games
// when home is true, road games otherwise.
func (s *TeamSnapshot) SideLogs(home bool) []GameLog {
	return s.filter(func(g *GameLog) bool { return g.Home == home })
}

// VersusLogs returns the logs against one opponent, for head-to-head
// windows.
func (s *TeamSnapshot) VersusLogs(opponent string) []GameLog {
	return s.filter(func(g *GameLog) bool { return g.Opponent == opponent })
}

func (s *TeamSnapshot) filter(keep func(*GameLog) bool) []GameLog {
	var out []GameLog
	for i := range s.Logs {
		if keep(&s.Logs[i]) {
			out = append(out, s.Logs[i])
		}
	}
	return out
}
