package contracts

import "time"

// GameLog is one team's row for one completed game. Stats is keyed by the
// catalog's db_field names; Points and PointsAllowed are lifted out because
// several derived stats need them directly.
type GameLog struct {
	GameID        string    `json:"game_id"`
	Season        int       `json:"season"`
	Date          time.Time `json:"date"`
	Team          string    `json:"team"`
	Opponent      string    `json:"opponent"`
	Home          bool      `json:"home"`
	Points        float64   `json:"points"`
	PointsAllowed float64   `json:"points_allowed"`

	Stats map[string]float64 `json:"stats,omitempty"`
}

// Margin returns the final score margin from this team's point of view.
func (g *GameLog) Margin() float64 {
	return g.Points - g.PointsAllowed
}

// Won reports whether this team won the game.
func (g *GameLog) Won() bool {
	return g.Points > g.PointsAllowed
}

// Stat looks up a stat value by db_field. The synthetic fields "pts",
// "margin", and "win" resolve from the score columns so that game logs do
// not have to carry them twice.
func (g *GameLog) Stat(field string) (float64, bool) {
	switch field {
	case "pts":
		return g.Points, true
	case "margin":
		return g.Margin(), true
	case "win":
		if g.Won() {
			return 1, true
		}
		return 0, true
	}
	v, ok := g.Stats[field]
	return v, ok
}
