package contracts

import "time"

// Matchup is one upcoming game that features are computed for.
type Matchup struct {
	GameID   string    `json:"game_id"`
	Season   int       `json:"season"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// Teams returns the home and away team codes in that order.
func (m *Matchup) Teams() (home, away string) {
	return m.HomeTeam, m.AwayTeam
}
