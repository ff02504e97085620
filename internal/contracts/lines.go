package contracts

import "time"

// GameLines is the latest betting market state for one game. Spread and
// moneylines are quoted from the home team's point of view.
type GameLines struct {
	GameID        string    `json:"game_id"`
	Spread        float64   `json:"spread"`
	Total         float64   `json:"total"`
	HomeMoneyline float64   `json:"home_moneyline"`
	AwayMoneyline float64   `json:"away_moneyline"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ImpliedProb converts an American moneyline into its implied win
// probability, vig included. A zero moneyline means no quote and yields 0.
func ImpliedProb(moneyline float64) float64 {
	switch {
	case moneyline < 0:
		return -moneyline / (-moneyline + 100)
	case moneyline > 0:
		return 100 / (moneyline + 100)
	default:
		return 0
	}
}

// HomeImpliedProb returns the home side's implied win probability.
func (l *GameLines) HomeImpliedProb() float64 {
	return ImpliedProb(l.HomeMoneyline)
}

// AwayImpliedProb returns the away side's implied win probability.
func (l *GameLines) AwayImpliedProb() float64 {
	return ImpliedProb(l.AwayMoneyline)
}
