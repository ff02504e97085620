package contracts

import "time"

// GamePrediction is the model output of a previous run for one game, fed
// back as an input feature. WinProb and Margin are from the home team's
// point of view.
type GamePrediction struct {
	GameID      string    `json:"game_id"`
	WinProb     float64   `json:"win_prob"`
	Margin      float64   `json:"margin"`
	GeneratedAt time.Time `json:"generated_at"`
}
