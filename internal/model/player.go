package model

import "github.com/benbeisheim/duelchess/internal/engine"

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func playerColor(c engine.Color) PlayerColor {
	if c == engine.White {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

// ClientPlayer is a seat as the client sees it. TimeLeft is in tenths of a
// second and stays zero when clocks are off.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}
