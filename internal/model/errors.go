package model

import "errors"

var (
	ErrGameFull           = errors.New("game is full")
	ErrNotInGame          = errors.New("player not in game")
	ErrWaitingForOpponent = errors.New("waiting for opponent")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrGameOver           = errors.New("game is over")
	ErrIllegalMove        = errors.New("illegal move")
)
