package main

import "errors"

var (
	// ErrIllegalMove is returned when a submitted move is not legal in the
	// current position. The game state is left untouched.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMalformedMove is returned when a move string cannot be parsed.
	ErrMalformedMove = errors.New("malformed move")

	// ErrGameNotRunning is returned when a move or resignation is submitted
	// while no game is in progress.
	ErrGameNotRunning = errors.New("game is not running")

	// ErrNoLegalMoves is returned by the search when asked to pick a move in
	// a position that has none. Callers are expected to classify the position
	// as mate or stalemate before asking, so hitting this is a caller bug.
	ErrNoLegalMoves = errors.New("no legal moves in position")

	// ErrNotYourTurn is returned when a move arrives for the side that is
	// not on the move.
	ErrNotYourTurn = errors.New("not your turn")
)
