package main

import "testing"

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	state := DefaultGameState()
	config := DefaultConfig()
	white := EvaluateBoard(&state, ColorWhite, config)
	black := EvaluateBoard(&state, ColorBlack, config)
	if white != 0 || black != 0 {
		t.Fatalf("symmetric position should evaluate to 0, got white=%v black=%v", white, black)
	}
}

func TestEvaluateMaterialImbalance(t *testing.T) {
	board := NewBoard()
	board.Remove(Sq(3, 7)) // black queen off the board
	state := StateFromBoard(board, ColorWhite)
	config := DefaultConfig()

	white := EvaluateBoard(&state, ColorWhite, config)
	black := EvaluateBoard(&state, ColorBlack, config)
	if white <= 0 {
		t.Fatalf("a queen up should evaluate positive for white, got %v", white)
	}
	if black != -white {
		t.Fatalf("evaluation should negate with the side to move: white=%v black=%v", white, black)
	}
	if white < config.Heuristics.QueenValue/2 {
		t.Fatalf("a full queen advantage scored only %v", white)
	}
}

func TestEvaluateZeroConfigFallsBackToDefaults(t *testing.T) {
	board := NewBoard()
	board.Remove(Sq(3, 7))
	state := StateFromBoard(board, ColorWhite)

	withDefaults := EvaluateBoard(&state, ColorWhite, DefaultConfig())
	withZero := EvaluateBoard(&state, ColorWhite, Config{})
	if withDefaults != withZero {
		t.Fatalf("zero-value weights should fall back to the defaults: %v vs %v", withDefaults, withZero)
	}
}

func TestCenterControlIsRewarded(t *testing.T) {
	centered := BoardFromStrings([]string{
		".. .. .. .. BK .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. WN .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. WK .. .. ..",
	})
	cornered := BoardFromStrings([]string{
		".. .. .. .. BK .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		"WN .. .. .. WK .. .. ..",
	})
	config := DefaultConfig()
	centeredState := StateFromBoard(centered, ColorWhite)
	corneredState := StateFromBoard(cornered, ColorWhite)
	c := EvaluateBoard(&centeredState, ColorWhite, config)
	a := EvaluateBoard(&corneredState, ColorWhite, config)
	if c <= a {
		t.Fatalf("a centralized knight should outscore a cornered one: %v vs %v", c, a)
	}
}
