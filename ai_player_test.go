package main

import (
	"testing"
	"time"
)

func waitForMove(t *testing.T, player *AIPlayer) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !player.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("search did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAIPlayerAsyncSearch(t *testing.T) {
	player := NewAIPlayer(DifficultyEasy, 42)
	state := DefaultGameState()
	state.Status = StatusRunning

	player.StartThinking(state)
	waitForMove(t, player)
	if player.IsThinking() {
		t.Fatalf("player should not report thinking once the move is ready")
	}

	move, err := player.TakeMove()
	if err != nil {
		t.Fatalf("TakeMove: %v", err)
	}
	if ok, reason := NewRules().IsLegal(&state, move); !ok {
		t.Fatalf("async search produced illegal move %s: %s", move, reason)
	}
	if player.HasMoveReady() {
		t.Fatalf("TakeMove should consume the pending move")
	}
}

func TestAIPlayerStopDiscardsResult(t *testing.T) {
	player := NewAIPlayer(DifficultyMedium, 1)
	state := DefaultGameState()
	state.Status = StatusRunning

	player.StartThinking(state)
	player.StopThinking()
	if player.IsThinking() || player.HasMoveReady() {
		t.Fatalf("stopped player should be idle with no pending move")
	}

	// The player is reusable after a stop.
	player.StartThinking(state)
	waitForMove(t, player)
	if _, err := player.TakeMove(); err != nil {
		t.Fatalf("TakeMove after restart: %v", err)
	}
}

func TestAIPlayerResetClearsCache(t *testing.T) {
	player := NewAIPlayer(DifficultyMedium, 1)
	state := DefaultGameState()
	state.Status = StatusRunning

	player.StartThinking(state)
	waitForMove(t, player)
	if _, err := player.TakeMove(); err != nil {
		t.Fatalf("TakeMove: %v", err)
	}
	if player.CacheSize() == 0 {
		t.Fatalf("the search should have filled the transposition table")
	}
	player.ResetForNewGame()
	if player.CacheSize() != 0 {
		t.Fatalf("reset should clear the transposition table, %d entries left", player.CacheSize())
	}
}
