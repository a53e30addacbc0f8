package main

import (
	"errors"
	"testing"
)

func humanVsHuman() GameSettings {
	return GameSettings{WhiteType: PlayerHuman, BlackType: PlayerHuman, Difficulty: DifficultyMedium}
}

func mustMove(t *testing.T, notation string) Move {
	t.Helper()
	move, err := ParseMove(notation)
	if err != nil {
		t.Fatalf("bad move %q: %v", notation, err)
	}
	return move
}

func TestGameLifecycle(t *testing.T) {
	game := NewGame(humanVsHuman())
	if game.State().Status != StatusNotStarted {
		t.Fatalf("fresh game status = %v, want not started", game.State().Status)
	}
	if err := game.TryApplyMove(mustMove(t, "e2e4")); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("move before Start should fail with ErrGameNotRunning, got %v", err)
	}

	game.Start()
	if err := game.TryApplyMove(mustMove(t, "e2e4")); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	state := game.State()
	if state.Status != StatusRunning || state.ToMove != ColorBlack {
		t.Fatalf("after e2e4: status=%v to-move=%v", state.Status, state.ToMove)
	}

	history := game.History()
	if history.Size() != 1 {
		t.Fatalf("history size = %d, want 1", history.Size())
	}
	if got := history.All()[0].Notation; got != "e2e4" {
		t.Fatalf("notation = %q, want %q", got, "e2e4")
	}
}

func TestIllegalMoveLeavesGameUntouched(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()
	before := game.State()

	err := game.TryApplyMove(mustMove(t, "e2e5"))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("triple pawn push should wrap ErrIllegalMove, got %v", err)
	}
	after := game.State()
	if after.Hash != before.Hash || after.ToMove != before.ToMove {
		t.Fatalf("rejected move changed the position")
	}
	if game.History().Size() != 0 {
		t.Fatalf("rejected move reached the history")
	}
}

func TestCheckmateFinishesGame(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()
	for _, notation := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if err := game.TryApplyMove(mustMove(t, notation)); err != nil {
			t.Fatalf("%s: %v", notation, err)
		}
	}

	state := game.State()
	if state.Status != StatusBlackWon {
		t.Fatalf("status after the mate = %v, want black won", state.Status)
	}
	if state.Outcome.Kind != OutcomeCheckmate || state.Outcome.Winner != ColorBlack {
		t.Fatalf("outcome = %+v, want checkmate by black", state.Outcome)
	}

	entries := game.History().All()
	if got := entries[len(entries)-1].Notation; got != "Qd8h4#" {
		t.Fatalf("mating move notation = %q, want %q", got, "Qd8h4#")
	}
	if err := game.TryApplyMove(mustMove(t, "e2e4")); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("moves after the mate should fail with ErrGameNotRunning, got %v", err)
	}
}

func TestCaptureNotationAndTally(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()
	for _, notation := range []string{"e2e4", "d7d5", "e4d5"} {
		if err := game.TryApplyMove(mustMove(t, notation)); err != nil {
			t.Fatalf("%s: %v", notation, err)
		}
	}
	entries := game.History().All()
	if got := entries[2].Notation; got != "e4xd5" {
		t.Fatalf("capture notation = %q, want %q", got, "e4xd5")
	}
	state := game.State()
	if len(state.CapturedByWhite) != 1 || !state.CapturedByWhite[0].Is(ColorBlack, KindPawn) {
		t.Fatalf("captured tally = %v", state.CapturedByWhite)
	}
}

func TestThreefoldRepetitionEndsInDraw(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for round := 0; round < 2; round++ {
		for _, notation := range shuffle {
			if err := game.TryApplyMove(mustMove(t, notation)); err != nil {
				t.Fatalf("round %d, %s: %v", round, notation, err)
			}
		}
	}

	state := game.State()
	if state.Status != StatusDraw {
		t.Fatalf("status = %v, want draw", state.Status)
	}
	if state.Outcome.Kind != OutcomeThreefoldRepetition {
		t.Fatalf("outcome = %v, want threefold repetition", state.Outcome.Kind)
	}
}

func TestResignation(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()
	if err := game.Resign(ColorWhite); err != nil {
		t.Fatalf("resign: %v", err)
	}
	state := game.State()
	if state.Status != StatusBlackWon {
		t.Fatalf("status = %v, want black won", state.Status)
	}
	if state.Outcome.Kind != OutcomeResignation || state.Outcome.Winner != ColorBlack {
		t.Fatalf("outcome = %+v, want resignation in black's favor", state.Outcome)
	}
	if err := game.Resign(ColorBlack); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("second resign should fail with ErrGameNotRunning, got %v", err)
	}
}

func TestTickAppliesPendingHumanMove(t *testing.T) {
	game := NewGame(humanVsHuman())
	game.Start()

	if err := game.SubmitHumanMove(mustMove(t, "e2e4")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !game.Tick() {
		t.Fatalf("tick should apply the queued move")
	}
	if game.State().ToMove != ColorBlack {
		t.Fatalf("turn should have passed to black")
	}
	if game.Tick() {
		t.Fatalf("tick with nothing queued should be a no-op")
	}
}

func TestControllerRejectsOutOfTurnMoves(t *testing.T) {
	controller := NewGameController(DefaultGameSettings())
	if err := controller.SubmitMove(mustMove(t, "e2e4")); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("submit before start should fail with ErrGameNotRunning, got %v", err)
	}

	controller.StartGame(DefaultGameSettings())
	if err := controller.SubmitMove(mustMove(t, "e2e4")); err != nil {
		t.Fatalf("white human move: %v", err)
	}
	// Black is the AI in the default settings.
	if err := controller.SubmitMove(mustMove(t, "e7e5")); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("submit on the AI's turn should fail with ErrNotYourTurn, got %v", err)
	}
	if err := controller.Resign(ColorWhite); err != nil {
		t.Fatalf("resign: %v", err)
	}
	if controller.State().Status != StatusBlackWon {
		t.Fatalf("status = %v, want black won", controller.State().Status)
	}
}

func TestLegalMovesOnlyWhileRunning(t *testing.T) {
	game := NewGame(humanVsHuman())
	if game.LegalMoves() != nil {
		t.Fatalf("no legal moves before the game starts")
	}
	game.Start()
	if got := len(game.LegalMoves()); got != 20 {
		t.Fatalf("legal moves = %d, want 20", got)
	}
	if got := len(game.LegalMovesFrom(Sq(4, 1))); got != 2 {
		t.Fatalf("moves from e2 = %d, want 2", got)
	}
}
