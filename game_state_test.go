package main

import "testing"

// playMoves applies each move in order, failing the test on a move the
// rules reject so a broken fixture is caught early.
func playMoves(t *testing.T, state *GameState, moves ...string) []UndoRecord {
	t.Helper()
	rules := NewRules()
	records := make([]UndoRecord, 0, len(moves))
	for _, notation := range moves {
		move, err := ParseMove(notation)
		if err != nil {
			t.Fatalf("bad move %q: %v", notation, err)
		}
		if ok, reason := rules.IsLegal(state, move); !ok {
			t.Fatalf("move %q rejected: %s", notation, reason)
		}
		records = append(records, state.Apply(move))
	}
	return records
}

func requireStateEquals(t *testing.T, got, want *GameState) {
	t.Helper()
	if got.Board != want.Board {
		t.Fatalf("board mismatch:\n%s\nwant:\n%s", got.Board.String(), want.Board.String())
	}
	if got.ToMove != want.ToMove {
		t.Fatalf("to-move = %v, want %v", got.ToMove, want.ToMove)
	}
	if got.Castling != want.Castling {
		t.Fatalf("castling = %04b, want %04b", got.Castling, want.Castling)
	}
	if got.HasEnPassant != want.HasEnPassant || (got.HasEnPassant && !got.EnPassant.Equals(want.EnPassant)) {
		t.Fatalf("en passant = %v/%v, want %v/%v", got.HasEnPassant, got.EnPassant, want.HasEnPassant, want.EnPassant)
	}
	if got.HalfmoveClock != want.HalfmoveClock {
		t.Fatalf("halfmove clock = %d, want %d", got.HalfmoveClock, want.HalfmoveClock)
	}
	if got.FullmoveNumber != want.FullmoveNumber {
		t.Fatalf("fullmove number = %d, want %d", got.FullmoveNumber, want.FullmoveNumber)
	}
	if got.Hash != want.Hash {
		t.Fatalf("hash = %x, want %x", got.Hash, want.Hash)
	}
	if len(got.CapturedByWhite) != len(want.CapturedByWhite) || len(got.CapturedByBlack) != len(want.CapturedByBlack) {
		t.Fatalf("captured lists = %d/%d, want %d/%d",
			len(got.CapturedByWhite), len(got.CapturedByBlack),
			len(want.CapturedByWhite), len(want.CapturedByBlack))
	}
}

func TestApplyUndoRestoresStartingPosition(t *testing.T) {
	state := DefaultGameState()
	initial := state.Clone()

	records := playMoves(t, &state, "e2e4")
	if state.ToMove != ColorBlack {
		t.Fatalf("to-move after e2e4 = %v, want black", state.ToMove)
	}
	if !state.HasEnPassant || !state.EnPassant.Equals(Sq(4, 2)) {
		t.Fatalf("double push should set the en passant square to e3, got %v/%v", state.HasEnPassant, state.EnPassant)
	}
	if state.HalfmoveClock != 0 {
		t.Fatalf("pawn move should reset the halfmove clock, got %d", state.HalfmoveClock)
	}

	state.Undo(records[0])
	requireStateEquals(t, &state, &initial)
}

func TestApplyKeepsHashIncremental(t *testing.T) {
	state := DefaultGameState()
	for _, notation := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1"} {
		playMoves(t, &state, notation)
		if recomputed := ComputeHash(&state); state.Hash != recomputed {
			t.Fatalf("incremental hash diverged after %s: %x, full recompute %x", notation, state.Hash, recomputed)
		}
	}
}

func TestApplyUndoCapture(t *testing.T) {
	state := DefaultGameState()
	playMoves(t, &state, "e2e4", "d7d5")
	before := state.Clone()

	records := playMoves(t, &state, "e4d5")
	if len(state.CapturedByWhite) != 1 || !state.CapturedByWhite[0].Is(ColorBlack, KindPawn) {
		t.Fatalf("white should have captured one black pawn, got %v", state.CapturedByWhite)
	}
	if !records[0].IsCapture() {
		t.Fatalf("record should flag the capture")
	}

	state.Undo(records[0])
	requireStateEquals(t, &state, &before)
}

func TestApplyUndoEnPassant(t *testing.T) {
	state := DefaultGameState()
	playMoves(t, &state, "e2e4", "a7a6", "e4e5", "d7d5")
	if !state.HasEnPassant || !state.EnPassant.Equals(Sq(3, 5)) {
		t.Fatalf("en passant square after d7d5 = %v/%v, want d6", state.HasEnPassant, state.EnPassant)
	}
	before := state.Clone()

	records := playMoves(t, &state, "e5d6")
	if !state.Board.At(Sq(3, 4)).IsEmpty() {
		t.Fatalf("the pawn on d5 should be gone after the en passant capture")
	}
	if !state.Board.At(Sq(3, 5)).Is(ColorWhite, KindPawn) {
		t.Fatalf("the capturing pawn should land on d6")
	}
	if !records[0].Captured.Is(ColorBlack, KindPawn) || !records[0].CapturedSquare.Equals(Sq(3, 4)) {
		t.Fatalf("record should capture the d5 pawn, got %v on %v", records[0].Captured, records[0].CapturedSquare)
	}

	state.Undo(records[0])
	requireStateEquals(t, &state, &before)
}

func TestApplyUndoCastling(t *testing.T) {
	board := BoardFromStrings([]string{
		".. .. .. .. BK .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		"WR .. .. .. WK .. .. WR",
	})
	state := StateFromBoard(board, ColorWhite)
	if state.Castling&(CastleWhiteKingside|CastleWhiteQueenside) != CastleWhiteKingside|CastleWhiteQueenside {
		t.Fatalf("fixture should grant both white rights, got %04b", state.Castling)
	}
	before := state.Clone()

	records := playMoves(t, &state, "e1g1")
	if !state.Board.At(Sq(6, 0)).Is(ColorWhite, KindKing) || !state.Board.At(Sq(5, 0)).Is(ColorWhite, KindRook) {
		t.Fatalf("kingside castle should put the king on g1 and the rook on f1:\n%s", state.Board.String())
	}
	if state.Castling&(CastleWhiteKingside|CastleWhiteQueenside) != 0 {
		t.Fatalf("castling should clear both white rights, got %04b", state.Castling)
	}
	if recomputed := ComputeHash(&state); state.Hash != recomputed {
		t.Fatalf("hash diverged after castling: %x, full recompute %x", state.Hash, recomputed)
	}
	state.Undo(records[0])
	requireStateEquals(t, &state, &before)

	records = playMoves(t, &state, "e1c1")
	if !state.Board.At(Sq(2, 0)).Is(ColorWhite, KindKing) || !state.Board.At(Sq(3, 0)).Is(ColorWhite, KindRook) {
		t.Fatalf("queenside castle should put the king on c1 and the rook on d1:\n%s", state.Board.String())
	}
	state.Undo(records[0])
	requireStateEquals(t, &state, &before)
}

func TestApplyUndoPromotion(t *testing.T) {
	board := BoardFromStrings([]string{
		".. .. .. .. BK .. .. ..",
		"WP .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. WK .. .. ..",
	})
	state := StateFromBoard(board, ColorWhite)
	before := state.Clone()

	records := playMoves(t, &state, "a7a8q")
	if !state.Board.At(Sq(0, 7)).Is(ColorWhite, KindQueen) {
		t.Fatalf("promotion should leave a white queen on a8, got %v", state.Board.At(Sq(0, 7)))
	}
	if recomputed := ComputeHash(&state); state.Hash != recomputed {
		t.Fatalf("hash diverged after promotion: %x, full recompute %x", state.Hash, recomputed)
	}

	state.Undo(records[0])
	requireStateEquals(t, &state, &before)
	if !state.Board.At(Sq(0, 6)).Is(ColorWhite, KindPawn) {
		t.Fatalf("undo should restore the pawn on a7")
	}
}

func TestCastlingRightsClearing(t *testing.T) {
	state := DefaultGameState()
	playMoves(t, &state, "e2e4", "e7e5", "e1e2")
	if state.Castling&(CastleWhiteKingside|CastleWhiteQueenside) != 0 {
		t.Fatalf("king move should clear both white rights, got %04b", state.Castling)
	}
	if state.Castling&(CastleBlackKingside|CastleBlackQueenside) != CastleBlackKingside|CastleBlackQueenside {
		t.Fatalf("black rights should be untouched, got %04b", state.Castling)
	}

	state = DefaultGameState()
	playMoves(t, &state, "h2h4", "h7h5", "h1h3")
	if state.Castling&CastleWhiteKingside != 0 {
		t.Fatalf("h1 rook move should clear white kingside, got %04b", state.Castling)
	}
	if state.Castling&CastleWhiteQueenside == 0 {
		t.Fatalf("h1 rook move should keep white queenside, got %04b", state.Castling)
	}

	// A capture on the rook's home square drops the right as well.
	board := BoardFromStrings([]string{
		"BR .. .. .. BK .. .. BR",
		"BP .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. WB",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. WK .. .. ..",
	})
	state = StateFromBoard(board, ColorWhite)
	playMoves(t, &state, "h6g7", "a7a6", "g7h8")
	if state.Castling&CastleBlackKingside != 0 {
		t.Fatalf("capture on h8 should clear black kingside, got %04b", state.Castling)
	}
	if state.Castling&CastleBlackQueenside == 0 {
		t.Fatalf("capture on h8 should keep black queenside, got %04b", state.Castling)
	}
}

func TestHalfmoveAndFullmoveCounters(t *testing.T) {
	state := DefaultGameState()
	playMoves(t, &state, "g1f3")
	if state.HalfmoveClock != 1 || state.FullmoveNumber != 1 {
		t.Fatalf("after Nf3: clock=%d fullmove=%d, want 1 and 1", state.HalfmoveClock, state.FullmoveNumber)
	}
	playMoves(t, &state, "g8f6")
	if state.HalfmoveClock != 2 || state.FullmoveNumber != 2 {
		t.Fatalf("after Nf6: clock=%d fullmove=%d, want 2 and 2", state.HalfmoveClock, state.FullmoveNumber)
	}
	playMoves(t, &state, "e2e4")
	if state.HalfmoveClock != 0 {
		t.Fatalf("pawn move should reset the clock, got %d", state.HalfmoveClock)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	state := DefaultGameState()
	playMoves(t, &state, "e2e4", "d7d5", "e4d5")

	clone := state.Clone()
	playMoves(t, &clone, "d8d5")
	if len(state.CapturedByBlack) != 0 {
		t.Fatalf("mutating the clone leaked into the original captured list")
	}
	if state.Board == clone.Board {
		t.Fatalf("clone board should have diverged from the original")
	}
}
