package main

import "testing"

func TestComputeHashIsDeterministic(t *testing.T) {
	a := DefaultGameState()
	b := DefaultGameState()
	if a.Hash == 0 {
		t.Fatalf("starting position should not hash to zero")
	}
	if a.Hash != b.Hash {
		t.Fatalf("identical states hashed differently: %x vs %x", a.Hash, b.Hash)
	}
}

func TestHashCoversSideToMove(t *testing.T) {
	state := DefaultGameState()
	white := ComputeHash(&state)
	state.ToMove = ColorBlack
	if black := ComputeHash(&state); black == white {
		t.Fatalf("side to move should change the hash")
	}
}

func TestHashCoversCastlingRights(t *testing.T) {
	state := DefaultGameState()
	full := ComputeHash(&state)
	state.Castling &^= CastleWhiteKingside
	if partial := ComputeHash(&state); partial == full {
		t.Fatalf("dropping a castling right should change the hash")
	}
}

func TestHashCoversEnPassantFile(t *testing.T) {
	state := DefaultGameState()
	none := ComputeHash(&state)
	state.HasEnPassant = true
	state.EnPassant = Sq(4, 2)
	withEP := ComputeHash(&state)
	if withEP == none {
		t.Fatalf("an en passant square should change the hash")
	}
	state.EnPassant = Sq(3, 2)
	if other := ComputeHash(&state); other == withEP {
		t.Fatalf("different en passant files should hash differently")
	}
}

func TestTranspositionsHashEqual(t *testing.T) {
	a := DefaultGameState()
	playMoves(t, &a, "g1f3", "g8f6", "b1c3")
	b := DefaultGameState()
	playMoves(t, &b, "b1c3", "g8f6", "g1f3")

	if a.Board != b.Board {
		t.Fatalf("move orders should transpose into the same position")
	}
	if a.Hash != b.Hash {
		t.Fatalf("transposed positions hashed differently: %x vs %x", a.Hash, b.Hash)
	}

	c := DefaultGameState()
	playMoves(t, &c, "g1f3", "g8f6", "b1c3", "b8c6")
	if c.Hash == a.Hash {
		t.Fatalf("an extra move should not hash to the same value")
	}
}
