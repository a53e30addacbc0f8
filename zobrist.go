package main

// ZobristTable holds the random keys used to hash positions. Chess has a
// fixed board so a single table is generated once at startup; the keys are
// derived from a fixed seed to keep hashes stable across runs.
type ZobristTable struct {
	pieces   [2][7][64]uint64
	side     uint64
	castling [16]uint64
	epFile   [8]uint64
}

var zobrist = newZobristTable()

func newZobristTable() *ZobristTable {
	rng := splitmix64{state: 0x9e3779b97f4a7c15}
	table := &ZobristTable{}
	for color := 0; color < 2; color++ {
		for kind := 1; kind < 7; kind++ {
			for sq := 0; sq < 64; sq++ {
				table.pieces[color][kind][sq] = rng.next()
			}
		}
	}
	table.side = rng.next()
	for i := range table.castling {
		table.castling[i] = rng.next()
	}
	for i := range table.epFile {
		table.epFile[i] = rng.next()
	}
	return table
}

func (z *ZobristTable) piece(piece Piece, sq Square) uint64 {
	return z.pieces[piece.Color][piece.Kind][sq.index()]
}

// ComputeHash hashes a position from scratch. Apply and Undo keep the hash
// incrementally; this is the reference they must agree with.
func ComputeHash(state *GameState) uint64 {
	var hash uint64
	for i, piece := range state.Board.squares {
		if piece.IsEmpty() {
			continue
		}
		hash ^= zobrist.pieces[piece.Color][piece.Kind][i]
	}
	if state.ToMove == ColorBlack {
		hash ^= zobrist.side
	}
	hash ^= zobrist.castling[state.Castling]
	if state.HasEnPassant {
		hash ^= zobrist.epFile[state.EnPassant.X]
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
