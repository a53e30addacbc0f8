package main

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusWhiteWon
	StatusBlackWon
	StatusDraw
)

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeCheckmate
	OutcomeStalemate
	OutcomeInsufficientMaterial
	OutcomeFiftyMoveRule
	OutcomeThreefoldRepetition
	OutcomeResignation
)

// Outcome describes how a finished game ended. Winner is only meaningful
// for checkmate and resignation; every other kind is a draw.
type Outcome struct {
	Kind   OutcomeKind
	Winner Color
}

func (o Outcome) IsDraw() bool {
	switch o.Kind {
	case OutcomeStalemate, OutcomeInsufficientMaterial, OutcomeFiftyMoveRule, OutcomeThreefoldRepetition:
		return true
	}
	return false
}

func (o OutcomeKind) String() string {
	switch o {
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeInsufficientMaterial:
		return "insufficient_material"
	case OutcomeFiftyMoveRule:
		return "fifty_move_rule"
	case OutcomeThreefoldRepetition:
		return "threefold_repetition"
	case OutcomeResignation:
		return "resignation"
	default:
		return "none"
	}
}

// CastleRights is a bitmask of the four castling permissions still open.
type CastleRights uint8

const (
	CastleWhiteKingside CastleRights = 1 << iota
	CastleWhiteQueenside
	CastleBlackKingside
	CastleBlackQueenside

	CastleAll = CastleWhiteKingside | CastleWhiteQueenside | CastleBlackKingside | CastleBlackQueenside
)

type GameState struct {
	Board           Board
	ToMove          Color
	Status          GameStatus
	Outcome         Outcome
	Castling        CastleRights
	EnPassant       Square
	HasEnPassant    bool
	HalfmoveClock   int
	FullmoveNumber  int
	Hash            uint64
	HasLastMove     bool
	LastMove        Move
	CapturedByWhite []Piece
	CapturedByBlack []Piece
}

func DefaultGameState() GameState {
	state := GameState{}
	state.Reset()
	return state
}

func (s *GameState) Reset() {
	s.Board = NewBoard()
	s.ToMove = ColorWhite
	s.Status = StatusNotStarted
	s.Outcome = Outcome{}
	s.Castling = CastleAll
	s.EnPassant = Square{}
	s.HasEnPassant = false
	s.HalfmoveClock = 0
	s.FullmoveNumber = 1
	s.HasLastMove = false
	s.LastMove = Move{}
	s.CapturedByWhite = nil
	s.CapturedByBlack = nil
	s.Hash = ComputeHash(s)
}

// StateFromBoard builds a playable state around an arbitrary board position.
// Castling rights are granted wherever the king and matching rook still sit
// on their home squares. Mostly used by tests and position setup.
func StateFromBoard(board Board, toMove Color) GameState {
	state := GameState{
		Board:          board,
		ToMove:         toMove,
		Status:         StatusRunning,
		FullmoveNumber: 1,
	}
	if board.At(Sq(4, 0)).Is(ColorWhite, KindKing) {
		if board.At(Sq(7, 0)).Is(ColorWhite, KindRook) {
			state.Castling |= CastleWhiteKingside
		}
		if board.At(Sq(0, 0)).Is(ColorWhite, KindRook) {
			state.Castling |= CastleWhiteQueenside
		}
	}
	if board.At(Sq(4, 7)).Is(ColorBlack, KindKing) {
		if board.At(Sq(7, 7)).Is(ColorBlack, KindRook) {
			state.Castling |= CastleBlackKingside
		}
		if board.At(Sq(0, 7)).Is(ColorBlack, KindRook) {
			state.Castling |= CastleBlackQueenside
		}
	}
	state.Hash = ComputeHash(&state)
	return state
}

func (s GameState) Clone() GameState {
	clone := s
	clone.CapturedByWhite = append([]Piece(nil), s.CapturedByWhite...)
	clone.CapturedByBlack = append([]Piece(nil), s.CapturedByBlack...)
	return clone
}

// UndoRecord captures everything Apply changed so Undo can restore the
// position exactly, hash included.
type UndoRecord struct {
	Move           Move
	Moved          Piece
	Captured       Piece
	CapturedSquare Square
	Castling       CastleRights
	EnPassant      Square
	HasEnPassant   bool
	HalfmoveClock  int
	Hash           uint64
	HasLastMove    bool
	LastMove       Move
}

func (u UndoRecord) IsCapture() bool {
	return !u.Captured.IsEmpty()
}

// Apply plays a move assumed to be legal and returns the record needed to
// undo it. Legality is the caller's responsibility; Apply only panics when
// the board contradicts the move outright, which indicates corrupted state.
func (s *GameState) Apply(move Move) UndoRecord {
	piece := s.Board.At(move.From)
	if piece.IsEmpty() || piece.Color != s.ToMove {
		panic("inconsistent board state: applying " + move.String() + " for " + s.ToMove.String())
	}

	record := UndoRecord{
		Move:          move,
		Moved:         piece,
		Castling:      s.Castling,
		EnPassant:     s.EnPassant,
		HasEnPassant:  s.HasEnPassant,
		HalfmoveClock: s.HalfmoveClock,
		Hash:          s.Hash,
		HasLastMove:   s.HasLastMove,
		LastMove:      s.LastMove,
	}

	hash := s.Hash
	hash ^= zobrist.castling[s.Castling]
	if s.HasEnPassant {
		hash ^= zobrist.epFile[s.EnPassant.X]
	}

	captured := s.Board.At(move.To)
	capturedSquare := move.To
	if piece.Kind == KindPawn && s.HasEnPassant && move.To.Equals(s.EnPassant) && captured.IsEmpty() {
		capturedSquare = Sq(move.To.X, move.From.Y)
		captured = s.Board.At(capturedSquare)
	}
	record.Captured = captured
	record.CapturedSquare = capturedSquare

	if !captured.IsEmpty() {
		hash ^= zobrist.piece(captured, capturedSquare)
		s.Board.Remove(capturedSquare)
		if piece.Color == ColorWhite {
			s.CapturedByWhite = append(s.CapturedByWhite, captured)
		} else {
			s.CapturedByBlack = append(s.CapturedByBlack, captured)
		}
	}

	placed := piece
	if move.IsPromotion() {
		placed.Kind = move.Promotion
	}
	hash ^= zobrist.piece(piece, move.From)
	hash ^= zobrist.piece(placed, move.To)
	s.Board.Remove(move.From)
	s.Board.Set(move.To, placed)

	// Castling moves the rook alongside the king.
	if piece.Kind == KindKing && abs(move.To.X-move.From.X) == 2 {
		rookFrom, rookTo := castleRookSquares(move)
		rook := s.Board.At(rookFrom)
		hash ^= zobrist.piece(rook, rookFrom)
		hash ^= zobrist.piece(rook, rookTo)
		s.Board.Remove(rookFrom)
		s.Board.Set(rookTo, rook)
	}

	s.Castling &^= castlingClearedBy(move.From)
	s.Castling &^= castlingClearedBy(move.To)

	s.HasEnPassant = false
	if piece.Kind == KindPawn && abs(move.To.Y-move.From.Y) == 2 {
		s.EnPassant = Sq(move.From.X, (move.From.Y+move.To.Y)/2)
		s.HasEnPassant = true
	}

	if piece.Kind == KindPawn || !captured.IsEmpty() {
		s.HalfmoveClock = 0
	} else {
		s.HalfmoveClock++
	}
	if piece.Color == ColorBlack {
		s.FullmoveNumber++
	}

	s.HasLastMove = true
	s.LastMove = move
	s.ToMove = s.ToMove.Other()

	hash ^= zobrist.castling[s.Castling]
	if s.HasEnPassant {
		hash ^= zobrist.epFile[s.EnPassant.X]
	}
	hash ^= zobrist.side
	s.Hash = hash

	return record
}

// Undo restores the position as it was before the recorded move.
func (s *GameState) Undo(record UndoRecord) {
	move := record.Move

	s.Board.Remove(move.To)
	s.Board.Set(move.From, record.Moved)
	if !record.Captured.IsEmpty() {
		s.Board.Set(record.CapturedSquare, record.Captured)
		if record.Moved.Color == ColorWhite {
			s.CapturedByWhite = s.CapturedByWhite[:len(s.CapturedByWhite)-1]
		} else {
			s.CapturedByBlack = s.CapturedByBlack[:len(s.CapturedByBlack)-1]
		}
	}
	if record.Moved.Kind == KindKing && abs(move.To.X-move.From.X) == 2 {
		rookFrom, rookTo := castleRookSquares(move)
		rook := s.Board.At(rookTo)
		s.Board.Remove(rookTo)
		s.Board.Set(rookFrom, rook)
	}

	s.Castling = record.Castling
	s.EnPassant = record.EnPassant
	s.HasEnPassant = record.HasEnPassant
	s.HalfmoveClock = record.HalfmoveClock
	s.Hash = record.Hash
	s.HasLastMove = record.HasLastMove
	s.LastMove = record.LastMove
	if record.Moved.Color == ColorBlack {
		s.FullmoveNumber--
	}
	s.ToMove = record.Moved.Color
}

// castleRookSquares maps a two-square king move to the rook's travel.
func castleRookSquares(kingMove Move) (from, to Square) {
	rank := kingMove.From.Y
	if kingMove.To.X > kingMove.From.X {
		return Sq(7, rank), Sq(5, rank)
	}
	return Sq(0, rank), Sq(3, rank)
}

// castlingClearedBy returns the rights lost when a piece leaves or a
// capture lands on the given square. Covers the king and rook home squares;
// anything else clears nothing.
func castlingClearedBy(sq Square) CastleRights {
	switch {
	case sq.Equals(Sq(4, 0)):
		return CastleWhiteKingside | CastleWhiteQueenside
	case sq.Equals(Sq(7, 0)):
		return CastleWhiteKingside
	case sq.Equals(Sq(0, 0)):
		return CastleWhiteQueenside
	case sq.Equals(Sq(4, 7)):
		return CastleBlackKingside | CastleBlackQueenside
	case sq.Equals(Sq(7, 7)):
		return CastleBlackKingside
	case sq.Equals(Sq(0, 7)):
		return CastleBlackQueenside
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
