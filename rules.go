package main

// Rules implements move generation and position classification. It is a
// stateless value; every method takes the position it operates on.
type Rules struct{}

func NewRules() Rules {
	return Rules{}
}

// promotionKinds is the order promotion moves are generated in, which also
// fixes the deterministic tie-break order inside the search.
var promotionKinds = [4]PieceKind{KindQueen, KindRook, KindBishop, KindKnight}

// PseudoLegalMoves generates every move that follows the piece movement
// rules, ignoring whether it leaves the mover's own king in check. Squares
// are scanned a1 through h8 so the output order is deterministic.
func (r Rules) PseudoLegalMoves(state *GameState) []Move {
	moves := make([]Move, 0, 48)
	for i := range state.Board.squares {
		from := Sq(i%8, i/8)
		piece := state.Board.At(from)
		if piece.IsEmpty() || piece.Color != state.ToMove {
			continue
		}
		moves = r.pieceMovesInto(state, from, piece, moves)
	}
	return moves
}

// LegalMoves filters the pseudo-legal moves down to those that do not leave
// the mover's own king attacked.
func (r Rules) LegalMoves(state *GameState) []Move {
	pseudo := r.PseudoLegalMoves(state)
	legal := pseudo[:0]
	for _, move := range pseudo {
		if r.keepsKingSafe(state, move) {
			legal = append(legal, move)
		}
	}
	return legal
}

// LegalMovesFrom returns the legal moves of the piece on the given square,
// or nil if there is no piece of the side to move there.
func (r Rules) LegalMovesFrom(state *GameState, from Square) []Move {
	piece := state.Board.At(from)
	if piece.IsEmpty() || piece.Color != state.ToMove {
		return nil
	}
	pseudo := r.pieceMovesInto(state, from, piece, nil)
	legal := pseudo[:0]
	for _, move := range pseudo {
		if r.keepsKingSafe(state, move) {
			legal = append(legal, move)
		}
	}
	return legal
}

// IsLegal reports whether the move is legal for the side to move, with a
// short reason when it is not.
func (r Rules) IsLegal(state *GameState, move Move) (bool, string) {
	if !move.From.InBounds() || !move.To.InBounds() {
		return false, "out of bounds"
	}
	piece := state.Board.At(move.From)
	if piece.IsEmpty() {
		return false, "no piece on source square"
	}
	if piece.Color != state.ToMove {
		return false, "piece belongs to the opponent"
	}
	for _, candidate := range r.LegalMovesFrom(state, move.From) {
		if candidate == move {
			return true, ""
		}
	}
	return false, "move is not legal in this position"
}

// IsInCheck reports whether the given color's king is attacked.
func (r Rules) IsInCheck(state *GameState, color Color) bool {
	king, ok := state.Board.KingSquare(color)
	if !ok {
		panic("inconsistent board state: no " + color.String() + " king")
	}
	return state.Board.IsSquareAttacked(king, color.Other())
}

// Classify inspects a position and reports how the game ends there, if it
// does. repetitions is how many times the current position has occurred
// over the game, the current occurrence included.
func (r Rules) Classify(state *GameState, repetitions int) Outcome {
	if len(r.LegalMoves(state)) == 0 {
		if r.IsInCheck(state, state.ToMove) {
			return Outcome{Kind: OutcomeCheckmate, Winner: state.ToMove.Other()}
		}
		return Outcome{Kind: OutcomeStalemate}
	}
	if r.HasInsufficientMaterial(state.Board) {
		return Outcome{Kind: OutcomeInsufficientMaterial}
	}
	if state.HalfmoveClock >= 100 {
		return Outcome{Kind: OutcomeFiftyMoveRule}
	}
	if repetitions >= 3 {
		return Outcome{Kind: OutcomeThreefoldRepetition}
	}
	return Outcome{}
}

// HasInsufficientMaterial reports whether neither side can possibly deliver
// mate: bare kings, or king and a single minor piece against a bare king.
func (r Rules) HasInsufficientMaterial(board Board) bool {
	minors := 0
	for _, piece := range board.squares {
		switch piece.Kind {
		case KindNone, KindKing:
		case KindBishop, KindKnight:
			minors++
			if minors > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (r Rules) keepsKingSafe(state *GameState, move Move) bool {
	mover := state.ToMove
	record := state.Apply(move)
	safe := !r.IsInCheck(state, mover)
	state.Undo(record)
	return safe
}

func (r Rules) pieceMovesInto(state *GameState, from Square, piece Piece, moves []Move) []Move {
	switch piece.Kind {
	case KindPawn:
		return r.pawnMoves(state, from, piece.Color, moves)
	case KindKnight:
		return r.stepMoves(state, from, piece.Color, knightDeltas[:], moves)
	case KindBishop:
		return r.rayMoves(state, from, piece.Color, bishopRays[:], moves)
	case KindRook:
		return r.rayMoves(state, from, piece.Color, rookRays[:], moves)
	case KindQueen:
		moves = r.rayMoves(state, from, piece.Color, rookRays[:], moves)
		return r.rayMoves(state, from, piece.Color, bishopRays[:], moves)
	case KindKing:
		moves = r.stepMoves(state, from, piece.Color, kingDeltas[:], moves)
		return r.castleMoves(state, from, piece.Color, moves)
	}
	return moves
}

func (r Rules) pawnMoves(state *GameState, from Square, color Color, moves []Move) []Move {
	dir := color.Direction()
	startRank := 1
	if color == ColorBlack {
		startRank = 6
	}

	forward := Sq(from.X, from.Y+dir)
	if forward.InBounds() && state.Board.At(forward).IsEmpty() {
		moves = appendPawnMove(moves, from, forward, color)
		double := Sq(from.X, from.Y+2*dir)
		if from.Y == startRank && state.Board.At(double).IsEmpty() {
			moves = append(moves, Move{From: from, To: double})
		}
	}
	for _, dx := range [2]int{-1, 1} {
		to := Sq(from.X+dx, from.Y+dir)
		if !to.InBounds() {
			continue
		}
		target := state.Board.At(to)
		if !target.IsEmpty() && target.Color != color {
			moves = appendPawnMove(moves, from, to, color)
			continue
		}
		if target.IsEmpty() && state.HasEnPassant && to.Equals(state.EnPassant) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// appendPawnMove expands a pawn move reaching the last rank into one move
// per promotion kind.
func appendPawnMove(moves []Move, from, to Square, color Color) []Move {
	lastRank := 7
	if color == ColorBlack {
		lastRank = 0
	}
	if to.Y != lastRank {
		return append(moves, Move{From: from, To: to})
	}
	for _, kind := range promotionKinds {
		moves = append(moves, Move{From: from, To: to, Promotion: kind})
	}
	return moves
}

func (r Rules) stepMoves(state *GameState, from Square, color Color, deltas [][2]int, moves []Move) []Move {
	for _, delta := range deltas {
		to := Sq(from.X+delta[0], from.Y+delta[1])
		if !to.InBounds() {
			continue
		}
		target := state.Board.At(to)
		if target.IsEmpty() || target.Color != color {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (r Rules) rayMoves(state *GameState, from Square, color Color, rays [][2]int, moves []Move) []Move {
	for _, ray := range rays {
		x := from.X + ray[0]
		y := from.Y + ray[1]
		for x >= 0 && x < 8 && y >= 0 && y < 8 {
			to := Sq(x, y)
			target := state.Board.At(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				x += ray[0]
				y += ray[1]
				continue
			}
			if target.Color != color {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

// castleMoves generates castling when the rights are intact, the squares
// between king and rook are empty, and the king neither stands in check nor
// crosses an attacked square. The landing square is re-checked by the
// self-check filter but rejecting it here keeps the move count honest.
func (r Rules) castleMoves(state *GameState, from Square, color Color, moves []Move) []Move {
	rank := 0
	kingside, queenside := CastleWhiteKingside, CastleWhiteQueenside
	if color == ColorBlack {
		rank = 7
		kingside, queenside = CastleBlackKingside, CastleBlackQueenside
	}
	if !from.Equals(Sq(4, rank)) {
		return moves
	}
	enemy := color.Other()
	if state.Board.IsSquareAttacked(from, enemy) {
		return moves
	}
	if state.Castling&kingside != 0 &&
		state.Board.At(Sq(5, rank)).IsEmpty() &&
		state.Board.At(Sq(6, rank)).IsEmpty() &&
		state.Board.At(Sq(7, rank)).Is(color, KindRook) &&
		!state.Board.IsSquareAttacked(Sq(5, rank), enemy) &&
		!state.Board.IsSquareAttacked(Sq(6, rank), enemy) {
		moves = append(moves, Move{From: from, To: Sq(6, rank)})
	}
	if state.Castling&queenside != 0 &&
		state.Board.At(Sq(3, rank)).IsEmpty() &&
		state.Board.At(Sq(2, rank)).IsEmpty() &&
		state.Board.At(Sq(1, rank)).IsEmpty() &&
		state.Board.At(Sq(0, rank)).Is(color, KindRook) &&
		!state.Board.IsSquareAttacked(Sq(3, rank), enemy) &&
		!state.Board.IsSquareAttacked(Sq(2, rank), enemy) {
		moves = append(moves, Move{From: from, To: Sq(2, rank)})
	}
	return moves
}
