package main

// centerSquares get the full CenterBonus; the ring around them half of it.
var centerSquares = [4]Square{Sq(3, 3), Sq(4, 3), Sq(3, 4), Sq(4, 4)}

// EvaluateBoard scores the position from sideToMove's point of view, in
// centipawns. It is a static evaluation: material, central presence,
// mobility and a pawn shield in front of each king. Mate and stalemate are
// not detected here, the search finds those through move generation.
func EvaluateBoard(state *GameState, sideToMove Color, config Config) float64 {
	weights := config.Heuristics
	if weights == (HeuristicConfig{}) {
		weights = DefaultConfig().Heuristics
	}

	score := materialAndPlacement(state.Board, weights)
	score += float64(mobility(state, ColorWhite)-mobility(state, ColorBlack)) * weights.MobilityWeight
	score += float64(pawnShield(state.Board, ColorWhite)-pawnShield(state.Board, ColorBlack)) * weights.PawnShield

	if sideToMove == ColorBlack {
		return -score
	}
	return score
}

func pieceValue(kind PieceKind, weights HeuristicConfig) float64 {
	switch kind {
	case KindPawn:
		return weights.PawnValue
	case KindKnight:
		return weights.KnightValue
	case KindBishop:
		return weights.BishopValue
	case KindRook:
		return weights.RookValue
	case KindQueen:
		return weights.QueenValue
	}
	return 0
}

// materialAndPlacement sums piece values and the center bonus, white
// positive.
func materialAndPlacement(board Board, weights HeuristicConfig) float64 {
	score := 0.0
	for i, piece := range board.squares {
		if piece.IsEmpty() {
			continue
		}
		value := pieceValue(piece.Kind, weights)
		if piece.Kind != KindKing {
			value += centerBonus(Sq(i%8, i/8), weights)
		}
		if piece.Color == ColorWhite {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

func centerBonus(sq Square, weights HeuristicConfig) float64 {
	for _, center := range centerSquares {
		if sq.Equals(center) {
			return weights.CenterBonus
		}
	}
	if sq.X >= 2 && sq.X <= 5 && sq.Y >= 2 && sq.Y <= 5 {
		return weights.CenterBonus / 2
	}
	return 0
}

// mobility counts the pseudo-legal moves of one side. Pseudo-legal is
// deliberate: filtering out self-checks here would double the cost of every
// leaf for a distinction that rarely changes the ordering of positions.
func mobility(state *GameState, color Color) int {
	rules := Rules{}
	count := 0
	var buf [32]Move
	for i := range state.Board.squares {
		from := Sq(i%8, i/8)
		piece := state.Board.At(from)
		if piece.IsEmpty() || piece.Color != color {
			continue
		}
		count += len(rules.pieceMovesInto(state, from, piece, buf[:0]))
	}
	return count
}

// pawnShield counts friendly pawns on the three squares directly in front
// of the king.
func pawnShield(board Board, color Color) int {
	king, ok := board.KingSquare(color)
	if !ok {
		return 0
	}
	count := 0
	rank := king.Y + color.Direction()
	for dx := -1; dx <= 1; dx++ {
		sq := Sq(king.X+dx, rank)
		if sq.InBounds() && board.At(sq).Is(color, KindPawn) {
			count++
		}
	}
	return count
}
