package main

import "strings"

// Move describes a single half-move. Promotion is KindNone except on pawn
// moves reaching the last rank, where one move is generated per target kind.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

func (m Move) IsPromotion() bool {
	return m.Promotion != KindNone
}

// String renders the move in long algebraic coordinates, e.g. "e2e4" or
// "e7e8q" for a promotion.
func (m Move) String() string {
	var sb strings.Builder
	sb.WriteString(m.From.String())
	sb.WriteString(m.To.String())
	if m.IsPromotion() {
		sb.WriteByte(promotionLetter(m.Promotion))
	}
	return sb.String()
}

func promotionLetter(kind PieceKind) byte {
	switch kind {
	case KindKnight:
		return 'n'
	case KindBishop:
		return 'b'
	case KindRook:
		return 'r'
	case KindQueen:
		return 'q'
	default:
		return '?'
	}
}

func promotionKindFromLetter(letter byte) PieceKind {
	switch letter {
	case 'n':
		return KindKnight
	case 'b':
		return KindBishop
	case 'r':
		return KindRook
	case 'q':
		return KindQueen
	default:
		return KindNone
	}
}

// ParseMove parses long algebraic coordinates ("e2e4", "e7e8q"). It only
// validates the syntax; legality is checked against the position separately.
func ParseMove(raw string) (Move, error) {
	if len(raw) != 4 && len(raw) != 5 {
		return Move{}, ErrMalformedMove
	}
	from, err := ParseSquare(raw[:2])
	if err != nil {
		return Move{}, ErrMalformedMove
	}
	to, err := ParseSquare(raw[2:4])
	if err != nil {
		return Move{}, ErrMalformedMove
	}
	move := Move{From: from, To: to}
	if len(raw) == 5 {
		move.Promotion = promotionKindFromLetter(raw[4])
		if move.Promotion == KindNone {
			return Move{}, ErrMalformedMove
		}
	}
	return move, nil
}
