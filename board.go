package main

import (
	"fmt"
	"strings"
)

type Color int8

const (
	ColorWhite Color = iota
	ColorBlack
)

func (c Color) Other() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Direction is the rank direction this color's pawns advance in.
func (c Color) Direction() int {
	if c == ColorWhite {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

type PieceKind int8

const (
	KindNone PieceKind = iota
	KindPawn
	KindKnight
	KindBishop
	KindRook
	KindQueen
	KindKing
)

func (k PieceKind) String() string {
	switch k {
	case KindPawn:
		return "pawn"
	case KindKnight:
		return "knight"
	case KindBishop:
		return "bishop"
	case KindRook:
		return "rook"
	case KindQueen:
		return "queen"
	case KindKing:
		return "king"
	default:
		return "none"
	}
}

func (k PieceKind) Letter() byte {
	switch k {
	case KindPawn:
		return 'P'
	case KindKnight:
		return 'N'
	case KindBishop:
		return 'B'
	case KindRook:
		return 'R'
	case KindQueen:
		return 'Q'
	case KindKing:
		return 'K'
	default:
		return '.'
	}
}

func kindFromLetter(letter byte) PieceKind {
	switch letter {
	case 'P':
		return KindPawn
	case 'N':
		return KindKnight
	case 'B':
		return KindBishop
	case 'R':
		return KindRook
	case 'Q':
		return KindQueen
	case 'K':
		return KindKing
	default:
		return KindNone
	}
}

type Piece struct {
	Kind  PieceKind
	Color Color
}

func (p Piece) IsEmpty() bool {
	return p.Kind == KindNone
}

func (p Piece) Is(color Color, kind PieceKind) bool {
	return p.Kind == kind && p.Color == color
}

func (p Piece) Code() string {
	if p.IsEmpty() {
		return ""
	}
	side := byte('W')
	if p.Color == ColorBlack {
		side = 'B'
	}
	return string([]byte{side, p.Kind.Letter()})
}

// Square addresses the board with file x (0 = a) and rank y (0 = rank 1),
// so a1 is (0,0) and h8 is (7,7), white starting on ranks 0 and 1.
type Square struct {
	X int
	Y int
}

func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

func (s Square) InBounds() bool {
	return s.X >= 0 && s.X < 8 && s.Y >= 0 && s.Y < 8
}

func (s Square) index() int {
	return s.Y*8 + s.X
}

func (s Square) Equals(other Square) bool {
	return s.X == other.X && s.Y == other.Y
}

func (s Square) String() string {
	if !s.InBounds() {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+s.X, s.Y+1)
}

func ParseSquare(raw string) (Square, error) {
	if len(raw) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", raw)
	}
	file := int(raw[0] - 'a')
	rank := int(raw[1] - '1')
	sq := Sq(file, rank)
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("invalid square %q", raw)
	}
	return sq, nil
}

type Board struct {
	squares [64]Piece
}

// NewBoard returns a board with the standard initial layout.
func NewBoard() Board {
	return BoardFromStrings([]string{
		"BR BN BB BQ BK BB BN BR",
		"BP BP BP BP BP BP BP BP",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		".. .. .. .. .. .. .. ..",
		"WP WP WP WP WP WP WP WP",
		"WR WN WB WQ WK WB WN WR",
	})
}

// BoardFromStrings builds a board from rows of two-character piece codes
// ("WP", "BK", ".." for empty), listed top row first so the first row is
// rank 8. Rows beyond the ones given stay empty. Used heavily by tests.
func BoardFromStrings(rows []string) Board {
	b := Board{}
	for i, row := range rows {
		y := 7 - i
		for x, code := range strings.Fields(row) {
			if len(code) != 2 {
				continue
			}
			kind := kindFromLetter(code[1])
			if kind == KindNone {
				continue
			}
			color := ColorWhite
			if code[0] == 'B' {
				color = ColorBlack
			}
			b.Set(Sq(x, y), Piece{Kind: kind, Color: color})
		}
	}
	return b
}

func (b Board) At(sq Square) Piece {
	return b.squares[sq.index()]
}

func (b *Board) Set(sq Square, piece Piece) {
	b.squares[sq.index()] = piece
}

func (b *Board) Remove(sq Square) {
	b.squares[sq.index()] = Piece{}
}

// KingSquare scans for the king of the given color. The second return is
// false only on boards that were never reachable through legal play.
func (b Board) KingSquare(color Color) (Square, bool) {
	for i, piece := range b.squares {
		if piece.Is(color, KindKing) {
			return Sq(i%8, i/8), true
		}
	}
	return Square{}, false
}

var knightDeltas = [8][2]int{
	{1, 2}, {2, 1}, {-1, 2}, {-2, 1},
	{1, -2}, {2, -1}, {-1, -2}, {-2, -1},
}

var kingDeltas = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var rookRays = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

var bishopRays = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// IsSquareAttacked reports whether any piece of the attacking color
// threatens the target square. It fans out from the target rather than
// generating the attacker's moves, which keeps check detection cheap
// inside the search.
func (b Board) IsSquareAttacked(target Square, by Color) bool {
	for _, ray := range rookRays {
		if piece, ok := b.firstAlongRay(target, ray[0], ray[1]); ok && piece.Color == by {
			if piece.Kind == KindRook || piece.Kind == KindQueen {
				return true
			}
		}
	}
	for _, ray := range bishopRays {
		if piece, ok := b.firstAlongRay(target, ray[0], ray[1]); ok && piece.Color == by {
			if piece.Kind == KindBishop || piece.Kind == KindQueen {
				return true
			}
		}
	}
	for _, delta := range knightDeltas {
		sq := Sq(target.X+delta[0], target.Y+delta[1])
		if sq.InBounds() && b.At(sq).Is(by, KindKnight) {
			return true
		}
	}
	for _, delta := range kingDeltas {
		sq := Sq(target.X+delta[0], target.Y+delta[1])
		if sq.InBounds() && b.At(sq).Is(by, KindKing) {
			return true
		}
	}
	// A pawn of color `by` attacks diagonally forward, so seen from the
	// target the attacker sits one rank against `by`'s direction.
	pawnRank := target.Y - by.Direction()
	for _, dx := range [2]int{-1, 1} {
		sq := Sq(target.X+dx, pawnRank)
		if sq.InBounds() && b.At(sq).Is(by, KindPawn) {
			return true
		}
	}
	return false
}

func (b Board) firstAlongRay(from Square, dx, dy int) (Piece, bool) {
	x := from.X + dx
	y := from.Y + dy
	for x >= 0 && x < 8 && y >= 0 && y < 8 {
		piece := b.At(Sq(x, y))
		if !piece.IsEmpty() {
			return piece, true
		}
		x += dx
		y += dy
	}
	return Piece{}, false
}

func (b Board) String() string {
	var sb strings.Builder
	for y := 7; y >= 0; y-- {
		for x := 0; x < 8; x++ {
			piece := b.At(Sq(x, y))
			if piece.IsEmpty() {
				sb.WriteString(".. ")
			} else {
				sb.WriteString(piece.Code())
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
