package main

import "strings"

type HistoryEntry struct {
	Move      Move
	Player    Color
	Notation  string
	Captured  Piece
	ElapsedMs float64
	IsAi      bool
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

// notate renders a played move in long algebraic notation with capture,
// castling, promotion and check markers, e.g. "Ng1f3", "e4xd5", "O-O",
// "e7e8=Q" or "Qd1h5+".
func notate(record UndoRecord, check, mate bool) string {
	move := record.Move
	var sb strings.Builder
	if record.Moved.Kind == KindKing && abs(move.To.X-move.From.X) == 2 {
		if move.To.X > move.From.X {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if record.Moved.Kind != KindPawn {
			sb.WriteByte(record.Moved.Kind.Letter())
		}
		sb.WriteString(move.From.String())
		if record.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(move.Promotion.Letter())
		}
	}
	if mate {
		sb.WriteByte('#')
	} else if check {
		sb.WriteByte('+')
	}
	return sb.String()
}
