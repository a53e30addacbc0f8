package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Game owns one chess game: the position, the players, the move history
// and the repetition table used for the threefold draw rule.
type Game struct {
	id          uuid.UUID
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	positions   map[uint64]int
	whitePlayer IPlayer
	blackPlayer IPlayer
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAIPlayers()
	g.id = uuid.New()
	g.settings = settings
	g.rules = NewRules()
	g.state.Reset()
	g.history.Clear()
	g.positions = make(map[uint64]int)
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.positions[g.state.Hash] = 1
		g.turnStart = time.Now()
	}
}

func (g *Game) ID() uuid.UUID {
	return g.id
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) InCheck() bool {
	return g.rules.IsInCheck(&g.state, g.state.ToMove)
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays the move for the side to move. On any error the game
// state is exactly as it was before the call.
func (g *Game) TryApplyMove(move Move) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	ok, reason := g.rules.IsLegal(&g.state, move)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, reason)
	}

	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())

	record := g.state.Apply(move)
	g.positions[g.state.Hash]++

	outcome := g.rules.Classify(&g.state, g.positions[g.state.Hash])
	check := g.rules.IsInCheck(&g.state, g.state.ToMove)
	mate := outcome.Kind == OutcomeCheckmate

	entry := HistoryEntry{
		Move:      move,
		Player:    record.Moved.Color,
		Notation:  notate(record, check, mate),
		Captured:  record.Captured,
		ElapsedMs: elapsedMs,
		IsAi:      isAiMove,
	}
	g.history.Push(entry)
	g.logMovePlayed(entry)

	if outcome.Kind != OutcomeNone {
		g.finish(outcome)
	}
	g.turnStart = time.Now()
	return nil
}

// Resign ends the game in the opponent's favor.
func (g *Game) Resign(color Color) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	g.finish(Outcome{Kind: OutcomeResignation, Winner: color.Other()})
	return nil
}

func (g *Game) finish(outcome Outcome) {
	g.state.Outcome = outcome
	switch {
	case outcome.IsDraw():
		g.state.Status = StatusDraw
	case outcome.Winner == ColorWhite:
		g.state.Status = StatusWhiteWon
	default:
		g.state.Status = StatusBlackWon
	}
	g.stopAIPlayers()
	log.Printf("game %s over: %s", g.id, outcome.Kind)
}

// Tick advances the game one step: it applies a pending human move or a
// finished AI search, and kicks off the AI when it is its turn. Returns
// whether a move was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			if err := g.TryApplyMove(move); err != nil {
				log.Printf("game %s: rejected human move %s: %v", g.id, move, err)
				return false
			}
			return true
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		move, err := ai.TakeMove()
		if err != nil {
			log.Printf("game %s: ai search failed: %v", g.id, err)
			return false
		}
		if err := g.TryApplyMove(move); err != nil {
			log.Printf("game %s: rejected ai move %s: %v", g.id, move, err)
			return false
		}
		return true
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.state)
	}
	return false
}

// SubmitHumanMove queues a move for the human on turn.
func (g *Game) SubmitHumanMove(move Move) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return ErrNotYourTurn
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return ErrNotYourTurn
	}
	human.SetPendingMove(move)
	return nil
}

func (g *Game) LegalMoves() []Move {
	if g.state.Status != StatusRunning {
		return nil
	}
	return g.rules.LegalMoves(&g.state)
}

func (g *Game) LegalMovesFrom(from Square) []Move {
	if g.state.Status != StatusRunning {
		return nil
	}
	return g.rules.LegalMovesFrom(&g.state, from)
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color Color) IPlayer {
	if color == ColorWhite {
		return g.whitePlayer
	}
	return g.blackPlayer
}

func (g *Game) createPlayers() {
	if g.settings.WhiteType == PlayerHuman {
		g.whitePlayer = NewHumanPlayer()
	} else {
		g.whitePlayer = NewAIPlayer(g.settings.Difficulty, g.settings.AiSeed)
	}
	if g.settings.BlackType == PlayerHuman {
		g.blackPlayer = NewHumanPlayer()
	} else {
		// Offset the seed so two easy AIs do not mirror each other.
		g.blackPlayer = NewAIPlayer(g.settings.Difficulty, g.settings.AiSeed+1)
	}
}

func (g *Game) stopAIPlayers() {
	if ai, ok := g.whitePlayer.(*AIPlayer); ok {
		ai.StopThinking()
	}
	if ai, ok := g.blackPlayer.(*AIPlayer); ok {
		ai.StopThinking()
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("game %s: White (%s) vs Black (%s), difficulty %s",
		g.id, label(g.settings.WhiteType), label(g.settings.BlackType), g.settings.Difficulty)
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	who := "human"
	if entry.IsAi {
		who = "ai"
	}
	log.Printf("game %s: %s %s plays %s (%.0fms)",
		g.id, entry.Player, who, entry.Notation, entry.ElapsedMs)
}
