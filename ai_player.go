package main

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// AIPlayer runs the search on a background goroutine so the game loop can
// keep ticking while the engine thinks. Each player owns its transposition
// table and, on the easy difficulty, a seeded random source, so two AI
// players never share search state.
type AIPlayer struct {
	difficulty Difficulty
	rng        *rand.Rand
	rngMutex   sync.Mutex
	tt         *TranspositionTable
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	stopSignal atomic.Bool
	readyMove  Move
	readyErr   error
}

func NewAIPlayer(difficulty Difficulty, seed int64) *AIPlayer {
	config := GetConfig()
	player := &AIPlayer{
		difficulty: difficulty,
		tt:         NewTranspositionTable(uint64(config.AiTtSize), config.AiTtBuckets),
	}
	if difficulty == DifficultyEasy {
		player.rng = rand.New(rand.NewSource(seed))
	}
	return player
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) searchSettings(config Config, stats *SearchStats) SearchSettings {
	settings := SearchSettings{
		Depth:  a.difficulty.SearchDepth(config),
		Config: config,
		TT:     a.tt,
		Stats:  stats,
	}
	if a.difficulty == DifficultyEasy {
		settings.Rng = a.rng
	}
	return settings
}

// ChooseMove searches synchronously. The asynchronous path used by the game
// loop is StartThinking plus TakeMove.
func (a *AIPlayer) ChooseMove(state GameState, rules Rules) (Move, error) {
	config := GetConfig()
	stats := &SearchStats{Start: time.Now()}
	a.rngMutex.Lock()
	defer a.rngMutex.Unlock()
	return ChooseMove(&state, a.searchSettings(config, stats))
}

func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		stats := &SearchStats{Start: time.Now()}
		settings := a.searchSettings(config, stats)
		settings.ShouldStop = func() bool { return a.stopSignal.Load() }
		a.rngMutex.Lock()
		move, err := ChooseMove(&stateCopy, settings)
		a.rngMutex.Unlock()
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		a.moveMutex.Lock()
		a.readyMove = move
		a.readyErr = err
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (Move, error) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove, a.readyErr
}

// StopThinking aborts an in-flight search and waits for the worker to
// drain. Pending results are discarded.
func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.stopSignal.Store(false)
	a.moveReady.Store(false)
}

func (a *AIPlayer) CacheSize() int {
	return a.tt.Count()
}

func (a *AIPlayer) ResetForNewGame() {
	a.StopThinking()
	a.tt.Clear()
}
