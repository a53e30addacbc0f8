package main

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

const winScore = 1_000_000.0

// mateThreshold separates mate scores from heuristic ones. Any value beyond
// it encodes a forced mate and carries the distance to it.
const mateThreshold = winScore / 2

type SearchStats struct {
	Nodes           int64
	TTProbes        int64
	TTHits          int64
	TTStores        int64
	TTOverwrites    int64
	Cutoffs         int64
	Start           time.Time
	DepthDurations  []time.Duration
	CompletedDepths int
}

// SearchSettings drives one ChooseMove call. Rng, when set together with a
// positive AiEasyScoreMargin, makes the root pick randomly among moves
// scoring within the margin of the best; the search itself stays exact.
type SearchSettings struct {
	Depth      int
	Config     Config
	Rng        *rand.Rand
	TT         *TranspositionTable
	ShouldStop func() bool
	Stats      *SearchStats
}

type searchContext struct {
	rules       Rules
	settings    SearchSettings
	start       time.Time
	deadline    time.Time
	hasDeadline bool
	killers     [][]Move
	history     []int
}

func timedOut(ctx *searchContext) bool {
	if ctx.settings.ShouldStop != nil && ctx.settings.ShouldStop() {
		return true
	}
	return ctx.hasDeadline && time.Now().After(ctx.deadline)
}

// ChooseMove searches the position and returns the move to play. The
// position must have at least one legal move; callers classify checkmate
// and stalemate before asking, so an empty move list is reported as an
// error rather than a result.
func ChooseMove(state *GameState, settings SearchSettings) (Move, error) {
	rules := NewRules()
	// Depths below 1 degrade to a single ply, which ranks the root moves
	// by static evaluation alone.
	if settings.Depth < 1 {
		settings.Depth = 1
	}
	if settings.Config == (Config{}) {
		settings.Config = GetConfig()
	}

	moves := rules.LegalMoves(state)
	if len(moves) == 0 {
		return Move{}, ErrNoLegalMoves
	}
	moves = append([]Move(nil), moves...)

	ctx := &searchContext{
		rules:    rules,
		settings: settings,
		start:    time.Now(),
	}
	if settings.Config.AiTimeBudgetMs > 0 {
		ctx.deadline = ctx.start.Add(time.Duration(settings.Config.AiTimeBudgetMs) * time.Millisecond)
		ctx.hasDeadline = true
	}
	if settings.Config.AiEnableKillerMoves {
		ctx.killers = make([][]Move, settings.Depth+2)
	}
	if settings.Config.AiEnableHistoryMoves {
		ctx.history = make([]int, 64*64)
	}
	if settings.Stats != nil && settings.Stats.Start.IsZero() {
		settings.Stats.Start = ctx.start
	}
	if settings.TT != nil {
		settings.TT.NextGeneration()
	}

	// Easy mode needs an exact score per root move for the margin pick, so
	// the root window stays full there instead of tightening with alpha.
	marginPick := settings.Rng != nil && settings.Config.AiEasyScoreMargin > 0

	scores := make([]float64, len(moves))
	lastScores := make([]float64, 0, len(moves))
	visitOrder := make([]int, len(moves))
	for i := range visitOrder {
		visitOrder[i] = i
	}

	for depth := 1; depth <= settings.Depth; depth++ {
		if timedOut(ctx) && depth > 1 {
			break
		}
		depthStart := time.Now()
		completed := searchRoot(state, ctx, moves, visitOrder, depth, scores, marginPick)
		if !completed {
			// An interrupted depth leaves scores only for the moves it got
			// to. Those are discarded unless the config opts in to partial
			// results.
			if !settings.Config.AiReturnLastComplete {
				if len(lastScores) == 0 {
					lastScores = append(lastScores[:0], scores...)
				} else {
					for i, score := range scores {
						if !math.IsInf(score, -1) {
							lastScores[i] = score
						}
					}
				}
			}
			break
		}
		lastScores = append(lastScores[:0], scores...)
		if settings.Stats != nil {
			settings.Stats.DepthDurations = append(settings.Stats.DepthDurations, time.Since(depthStart))
			settings.Stats.CompletedDepths = depth
		}
		// Revisit the strongest moves first on the next iteration.
		sort.SliceStable(visitOrder, func(a, b int) bool {
			return scores[visitOrder[a]] > scores[visitOrder[b]]
		})
	}

	if len(lastScores) == 0 {
		// The budget expired before depth 1 finished. Fall back to the
		// first generated move so the game can continue.
		logSearchStats(ctx, moves[0], math.Inf(-1))
		return moves[0], nil
	}

	bestIdx := 0
	for i := 1; i < len(moves); i++ {
		if lastScores[i] > lastScores[bestIdx] {
			bestIdx = i
		}
	}
	chosen := moves[bestIdx]

	if marginPick {
		margin := settings.Config.AiEasyScoreMargin
		candidates := make([]int, 0, len(moves))
		for i := range moves {
			if lastScores[i] >= lastScores[bestIdx]-margin {
				candidates = append(candidates, i)
			}
		}
		chosen = moves[candidates[settings.Rng.Intn(len(candidates))]]
	}

	logSearchStats(ctx, chosen, lastScores[bestIdx])
	return chosen, nil
}

// searchRoot scores every root move at the given depth, writing results
// into scores by the moves' original indices. It reports false when the
// depth was interrupted, in which case scores is not fully filled.
func searchRoot(state *GameState, ctx *searchContext, moves []Move, visitOrder []int, depth int, scores []float64, fullWindow bool) bool {
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	for i := range scores {
		scores[i] = math.Inf(-1)
	}
	for _, idx := range visitOrder {
		if timedOut(ctx) {
			return false
		}
		record := state.Apply(moves[idx])
		value := -negamax(state, ctx, depth-1, 1, -beta, -alpha)
		state.Undo(record)
		if timedOut(ctx) {
			return false
		}
		scores[idx] = value
		if !fullWindow && value > alpha {
			alpha = value
		}
	}
	return true
}

func negamax(state *GameState, ctx *searchContext, depth, ply int, alpha, beta float64) float64 {
	if ctx.settings.Stats != nil {
		ctx.settings.Stats.Nodes++
	}

	moves := ctx.rules.LegalMoves(state)
	if len(moves) == 0 {
		if ctx.rules.IsInCheck(state, state.ToMove) {
			return -(winScore - float64(ply))
		}
		return 0
	}
	if state.HalfmoveClock >= 100 || ctx.rules.HasInsufficientMaterial(state.Board) {
		return 0
	}
	if depth <= 0 || timedOut(ctx) {
		return EvaluateBoard(state, state.ToMove, ctx.settings.Config)
	}

	alphaOrig := alpha
	betaOrig := beta
	var pvMove *Move
	if tt := ctx.settings.TT; tt != nil {
		if ctx.settings.Stats != nil {
			ctx.settings.Stats.TTProbes++
		}
		if entry, ok := tt.Probe(state.Hash); ok {
			if ctx.settings.Stats != nil {
				ctx.settings.Stats.TTHits++
			}
			pv := entry.BestMove
			pvMove = &pv
			if used, ret, value := applyTTEntry(entry, depth, ply, &alpha, &beta, ctx.settings.Stats); used && ret {
				return value
			}
		}
	}

	orderMoves(state, ctx, moves, ply, pvMove)

	best := math.Inf(-1)
	bestMove := moves[0]
	for _, move := range moves {
		record := state.Apply(move)
		value := -negamax(state, ctx, depth-1, ply+1, -beta, -alpha)
		state.Undo(record)
		if value > best {
			best = value
			bestMove = move
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			if ctx.settings.Stats != nil {
				ctx.settings.Stats.Cutoffs++
			}
			if record.Captured.IsEmpty() {
				if ctx.settings.Config.AiEnableKillerMoves {
					recordKiller(ctx, ply, move)
				}
				if ctx.settings.Config.AiEnableHistoryMoves {
					recordHistory(ctx, move, depth)
				}
			}
			break
		}
		if timedOut(ctx) {
			break
		}
	}

	if tt := ctx.settings.TT; tt != nil && !timedOut(ctx) {
		flag := TTExact
		if best <= alphaOrig {
			flag = TTUpper
		} else if best >= betaOrig {
			flag = TTLower
		}
		replaced, overwrote := tt.Store(state.Hash, depth, scoreToTTValue(best, ply), flag, bestMove)
		if ctx.settings.Stats != nil {
			ctx.settings.Stats.TTStores++
			if replaced || overwrote {
				ctx.settings.Stats.TTOverwrites++
			}
		}
	}
	return best
}

func applyTTEntry(entry TTEntry, depth, ply int, alpha, beta *float64, stats *SearchStats) (used bool, ret bool, value float64) {
	if entry.Depth < depth {
		return false, false, 0.0
	}
	value = scoreFromTTValue(entry.ScoreFloat(), ply)
	switch entry.Flag {
	case TTExact:
		return true, true, value
	case TTLower:
		if value > *alpha {
			*alpha = value
		}
	case TTUpper:
		if value < *beta {
			*beta = value
		}
	}
	if *alpha >= *beta {
		if stats != nil {
			stats.Cutoffs++
		}
		return true, true, value
	}
	return true, false, value
}

// Mate scores carry the distance from the root, but a TT entry can be hit
// from any depth, so they are rebased to distance-from-node on store and
// back on probe.
func scoreToTTValue(value float64, ply int) float64 {
	if value > mateThreshold {
		return value + float64(ply)
	}
	if value < -mateThreshold {
		return value - float64(ply)
	}
	return value
}

func scoreFromTTValue(value float64, ply int) float64 {
	if value > mateThreshold {
		return value - float64(ply)
	}
	if value < -mateThreshold {
		return value + float64(ply)
	}
	return value
}

// orderMoves sorts in place, best candidates first. The sort is stable so
// equal scores keep their generation order and the search stays
// deterministic.
func orderMoves(state *GameState, ctx *searchContext, moves []Move, ply int, pvMove *Move) {
	weights := ctx.settings.Config.Heuristics
	if weights == (HeuristicConfig{}) {
		weights = DefaultConfig().Heuristics
	}
	type scoredMove struct {
		move  Move
		score float64
	}
	scored := make([]scoredMove, len(moves))
	for i, move := range moves {
		score := 0.0
		if pvMove != nil && move == *pvMove {
			score += 10 * winScore
		}
		victim := state.Board.At(move.To)
		if !victim.IsEmpty() {
			attacker := state.Board.At(move.From)
			score += 10*pieceValue(victim.Kind, weights) - pieceValue(attacker.Kind, weights)
		}
		if move.IsPromotion() {
			score += pieceValue(move.Promotion, weights)
		}
		if ctx.settings.Config.AiEnableKillerMoves && isKillerMove(ctx, ply, move) {
			score += float64(ctx.settings.Config.AiKillerBoost)
		}
		if ctx.settings.Config.AiEnableHistoryMoves && len(ctx.history) > 0 {
			score += float64(ctx.history[historyIndex(move)] * ctx.settings.Config.AiHistoryBoost)
		}
		scored[i] = scoredMove{move: move, score: score}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
}

func historyIndex(move Move) int {
	return move.From.index()*64 + move.To.index()
}

func isKillerMove(ctx *searchContext, ply int, move Move) bool {
	if ply < 0 || ply >= len(ctx.killers) {
		return false
	}
	for _, km := range ctx.killers[ply] {
		if km == move {
			return true
		}
	}
	return false
}

func recordKiller(ctx *searchContext, ply int, move Move) {
	if ply < 0 || ply >= len(ctx.killers) {
		return
	}
	killers := ctx.killers[ply]
	if len(killers) == 0 {
		ctx.killers[ply] = []Move{move}
		return
	}
	if killers[0] == move {
		return
	}
	if len(killers) == 1 {
		ctx.killers[ply] = []Move{move, killers[0]}
		return
	}
	ctx.killers[ply] = []Move{move, killers[0]}
}

func recordHistory(ctx *searchContext, move Move, depthLeft int) {
	if len(ctx.history) == 0 {
		return
	}
	bonus := depthLeft * depthLeft
	ctx.history[historyIndex(move)] += bonus
}

func logSearchStats(ctx *searchContext, chosen Move, best float64) {
	if !ctx.settings.Config.AiLogSearchStats || ctx.settings.Stats == nil {
		return
	}
	stats := ctx.settings.Stats
	fmt.Printf("[ai:stats] move=%s score=%.0f depth=%d nodes=%d tt_probes=%d tt_hits=%d tt_stores=%d cutoffs=%d elapsed=%dms\n",
		chosen, best, stats.CompletedDepths, stats.Nodes, stats.TTProbes, stats.TTHits, stats.TTStores, stats.Cutoffs,
		time.Since(ctx.start).Milliseconds())
}
