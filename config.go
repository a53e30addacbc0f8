package main

import "sync"

type Config struct {
	AiDepthEasy          int             `json:"ai_depth_easy"`
	AiDepthMedium        int             `json:"ai_depth_medium"`
	AiDepthHard          int             `json:"ai_depth_hard"`
	AiTimeBudgetMs       int             `json:"ai_time_budget_ms"`
	AiReturnLastComplete bool            `json:"ai_return_last_complete_depth_only"`
	AiTtSize             int             `json:"ai_tt_size"`
	AiTtBuckets          int             `json:"ai_tt_buckets"`
	AiEnableKillerMoves  bool            `json:"ai_enable_killer_moves"`
	AiEnableHistoryMoves bool            `json:"ai_enable_history_moves"`
	AiKillerBoost        int             `json:"ai_killer_boost"`
	AiHistoryBoost       int             `json:"ai_history_boost"`
	AiEasyScoreMargin    float64         `json:"ai_easy_score_margin"`
	AiLogSearchStats     bool            `json:"ai_log_search_stats"`
	Heuristics           HeuristicConfig `json:"heuristics"`
}

// HeuristicConfig holds the evaluation weights. Piece values use the usual
// centipawn scale so the other weights read in the same unit.
type HeuristicConfig struct {
	PawnValue      float64 `json:"pawn_value"`
	KnightValue    float64 `json:"knight_value"`
	BishopValue    float64 `json:"bishop_value"`
	RookValue      float64 `json:"rook_value"`
	QueenValue     float64 `json:"queen_value"`
	CenterBonus    float64 `json:"center_bonus"`
	MobilityWeight float64 `json:"mobility_weight"`
	PawnShield     float64 `json:"pawn_shield"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		// Search depth per difficulty tier.
		AiDepthEasy:   2,
		AiDepthMedium: 4,
		AiDepthHard:   6,

		// Time budget mode: iterative deepening stops once the budget is
		// spent. With AiReturnLastComplete set only fully searched depths
		// count; unset, moves already scored at the interrupted depth are
		// kept too.
		AiTimeBudgetMs:       2000,
		AiReturnLastComplete: true,

		// TT sizing; entries must be a power of two.
		AiTtSize:    1 << 18,
		AiTtBuckets: 4,

		// Move ordering helpers. Boosts kept modest so captures still
		// order ahead of quiet killers.
		AiEnableKillerMoves:  true,
		AiEnableHistoryMoves: true,
		AiKillerBoost:        8000,
		AiHistoryBoost:       16,

		// Easy mode picks randomly among moves within this margin of the
		// best score.
		AiEasyScoreMargin: 120.0,

		AiLogSearchStats: false,

		Heuristics: HeuristicConfig{
			PawnValue:      100.0,
			KnightValue:    320.0,
			BishopValue:    330.0,
			RookValue:      500.0,
			QueenValue:     900.0,
			CenterBonus:    10.0,
			MobilityWeight: 2.0,
			PawnShield:     12.0,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
