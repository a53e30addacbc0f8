package main

import "fmt"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// SearchDepth maps a difficulty tier to its configured search depth.
func (d Difficulty) SearchDepth(config Config) int {
	switch d {
	case DifficultyEasy:
		return config.AiDepthEasy
	case DifficultyHard:
		return config.AiDepthHard
	default:
		return config.AiDepthMedium
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "medium"
	}
}

func ParseDifficulty(raw string) (Difficulty, error) {
	switch raw {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("unknown difficulty %q", raw)
}

type GameSettings struct {
	WhiteType  PlayerType `json:"-"`
	BlackType  PlayerType `json:"-"`
	Difficulty Difficulty `json:"-"`
	AiSeed     int64      `json:"ai_seed"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		WhiteType:  PlayerHuman,
		BlackType:  PlayerAI,
		Difficulty: DifficultyMedium,
		AiSeed:     1,
	}
}
