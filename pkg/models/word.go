package models

import (
	"strings"
	"time"
)

// Difficulty is a practice difficulty tier
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps free text to a tier, defaulting to easy
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyEasy
	}
}

// SpellingWord is a vocabulary entry used for spelling practice
type SpellingWord struct {
	ID         int64      `json:"id" db:"id"`
	Word       string     `json:"word" db:"word"`
	Difficulty Difficulty `json:"difficulty" db:"difficulty"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
