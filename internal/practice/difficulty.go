// Package practice holds practice content and the stage tracker that
// decides when a block of attempts may earn points.
package practice

import "github.com/example/kidspeak/pkg/models"

// RepeatDifficulty caps the requested sentence difficulty by learner level.
// Beginners always get easy sentences; hard opens up after level 7.
func RepeatDifficulty(requested models.Difficulty, level int) models.Difficulty {
	switch {
	case level <= 2:
		return models.DifficultyEasy
	case level <= 4:
		if requested == models.DifficultyEasy {
			return models.DifficultyEasy
		}
		return models.DifficultyMedium
	case level <= 7:
		if requested == models.DifficultyHard {
			return models.DifficultyMedium
		}
		return normalize(requested)
	default:
		return normalize(requested)
	}
}

// SpellingDifficulty caps the requested word difficulty by learner level.
func SpellingDifficulty(requested models.Difficulty, level int) models.Difficulty {
	switch {
	case level <= 2:
		return models.DifficultyEasy
	case level <= 7:
		if requested == models.DifficultyHard {
			return models.DifficultyMedium
		}
		return normalize(requested)
	default:
		return normalize(requested)
	}
}

func normalize(d models.Difficulty) models.Difficulty {
	return models.ParseDifficulty(string(d))
}
