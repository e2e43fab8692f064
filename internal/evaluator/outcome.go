package evaluator

import (
	"strings"

	"github.com/example/kidspeak/internal/similarity"
	"github.com/example/kidspeak/pkg/models"
)

// Repeat-after-me star thresholds on the whole-utterance ratio
const (
	RepeatThreeStars = 0.90
	RepeatTwoStars   = 0.75
	RepeatOneStar    = 0.60
)

// Spelling star thresholds, used when the spelling is not exact
const (
	SpellingTwoStars = 0.80
	SpellingOneStar  = 0.50
)

// EvaluateRepeatAttempt grades a spoken repetition of reference.
// commit marks the final item of a stage.
func EvaluateRepeatAttempt(student, reference string, commit bool) models.StageOutcome {
	ratio := similarity.ScoreUtterance(student, reference)

	stars := 0
	switch {
	case ratio >= RepeatThreeStars:
		stars = 3
	case ratio >= RepeatTwoStars:
		stars = 2
	case ratio >= RepeatOneStar:
		stars = 1
	}

	return models.StageOutcome{
		Ratio:       ratio,
		Stars:       stars,
		Committable: commit,
	}
}

// EvaluateSpellingAttempt grades a typed spelling of reference. An exact
// match after trimming and lowercasing earns three stars.
func EvaluateSpellingAttempt(student, reference string, commit bool) models.StageOutcome {
	s := strings.ToLower(strings.TrimSpace(student))
	r := strings.ToLower(strings.TrimSpace(reference))
	if s == r {
		return models.StageOutcome{Ratio: 1, Stars: 3, Exact: true, Committable: commit}
	}

	ratio := similarity.SpellingRatio(student, reference)
	stars := 0
	switch {
	case ratio >= SpellingTwoStars:
		stars = 2
	case ratio >= SpellingOneStar:
		stars = 1
	}

	return models.StageOutcome{
		Ratio:       ratio,
		Stars:       stars,
		Committable: commit,
	}
}

func repeatFeedback(stars int) string {
	switch stars {
	case 3:
		return "Perfect! Amazing pronunciation!"
	case 2:
		return "Great job! Keep practicing!"
	case 1:
		return "Good try! Try speaking more clearly."
	default:
		return "Keep trying! Speak slowly and clearly."
	}
}

func spellingFeedback(outcome models.StageOutcome) string {
	if outcome.Exact {
		return "🎉 Perfect! You spelled it correctly!"
	}
	switch outcome.Stars {
	case 2:
		return "Almost there! Check a few letters."
	case 1:
		return "Good try! Keep practicing!"
	default:
		return "Try again! Listen carefully to the word."
	}
}
