// Package similarity grades learner transcripts against reference text.
//
// Similarity is the Ratcliff/Obershelp ratio 2*M/T, where M is the number of
// elements in the longest matching blocks and T the combined length of both
// sequences. Comparisons are case-insensitive and whitespace is kept as given.
package similarity

import (
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/example/kidspeak/pkg/models"
)

// WordMatchThreshold is the per-word ratio at which a spoken word counts as correct
const WordMatchThreshold = 0.8

// ScoreUtterance returns the whole-string similarity of student and reference.
// Two empty strings are identical and score 1.
func ScoreUtterance(studentText, referenceText string) float64 {
	return ratio(strings.ToLower(studentText), strings.ToLower(referenceText))
}

// CompareWords judges each reference word against the student word at the
// same position. Words after a skipped or inserted word are not realigned.
func CompareWords(studentText, referenceText string) []models.TokenJudgment {
	student := strings.Fields(strings.ToLower(studentText))
	reference := strings.Fields(strings.ToLower(referenceText))

	result := make([]models.TokenJudgment, 0, len(reference))
	for i, word := range reference {
		if i >= len(student) {
			result = append(result, models.TokenJudgment{Token: word, Status: models.StatusMissing})
			continue
		}
		spoken := student[i]
		if ratio(spoken, word) >= WordMatchThreshold {
			result = append(result, models.TokenJudgment{Token: word, Status: models.StatusCorrect})
			continue
		}
		result = append(result, models.TokenJudgment{
			Token:       word,
			Status:      models.StatusIncorrect,
			Actual:      spoken,
			SoundsAlike: soundsAlike(spoken, word),
		})
	}
	return result
}

// CompareSpelling judges each letter of the reference word against the typed
// letter at the same index. The result always has one entry per reference
// letter; letters typed beyond the reference length are not reported.
func CompareSpelling(studentSpelling, referenceWord string) []models.TokenJudgment {
	typed := []rune(strings.ToLower(strings.TrimSpace(studentSpelling)))
	reference := []rune(strings.ToLower(strings.TrimSpace(referenceWord)))

	result := make([]models.TokenJudgment, 0, len(reference))
	for i, letter := range reference {
		switch {
		case i >= len(typed):
			result = append(result, models.TokenJudgment{Token: string(letter), Status: models.StatusMissing})
		case typed[i] == letter:
			result = append(result, models.TokenJudgment{Token: string(letter), Status: models.StatusCorrect})
		default:
			result = append(result, models.TokenJudgment{
				Token:  string(letter),
				Status: models.StatusIncorrect,
				Actual: string(typed[i]),
			})
		}
	}
	return result
}

// SpellingRatio is the similarity of a typed spelling to the reference word
// after trimming and lowercasing both.
func SpellingRatio(studentSpelling, referenceWord string) float64 {
	return ratio(
		strings.ToLower(strings.TrimSpace(studentSpelling)),
		strings.ToLower(strings.TrimSpace(referenceWord)),
	)
}

// ratio runs the matching-blocks comparison over code points.
func ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// soundsAlike reports whether two words share a Double Metaphone code.
func soundsAlike(spoken, reference string) bool {
	sp, ss := matchr.DoubleMetaphone(spoken)
	rp, rs := matchr.DoubleMetaphone(reference)
	for _, a := range []string{sp, ss} {
		if a == "" {
			continue
		}
		if a == rp || a == rs {
			return true
		}
	}
	return false
}
