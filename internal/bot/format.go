package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/kidspeak/internal/coach"
	"github.com/example/kidspeak/internal/evaluator"
	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

func stars(n int) string {
	if n <= 0 {
		return "☆☆☆"
	}
	return strings.Repeat("⭐", n) + strings.Repeat("☆", 3-n)
}

func formatResult(mode models.PracticeMode, r *evaluator.Result) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s  %d%%\n%s", stars(r.Outcome.Stars), r.Score, r.Feedback)

	switch mode {
	case models.ModeSpellBee:
		if !r.Outcome.Exact {
			fmt.Fprintf(&out, "\nCorrect spelling: %s\n%s", r.CorrectSpelling, formatJudgments(r.Letters, ""))
		}
	default:
		if line := formatJudgments(r.Words, " "); r.Outcome.Stars < 3 && line != "" {
			out.WriteString("\n")
			out.WriteString(line)
		}
	}
	return out.String()
}

// formatJudgments marks every reference token: ✓ correct, ✗ wrong, _ missing
func formatJudgments(judgments []models.TokenJudgment, sep string) string {
	parts := make([]string, 0, len(judgments))
	hint := false
	for _, j := range judgments {
		switch j.Status {
		case models.StatusCorrect:
			parts = append(parts, j.Token+"✓")
		case models.StatusIncorrect:
			parts = append(parts, j.Token+"✗")
			hint = hint || j.SoundsAlike
		default:
			parts = append(parts, j.Token+"_")
		}
	}
	line := strings.Join(parts, sep)
	if hint {
		line += "\n👂 Some words sound right but are spelled differently."
	}
	return line
}

func formatStageSummary(stage *practice.Stage, last *evaluator.Result) string {
	var out strings.Builder
	fmt.Fprintf(&out, "🏁 Stage complete! You collected %s on the last item and %d stars in total.",
		stars(last.Outcome.Stars), stage.Stars())
	if change := last.LevelChange; change != nil && change.LeveledUp {
		fmt.Fprintf(&out, "\n🎉 Level up! You are now level %d.", change.NewLevel)
	}
	out.WriteString("\nSend /spell or /repeat to play again.")
	return out.String()
}

func formatReply(r *coach.Reply) string {
	if r.Correct == "" && r.Praise == "" && r.Question == "" {
		return strings.TrimSpace(r.Raw)
	}
	return strings.TrimSpace(r.Spoken())
}

func formatProgress(p *models.LearnerProfile) string {
	view := progression.Progress(p)

	var out strings.Builder
	fmt.Fprintf(&out, "📊 %s\nLevel %d\nXP: %d (%d/%d to the next level)\nStars: %d\nSuggested difficulty: %s",
		displayName(p.Name), view.Level, view.TotalXP, view.XPInCurrentLevel, view.XPNeededForNext,
		view.TotalStars, view.RecommendedDifficulty)
	for _, mode := range []models.PracticeMode{models.ModeRepeat, models.ModeSpellBee} {
		if stats, ok := p.ModeStats[mode]; ok {
			fmt.Fprintf(&out, "\n%s: %d stars in %d stages", mode, stats.Stars, stats.Sessions)
		}
	}
	return out.String()
}

// maskWord blanks every occurrence of word in sentence. ok is false when
// the sentence does not contain the word.
func maskWord(sentence, word string) (string, bool) {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return "", false
	}
	if !re.MatchString(sentence) {
		return "", false
	}
	return re.ReplaceAllString(sentence, strings.Repeat("_", len([]rune(word)))), true
}

// letterPattern shows the first letter and one blank per remaining letter
func letterPattern(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	return fmt.Sprintf("%s%s (%d letters)", string(runes[0]), strings.Repeat(" _", len(runes)-1), len(runes))
}
