package progression

import "github.com/example/kidspeak/pkg/models"

const (
	firstLevelStep = 25 // Points from level 1 to level 2
	levelStep      = 30 // Points for every later level

	// Upper bounds of the easy and medium difficulty bands
	easyMaxLevel   = 4
	mediumMaxLevel = 10
)

// PointsToNextLevel returns the points needed to go from currentLevel to the
// next level. It is the single step function behind every level calculation.
func PointsToNextLevel(currentLevel int) int {
	if currentLevel <= 1 {
		return firstLevelStep
	}
	return levelStep
}

// ThresholdForLevel returns the cumulative points required to reach level.
func ThresholdForLevel(level int) int {
	points := 0
	for l := 1; l < level; l++ {
		points += PointsToNextLevel(l)
	}
	return points
}

// LevelForPoints returns the largest level whose threshold does not exceed points.
func LevelForPoints(points int) int {
	level := 1
	next := PointsToNextLevel(level)
	for points >= next {
		level++
		next += PointsToNextLevel(level)
	}
	return level
}

// RecommendedDifficulty maps a level to its practice difficulty tier.
func RecommendedDifficulty(level int) models.Difficulty {
	switch {
	case level <= easyMaxLevel:
		return models.DifficultyEasy
	case level <= mediumMaxLevel:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// ProgressView is what a progress bar needs for one learner
type ProgressView struct {
	Level                 int               `json:"level"`
	TotalXP               int               `json:"total_xp"`
	TotalStars            int               `json:"total_stars"`
	XPInCurrentLevel      int               `json:"xp_in_current_level"`
	XPNeededForNext       int               `json:"xp_needed_for_next"`
	RecommendedDifficulty models.Difficulty `json:"recommended_difficulty"`
}

// Progress builds the progress view for a profile.
func Progress(p *models.LearnerProfile) ProgressView {
	level := LevelForPoints(p.TotalXP)
	return ProgressView{
		Level:                 level,
		TotalXP:               p.TotalXP,
		TotalStars:            p.TotalStars,
		XPInCurrentLevel:      p.TotalXP - ThresholdForLevel(level),
		XPNeededForNext:       ThresholdForLevel(level+1) - ThresholdForLevel(level),
		RecommendedDifficulty: RecommendedDifficulty(level),
	}
}
