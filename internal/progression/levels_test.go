package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/kidspeak/pkg/models"
)

func TestPointsToNextLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 25, PointsToNextLevel(1))
	assert.Equal(t, 30, PointsToNextLevel(2))
	assert.Equal(t, 30, PointsToNextLevel(17))
}

func TestThresholdForLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int
	}{
		{1, 0},
		{2, 25},
		{3, 55},
		{4, 85},
		{11, 295},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdForLevel(tt.level), "level %d", tt.level)
	}

	for l := 1; l < 50; l++ {
		assert.Less(t, ThresholdForLevel(l), ThresholdForLevel(l+1))
	}
}

func TestLevelForPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{24, 1},
		{25, 2},
		{54, 2},
		{55, 3},
		{84, 3},
		{85, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points), "points %d", tt.points)
	}
}

func TestLevelRoundTrip(t *testing.T) {
	t.Parallel()

	for l := 1; l <= 40; l++ {
		assert.Equal(t, l, LevelForPoints(ThresholdForLevel(l)))
		if l > 1 {
			assert.Equal(t, l-1, LevelForPoints(ThresholdForLevel(l)-1))
		}
	}
}

func TestRecommendedDifficulty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.DifficultyEasy, RecommendedDifficulty(1))
	assert.Equal(t, models.DifficultyEasy, RecommendedDifficulty(4))
	assert.Equal(t, models.DifficultyMedium, RecommendedDifficulty(5))
	assert.Equal(t, models.DifficultyMedium, RecommendedDifficulty(10))
	assert.Equal(t, models.DifficultyHard, RecommendedDifficulty(11))

	rank := map[models.Difficulty]int{
		models.DifficultyEasy:   0,
		models.DifficultyMedium: 1,
		models.DifficultyHard:   2,
	}
	for l := 1; l < 30; l++ {
		assert.LessOrEqual(t, rank[RecommendedDifficulty(l)], rank[RecommendedDifficulty(l+1)])
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	view := Progress(&models.LearnerProfile{TotalXP: 30, TotalStars: 30})
	assert.Equal(t, ProgressView{
		Level:                 2,
		TotalXP:               30,
		TotalStars:            30,
		XPInCurrentLevel:      5,
		XPNeededForNext:       30,
		RecommendedDifficulty: models.DifficultyEasy,
	}, view)

	fresh := Progress(&models.LearnerProfile{})
	assert.Equal(t, 1, fresh.Level)
	assert.Equal(t, 0, fresh.XPInCurrentLevel)
	assert.Equal(t, 25, fresh.XPNeededForNext)
}
