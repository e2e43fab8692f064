package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kidspeak/pkg/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(Config{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectUnsupportedType(t *testing.T) {
	_, err := Connect(Config{Type: "mysql"})
	assert.Error(t, err)
}

func TestInitializeSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, InitializeSchema(db))
}

func TestLearnerRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewLearnerRepository(db)
	ctx := context.Background()
	created := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)

	learners := map[string]*models.LearnerProfile{
		"101": {
			ID:           "101",
			PasswordHash: "hash",
			Name:         "Asha",
			Class:        "3",
			Division:     "B",
			TotalXP:      27,
			TotalStars:   27,
			Level:        2,
			CreatedAt:    created,
			LastActive:   created.Add(time.Hour),
			ModeStats: map[models.PracticeMode]models.ModeStats{
				models.ModeRepeat:   {Stars: 24, Sessions: 8},
				models.ModeSpellBee: {Stars: 3, Sessions: 1},
			},
		},
		"102": {
			ID:         "102",
			Name:       "Ravi",
			Level:      1,
			CreatedAt:  created,
			LastActive: created,
			ModeStats:  map[models.PracticeMode]models.ModeStats{},
		},
	}
	require.NoError(t, repo.SaveAll(ctx, learners))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	asha := loaded["101"]
	assert.Equal(t, "Asha", asha.Name)
	assert.Equal(t, 27, asha.TotalXP)
	assert.Equal(t, 2, asha.Level)
	assert.True(t, created.Equal(asha.CreatedAt))
	assert.Equal(t, learners["101"].ModeStats, asha.ModeStats)
	assert.Empty(t, loaded["102"].ModeStats)

	// Second save updates in place
	learners["101"].TotalXP = 40
	learners["101"].ModeStats[models.ModeRepeat] = models.ModeStats{Stars: 37, Sessions: 9}
	require.NoError(t, repo.SaveAll(ctx, learners))

	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, loaded["101"].TotalXP)
	assert.Equal(t, models.ModeStats{Stars: 37, Sessions: 9}, loaded["101"].ModeStats[models.ModeRepeat])
}

func TestLearnerRepositoryEmpty(t *testing.T) {
	loaded, err := NewLearnerRepository(newTestDB(t)).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestEducatorRepositoryRoundTrip(t *testing.T) {
	repo := NewEducatorRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, map[string]*models.EducatorRecord{
		"msrose": {ID: "msrose", PasswordHash: "h", Name: "Rose", Role: "teacher", CreatedAt: time.Now().UTC()},
	}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, "msrose")
	assert.Equal(t, "Rose", loaded["msrose"].Name)
	assert.Equal(t, "teacher", loaded["msrose"].Role)
}

func TestWordRepository(t *testing.T) {
	repo := NewWordRepository(newTestDB(t))
	ctx := context.Background()

	word := &models.SpellingWord{Word: "  Elephant ", Difficulty: models.DifficultyMedium}
	require.NoError(t, repo.Upsert(ctx, word))
	assert.NotZero(t, word.ID)
	assert.Equal(t, "elephant", word.Word)

	saved, err := repo.UpsertBatch(ctx, []models.SpellingWord{
		{Word: "cat", Difficulty: models.DifficultyEasy},
		{Word: "", Difficulty: models.DifficultyEasy},
		{Word: "elephant", Difficulty: models.DifficultyHard},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cat", all[0].Word)
	assert.Equal(t, models.DifficultyHard, all[1].Difficulty)

	hard, err := repo.GetByDifficulty(ctx, models.DifficultyHard)
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "elephant", hard[0].Word)

	require.NoError(t, repo.Delete(ctx, "CAT"))
	easy, err := repo.GetByDifficulty(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Empty(t, easy)

	assert.Error(t, repo.Upsert(ctx, &models.SpellingWord{Word: "   "}))
}
