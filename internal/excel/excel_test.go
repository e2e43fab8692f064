package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/kidspeak/internal/roster"
	"github.com/example/kidspeak/pkg/models"
)

type fakeWordStore struct {
	saved []models.SpellingWord
}

func (f *fakeWordStore) UpsertBatch(ctx context.Context, words []models.SpellingWord) (int, error) {
	f.saved = append(f.saved, words...)
	return len(words), nil
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportWordsFromExcel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Word", "Difficulty"},
		{"Elephant", "medium"},
		{"cat", 1},
		{"", "hard"},
		{"magnificent", 5},
		{"ice cream", "easy"},
		{"CAT", "easy"},
		{"run (ran, run)", ""},
	})

	config := DefaultImportConfig()
	config.FilePath = path
	store := &fakeWordStore{}

	result, err := ImportWords(context.Background(), config, store)
	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalProcessed)
	assert.Equal(t, 4, result.Saved)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Errors, 2)

	assert.Equal(t, []models.SpellingWord{
		{Word: "elephant", Difficulty: models.DifficultyMedium},
		{Word: "cat", Difficulty: models.DifficultyEasy},
		{Word: "magnificent", Difficulty: models.DifficultyHard},
		{Word: "run", Difficulty: models.DifficultyEasy},
	}, store.saved)
}

func TestReadWordsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "word,difficulty\nrainbow, medium\nsun,\n,\nresponsibility,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config := DefaultImportConfig()
	config.FilePath = path
	config.DefaultLevel = models.DifficultyMedium

	result, err := ReadWords(config)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, []models.SpellingWord{
		{Word: "rainbow", Difficulty: models.DifficultyMedium},
		{Word: "sun", Difficulty: models.DifficultyMedium},
		{Word: "responsibility", Difficulty: models.DifficultyMedium},
	}, result.Words)
}

func TestReadWordsMissingFile(t *testing.T) {
	config := DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "nope.xlsx")
	_, err := ReadWords(config)
	assert.Error(t, err)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 1, columnToIndex("b"))
	assert.Equal(t, 26, columnToIndex("AA"))
}

func TestExportBoard(t *testing.T) {
	board := roster.BuildBoard([]*models.LearnerProfile{
		{ID: "101", Name: "Asha", Class: "3", Division: "B", TotalXP: 10, TotalStars: 10, Level: 1,
			LastActive: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "102", Name: "Ravi", Class: "3", Division: "B", TotalXP: 60, TotalStars: 60, Level: 3},
	})
	path := filepath.Join(t.TempDir(), "board.xlsx")
	require.NoError(t, ExportBoard(board, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "User ID", rows[0][1])
	assert.Equal(t, []string{"Class 3B", "102", "Ravi", "3", "60", "60"}, rows[1])
	assert.Equal(t, []string{"Class 3B", "101", "Asha", "1", "10", "10", "2025-04-02 10:00:00"}, rows[2])
	assert.Empty(t, rows[3])
	assert.Equal(t, "70", rows[4][5])
}
