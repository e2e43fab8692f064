package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/kidspeak/pkg/models"
)

// WordStore persists imported words
type WordStore interface {
	UpsertBatch(ctx context.Context, words []models.SpellingWord) (int, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	WordColumn       string // Column with the word
	DifficultyColumn string // Column with the difficulty, empty for none
	DefaultLevel     models.Difficulty
	SheetName        string // Name of the sheet to import, empty for the first sheet
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:       "A",
		DifficultyColumn: "B",
		DefaultLevel:     models.DifficultyEasy,
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Saved          int
	Skipped        int
	Errors         []string
	Words          []models.SpellingWord
}

// ReadWords parses words from an Excel or CSV file without saving them
func ReadWords(config ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool)
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		rowNum := i + 1
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		word, difficulty, err := parseRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if seen[word] {
			result.Skipped++
			continue
		}
		seen[word] = true
		result.Words = append(result.Words, models.SpellingWord{Word: word, Difficulty: difficulty})
	}

	return result, nil
}

// ImportWords reads a word file and saves its words to store
func ImportWords(ctx context.Context, config ImportConfig, store WordStore) (*ImportResult, error) {
	result, err := ReadWords(config)
	if err != nil {
		return nil, err
	}
	if len(result.Words) == 0 {
		return result, nil
	}

	saved, err := store.UpsertBatch(ctx, result.Words)
	if err != nil {
		return nil, fmt.Errorf("failed to save imported words: %v", err)
	}
	result.Saved = saved
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, config ImportConfig) (string, models.Difficulty, error) {
	var word, difficulty string
	if colIdx := columnToIndex(config.WordColumn); colIdx >= 0 && colIdx < len(row) {
		word = cleanWord(row[colIdx])
	}
	if config.DifficultyColumn != "" {
		if colIdx := columnToIndex(config.DifficultyColumn); colIdx >= 0 && colIdx < len(row) {
			difficulty = row[colIdx]
		}
	}

	if word == "" {
		return "", "", fmt.Errorf("word cannot be empty")
	}
	if strings.ContainsAny(word, " \t") {
		return "", "", fmt.Errorf("%q is not a single word", word)
	}
	return word, parseDifficulty(difficulty, config.DefaultLevel), nil
}

// cleanWord removes extra information in parentheses, e.g. "run (ran, run)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		word = word[:i]
	}
	return strings.ToLower(strings.TrimSpace(word))
}

// parseDifficulty accepts a tier name or a 1-5 rating
func parseDifficulty(s string, fallback models.Difficulty) models.Difficulty {
	s = strings.TrimSpace(s)
	if s == "" {
		if fallback == "" {
			return models.DifficultyEasy
		}
		return fallback
	}
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n <= 2:
			return models.DifficultyEasy
		case n == 3:
			return models.DifficultyMedium
		default:
			return models.DifficultyHard
		}
	}
	return models.ParseDifficulty(s)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
