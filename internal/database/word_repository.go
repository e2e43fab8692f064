package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/kidspeak/pkg/models"
)

// WordRepository handles database operations for spelling words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetAll returns all words
func (r *WordRepository) GetAll(ctx context.Context) ([]models.SpellingWord, error) {
	var words []models.SpellingWord
	err := r.db.SelectContext(ctx, &words, "SELECT id, word, difficulty, created_at FROM spelling_words ORDER BY word")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// GetByDifficulty returns the words of one difficulty tier
func (r *WordRepository) GetByDifficulty(ctx context.Context, difficulty models.Difficulty) ([]models.SpellingWord, error) {
	var words []models.SpellingWord
	query := r.db.Rebind("SELECT id, word, difficulty, created_at FROM spelling_words WHERE difficulty = ? ORDER BY word")
	if err := r.db.SelectContext(ctx, &words, query, string(difficulty)); err != nil {
		return nil, fmt.Errorf("failed to get words by difficulty: %v", err)
	}
	return words, nil
}

// Upsert inserts a word or updates its difficulty
func (r *WordRepository) Upsert(ctx context.Context, word *models.SpellingWord) error {
	word.Word = strings.ToLower(strings.TrimSpace(word.Word))
	if word.Word == "" {
		return fmt.Errorf("word is empty")
	}

	query := `
		INSERT INTO spelling_words (word, difficulty) VALUES (?, ?)
		ON CONFLICT (word) DO UPDATE SET difficulty = excluded.difficulty
		RETURNING id`
	if err := r.db.GetContext(ctx, &word.ID, r.db.Rebind(query), word.Word, string(word.Difficulty)); err != nil {
		return fmt.Errorf("failed to save word: %v", err)
	}
	return nil
}

// UpsertBatch saves words in one transaction and returns how many were written
func (r *WordRepository) UpsertBatch(ctx context.Context, words []models.SpellingWord) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO spelling_words (word, difficulty) VALUES (?, ?)
		ON CONFLICT (word) DO UPDATE SET difficulty = excluded.difficulty`)

	saved := 0
	for _, w := range words {
		word := strings.ToLower(strings.TrimSpace(w.Word))
		if word == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, word, string(w.Difficulty)); err != nil {
			return 0, fmt.Errorf("failed to save word %q: %v", word, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit words: %v", err)
	}
	return saved, nil
}

// Delete removes a word
func (r *WordRepository) Delete(ctx context.Context, word string) error {
	query := r.db.Rebind("DELETE FROM spelling_words WHERE word = ?")
	if _, err := r.db.ExecContext(ctx, query, strings.ToLower(strings.TrimSpace(word))); err != nil {
		return fmt.Errorf("failed to delete word: %v", err)
	}
	return nil
}
