package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/kidspeak/pkg/models"
)

// LearnerRepository stores learner profiles and per-mode statistics
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

type modeStatsRow struct {
	LearnerID string `db:"learner_id"`
	Mode      string `db:"mode"`
	Stars     int    `db:"stars"`
	Sessions  int    `db:"sessions"`
}

// LoadAll returns every learner keyed by id
func (r *LearnerRepository) LoadAll(ctx context.Context) (map[string]*models.LearnerProfile, error) {
	var profiles []models.LearnerProfile
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT id, password_hash, name, class, division, total_xp, total_stars,
		       level, created_at, last_active
		FROM learners
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get learners: %v", err)
	}

	learners := make(map[string]*models.LearnerProfile, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		p.ModeStats = make(map[models.PracticeMode]models.ModeStats)
		learners[p.ID] = p
	}

	var rows []modeStatsRow
	err = r.db.SelectContext(ctx, &rows, "SELECT learner_id, mode, stars, sessions FROM learner_mode_stats")
	if err != nil {
		return nil, fmt.Errorf("failed to get learner mode stats: %v", err)
	}
	for _, row := range rows {
		if p, ok := learners[row.LearnerID]; ok {
			p.ModeStats[models.PracticeMode(row.Mode)] = models.ModeStats{Stars: row.Stars, Sessions: row.Sessions}
		}
	}

	return learners, nil
}

// SaveAll upserts every learner in a single transaction
func (r *LearnerRepository) SaveAll(ctx context.Context, learners map[string]*models.LearnerProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	learnerQuery := tx.Rebind(`
		INSERT INTO learners (
			id, password_hash, name, class, division, total_xp, total_stars,
			level, created_at, last_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = excluded.password_hash,
			name = excluded.name,
			class = excluded.class,
			division = excluded.division,
			total_xp = excluded.total_xp,
			total_stars = excluded.total_stars,
			level = excluded.level,
			last_active = excluded.last_active
	`)
	statsQuery := tx.Rebind(`
		INSERT INTO learner_mode_stats (learner_id, mode, stars, sessions)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (learner_id, mode) DO UPDATE SET
			stars = excluded.stars,
			sessions = excluded.sessions
	`)

	for id, p := range learners {
		_, err := tx.ExecContext(ctx, learnerQuery,
			id,
			p.PasswordHash,
			p.Name,
			p.Class,
			p.Division,
			p.TotalXP,
			p.TotalStars,
			p.Level,
			p.CreatedAt,
			p.LastActive,
		)
		if err != nil {
			return fmt.Errorf("failed to save learner %s: %v", id, err)
		}

		for mode, stats := range p.ModeStats {
			if _, err := tx.ExecContext(ctx, statsQuery, id, string(mode), stats.Stars, stats.Sessions); err != nil {
				return fmt.Errorf("failed to save mode stats for learner %s: %v", id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit learners: %v", err)
	}
	return nil
}
