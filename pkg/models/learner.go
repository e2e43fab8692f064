package models

import "time"

// PracticeMode names a practice activity that earns experience points
type PracticeMode string

const (
	// ModeRepeat is "repeat after me" sentence practice
	ModeRepeat PracticeMode = "repeat"
	// ModeSpellBee is spelling practice
	ModeSpellBee PracticeMode = "spellbee"
)

// ModeStats tracks points and completed sessions for one practice mode
type ModeStats struct {
	Stars    int `json:"stars" db:"stars"`
	Sessions int `json:"sessions" db:"sessions"`
}

// LearnerProfile represents a child using the tutor
type LearnerProfile struct {
	ID           string                     `json:"id" db:"id"`
	PasswordHash string                     `json:"password" db:"password_hash"`
	Name         string                     `json:"name" db:"name"`
	Class        string                     `json:"class" db:"class"`
	Division     string                     `json:"division" db:"division"`
	TotalXP      int                        `json:"total_xp" db:"total_xp"`
	TotalStars   int                        `json:"total_stars" db:"total_stars"`
	Level        int                        `json:"level" db:"level"` // Derived from TotalXP, never set directly
	CreatedAt    time.Time                  `json:"created_at" db:"created_at"`
	LastActive   time.Time                  `json:"last_active" db:"last_active"`
	ModeStats    map[PracticeMode]ModeStats `json:"mode_stats" db:"-"`
}

// Clone returns a deep copy of the profile
func (p *LearnerProfile) Clone() *LearnerProfile {
	c := *p
	c.ModeStats = make(map[PracticeMode]ModeStats, len(p.ModeStats))
	for mode, stats := range p.ModeStats {
		c.ModeStats[mode] = stats
	}
	return &c
}

// LevelChange reports the effect of committing a stage result
type LevelChange struct {
	LeveledUp bool `json:"leveled_up"`
	OldLevel  int  `json:"old_level"`
	NewLevel  int  `json:"new_level"`
}
