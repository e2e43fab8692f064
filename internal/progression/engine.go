package progression

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/pkg/models"
)

// recentStageMemory bounds how many committed stage ids are remembered per learner
const recentStageMemory = 64

// Gateway is the durable store for learner profiles
type Gateway interface {
	LoadAll(ctx context.Context) (map[string]*models.LearnerProfile, error)
	SaveAll(ctx context.Context, learners map[string]*models.LearnerProfile) error
}

type learnerEntry struct {
	mu      sync.Mutex
	profile *models.LearnerProfile
	stages  []string // Recently committed stage ids, oldest first
}

// Engine owns every learner profile of the process and is the only place
// points and levels change. Each learner is locked independently; the
// durable store is written after the learner lock is released.
type Engine struct {
	gateway Gateway
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.RWMutex
	learners map[string]*learnerEntry

	// At most one caller writes to the gateway at a time. Callers arriving
	// during a write set dirty and return; the writer takes a fresh snapshot
	// for them before it stops.
	flushMu  sync.Mutex
	flushing bool
	dirty    bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for recoverable failures
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records commits and level-ups
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock overrides time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine backed by gateway. A nil gateway keeps
// everything in memory.
func NewEngine(gateway Gateway, opts ...Option) *Engine {
	e := &Engine{
		gateway:  gateway,
		logger:   slog.Default(),
		now:      time.Now,
		learners: make(map[string]*learnerEntry),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load replaces the in-memory profiles with the gateway contents. It is
// called once at process start. Stored levels are recomputed from points.
func (e *Engine) Load(ctx context.Context) error {
	if e.gateway == nil {
		return nil
	}
	profiles, err := e.gateway.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: load learners: %v", ErrPersistence, err)
	}

	learners := make(map[string]*learnerEntry, len(profiles))
	for id, p := range profiles {
		if p == nil {
			continue
		}
		p.ID = id
		if p.ModeStats == nil {
			p.ModeStats = make(map[models.PracticeMode]models.ModeStats)
		}
		if level := LevelForPoints(p.TotalXP); level != p.Level {
			e.logger.Warn("stored level disagrees with points, recomputing",
				"learner_id", id, "stored_level", p.Level, "level", level)
			p.Level = level
		}
		learners[id] = &learnerEntry{profile: p}
	}

	e.mu.Lock()
	e.learners = learners
	e.mu.Unlock()

	e.logger.Info("learners loaded", "count", len(learners))
	return nil
}

// CreateLearner registers a new profile with zero points at level 1.
func (e *Engine) CreateLearner(ctx context.Context, p *models.LearnerProfile) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: learner id is required", ErrMalformedInput)
	}

	now := e.now()
	profile := p.Clone()
	profile.TotalXP = 0
	profile.TotalStars = 0
	profile.Level = 1
	profile.CreatedAt = now
	profile.LastActive = now
	profile.ModeStats = make(map[models.PracticeMode]models.ModeStats)

	e.mu.Lock()
	if _, exists := e.learners[profile.ID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLearnerExists, profile.ID)
	}
	e.learners[profile.ID] = &learnerEntry{profile: profile}
	e.mu.Unlock()

	e.persist(ctx, "create learner")
	return nil
}

// Profile returns a copy of the learner's profile.
func (e *Engine) Profile(learnerID string) (*models.LearnerProfile, error) {
	entry := e.lookup(learnerID)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLearner, learnerID)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.profile.Clone(), nil
}

// Learners returns copies of every profile ordered by id.
func (e *Engine) Learners() []*models.LearnerProfile {
	snapshot := e.snapshot()
	out := make([]*models.LearnerProfile, 0, len(snapshot))
	for _, p := range snapshot {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyStageResult commits the stars of a completed stage to the learner.
// An unknown learner is a recoverable caller error: nothing changes and the
// result is nil.
func (e *Engine) ApplyStageResult(ctx context.Context, learnerID string, stars int, mode models.PracticeMode) (*models.LevelChange, error) {
	return e.apply(ctx, learnerID, "", stars, mode)
}

// ApplyStageResultOnce behaves like ApplyStageResult but ignores a stage id
// that was already committed for this learner.
func (e *Engine) ApplyStageResultOnce(ctx context.Context, learnerID, stageID string, stars int, mode models.PracticeMode) (*models.LevelChange, error) {
	if stageID == "" {
		return nil, fmt.Errorf("%w: stage id is required", ErrMalformedInput)
	}
	return e.apply(ctx, learnerID, stageID, stars, mode)
}

// Touch records learner activity, e.g. at logout.
func (e *Engine) Touch(ctx context.Context, learnerID string) error {
	entry := e.lookup(learnerID)
	if entry == nil {
		return fmt.Errorf("%w: %s", ErrUnknownLearner, learnerID)
	}
	entry.mu.Lock()
	entry.profile.LastActive = e.now()
	entry.mu.Unlock()

	e.persist(ctx, "touch learner")
	return nil
}

func (e *Engine) apply(ctx context.Context, learnerID, stageID string, stars int, mode models.PracticeMode) (*models.LevelChange, error) {
	if stars < 0 {
		return nil, fmt.Errorf("%w: stars must not be negative, got %d", ErrMalformedInput, stars)
	}
	if mode == "" {
		return nil, fmt.Errorf("%w: practice mode is required", ErrMalformedInput)
	}

	entry := e.lookup(learnerID)
	if entry == nil {
		e.logger.Warn("stage result for unknown learner ignored", "learner_id", learnerID, "mode", mode)
		return nil, nil
	}

	change, applied := entry.commit(stageID, stars, mode, e.now())
	if !applied {
		e.logger.Info("duplicate stage commit ignored", "learner_id", learnerID, "stage_id", stageID)
		return nil, nil
	}

	e.metrics.StageCommitted(string(mode), stars)
	if change.LeveledUp {
		e.metrics.LevelUp()
		e.logger.Info("learner leveled up",
			"learner_id", learnerID, "old_level", change.OldLevel, "new_level", change.NewLevel)
	}

	e.persist(ctx, "apply stage result")
	return change, nil
}

func (entry *learnerEntry) commit(stageID string, stars int, mode models.PracticeMode, now time.Time) (*models.LevelChange, bool) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if stageID != "" {
		if slices.Contains(entry.stages, stageID) {
			return nil, false
		}
		entry.stages = append(entry.stages, stageID)
		if len(entry.stages) > recentStageMemory {
			entry.stages = entry.stages[len(entry.stages)-recentStageMemory:]
		}
	}

	p := entry.profile
	oldLevel := p.Level
	p.TotalXP += stars
	p.TotalStars += stars
	p.Level = LevelForPoints(p.TotalXP)
	p.LastActive = now

	stats := p.ModeStats[mode]
	stats.Stars += stars
	stats.Sessions++
	p.ModeStats[mode] = stats

	return &models.LevelChange{
		LeveledUp: p.Level > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  p.Level,
	}, true
}

func (e *Engine) lookup(learnerID string) *learnerEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.learners[learnerID]
}

// snapshot copies every profile, locking one learner at a time.
func (e *Engine) snapshot() map[string]*models.LearnerProfile {
	e.mu.RLock()
	entries := make([]*learnerEntry, 0, len(e.learners))
	for _, entry := range e.learners {
		entries = append(entries, entry)
	}
	e.mu.RUnlock()

	out := make(map[string]*models.LearnerProfile, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		p := entry.profile.Clone()
		entry.mu.Unlock()
		out[p.ID] = p
	}
	return out
}

// persist writes all profiles. Failures are logged and not retried; the
// in-memory state remains authoritative. Must not be called with a learner
// lock held. When another call is already writing, persist returns at once
// and that call saves this change with its next snapshot.
func (e *Engine) persist(ctx context.Context, reason string) {
	if e.gateway == nil {
		return
	}

	e.flushMu.Lock()
	e.dirty = true
	if e.flushing {
		e.flushMu.Unlock()
		return
	}
	e.flushing = true
	for e.dirty {
		e.dirty = false
		e.flushMu.Unlock()
		e.save(ctx, reason)
		e.flushMu.Lock()
	}
	e.flushing = false
	e.flushMu.Unlock()
}

func (e *Engine) save(ctx context.Context, reason string) {
	if err := e.gateway.SaveAll(ctx, e.snapshot()); err != nil {
		e.metrics.PersistenceFailure("learners")
		e.logger.Error("failed to save learners",
			"reason", reason, "error", fmt.Errorf("%w: %v", ErrPersistence, err))
	}
}
