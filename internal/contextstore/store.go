// Package contextstore keeps the rolling dialogue transcript of every learner.
package contextstore

import (
	"sync"
	"time"

	"github.com/example/kidspeak/pkg/models"
)

// MaxContextRunes is how many trailing code points of a transcript are kept
const MaxContextRunes = 1200

type learnerContexts struct {
	mu      sync.Mutex
	buffers map[models.ContextMode]string
	touched time.Time
}

// clearMark records when a learner's transcripts were last dropped
type clearMark struct {
	seq uint64
	at  time.Time
}

// Version identifies the point at which a transcript was read. Update
// refuses to write for a learner cleared after that point.
type Version uint64

// Store holds one transcript per learner and context mode. Each learner has
// its own lock; the map lock is only taken to find or remove a learner.
type Store struct {
	mu       sync.RWMutex
	learners map[string]*learnerContexts
	cleared  map[string]clearMark
	seq      uint64 // Incremented by every Clear
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		learners: make(map[string]*learnerContexts),
		cleared:  make(map[string]clearMark),
		now:      time.Now,
	}
}

// Get returns the stored transcript, or "" when there is none.
func (s *Store) Get(learnerID string, mode models.ContextMode) string {
	s.mu.RLock()
	lc := s.learners[learnerID]
	s.mu.RUnlock()
	if lc == nil {
		return ""
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.buffers[mode]
}

// Snapshot returns the stored transcript together with the version to pass
// to Update once the next exchange is known.
func (s *Store) Snapshot(learnerID string, mode models.ContextMode) (string, Version) {
	s.mu.RLock()
	v := Version(s.seq)
	lc := s.learners[learnerID]
	s.mu.RUnlock()
	if lc == nil {
		return "", v
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.buffers[mode], v
}

// Update rewrites the transcript with fn applied to its current value,
// holding the learner's lock, and keeps the trailing MaxContextRunes code
// points. ok is false, and nothing is written, when the learner was cleared
// after since was taken.
func (s *Store) Update(learnerID string, mode models.ContextMode, since Version, fn func(current string) string) (stored string, ok bool) {
	lc, ok := s.entrySince(learnerID, since)
	if !ok {
		return "", false
	}
	defer lc.mu.Unlock()

	stored = truncate(fn(lc.buffers[mode]))
	lc.buffers[mode] = stored
	lc.touched = s.now()
	return stored, true
}

// entrySince returns the learner's entry locked, creating it when missing,
// unless the learner was cleared after since.
func (s *Store) entrySince(learnerID string, since Version) (*learnerContexts, bool) {
	s.mu.RLock()
	if s.clearedSince(learnerID, since) {
		s.mu.RUnlock()
		return nil, false
	}
	if lc := s.learners[learnerID]; lc != nil {
		lc.mu.Lock()
		s.mu.RUnlock()
		return lc, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearedSince(learnerID, since) {
		return nil, false
	}
	lc := s.learners[learnerID]
	if lc == nil {
		lc = &learnerContexts{buffers: make(map[models.ContextMode]string)}
		s.learners[learnerID] = lc
	}
	lc.mu.Lock()
	return lc, true
}

// clearedSince must be called with s.mu held
func (s *Store) clearedSince(learnerID string, since Version) bool {
	mark, ok := s.cleared[learnerID]
	return ok && mark.seq > uint64(since)
}

// Append replaces the transcript with the trailing MaxContextRunes code
// points of fullText and returns what was stored. Callers pass the previous
// transcript with the new exchange already appended.
func (s *Store) Append(learnerID string, mode models.ContextMode, fullText string) string {
	stored := truncate(fullText)
	lc := s.entry(learnerID)

	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.buffers[mode] = stored
	lc.touched = s.now()
	return stored
}

// Clear drops every transcript of the learner.
func (s *Store) Clear(learnerID string) {
	s.mu.Lock()
	s.seq++
	s.cleared[learnerID] = clearMark{seq: s.seq, at: s.now()}
	delete(s.learners, learnerID)
	s.mu.Unlock()
}

// SweepIdle clears learners whose transcripts were not written for maxIdle
// and returns how many were removed. Clear marks older than maxIdle are
// forgotten too.
func (s *Store) SweepIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, lc := range s.learners {
		lc.mu.Lock()
		idle := lc.touched.Before(cutoff)
		lc.mu.Unlock()
		if idle {
			delete(s.learners, id)
			removed++
		}
	}
	for id, mark := range s.cleared {
		if mark.at.Before(cutoff) {
			delete(s.cleared, id)
		}
	}
	return removed
}

// Len returns the number of learners with at least one transcript
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.learners)
}

func (s *Store) entry(learnerID string) *learnerContexts {
	s.mu.RLock()
	lc := s.learners[learnerID]
	s.mu.RUnlock()
	if lc != nil {
		return lc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if lc = s.learners[learnerID]; lc == nil {
		lc = &learnerContexts{buffers: make(map[models.ContextMode]string)}
		s.learners[learnerID] = lc
	}
	return lc
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= MaxContextRunes {
		return text
	}
	return string(r[len(r)-MaxContextRunes:])
}
