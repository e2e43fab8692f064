package practice

import (
	"github.com/google/uuid"

	"github.com/example/kidspeak/pkg/models"
)

// StageSize is the number of items in one practice stage
const StageSize = 5

// Stage counts the items of one practice block. Only the answer to the last
// item carries the stage-complete flag, so a stage commits points once.
// A Stage is not safe for concurrent use.
type Stage struct {
	ID    string
	Mode  models.PracticeMode
	Size  int
	Item  string // Current reference sentence or word
	done  int
	stars int
}

// NewStage starts a stage of StageSize items with a fresh id
func NewStage(mode models.PracticeMode) *Stage {
	return &Stage{
		ID:   uuid.NewString(),
		Mode: mode,
		Size: StageSize,
	}
}

// Present sets the item the learner is answering
func (s *Stage) Present(item string) {
	s.Item = item
}

// Answered records the stars of one graded item. It reports whether this
// answer completes the stage.
func (s *Stage) Answered(stars int) bool {
	if s.Complete() {
		return false
	}
	s.done++
	s.stars += stars
	return s.Complete()
}

// IsLast reports whether the next answer completes the stage
func (s *Stage) IsLast() bool {
	return s.done == s.Size-1
}

// Complete reports whether every item was answered
func (s *Stage) Complete() bool {
	return s.done >= s.Size
}

// Done returns the number of answered items
func (s *Stage) Done() int {
	return s.done
}

// Stars returns the stars earned across answered items
func (s *Stage) Stars() int {
	return s.stars
}
