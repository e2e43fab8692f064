// Package evaluator grades practice attempts and commits finished stages.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/internal/similarity"
	"github.com/example/kidspeak/pkg/models"
)

// Committer records the stars of a completed stage
type Committer interface {
	ApplyStageResult(ctx context.Context, learnerID string, stars int, mode models.PracticeMode) (*models.LevelChange, error)
	ApplyStageResultOnce(ctx context.Context, learnerID, stageID string, stars int, mode models.PracticeMode) (*models.LevelChange, error)
}

// AttemptRequest is one learner answer. LearnerID may be empty for guests,
// in which case nothing is committed.
type AttemptRequest struct {
	LearnerID     string `json:"learner_id" validate:"omitempty,max=64"`
	Student       string `json:"student"`
	Reference     string `json:"correct" validate:"required,max=500"`
	StageComplete bool   `json:"stage_complete"`
	StageID       string `json:"stage_id" validate:"omitempty,max=64"`
}

// Result is what the learner sees after an attempt
type Result struct {
	Outcome         models.StageOutcome    `json:"outcome"`
	Score           int                    `json:"score"`
	Feedback        string                 `json:"feedback"`
	Words           []models.TokenJudgment `json:"word_comparison,omitempty"`
	Letters         []models.TokenJudgment `json:"letter_comparison,omitempty"`
	CorrectSpelling string                 `json:"correct_spelling,omitempty"`
	LevelChange     *models.LevelChange    `json:"level_info"`
	StarsSaved      bool                   `json:"stars_saved"`
}

// Evaluator ties the grading functions to the progression engine
type Evaluator struct {
	committer Committer
	validate  *validator.Validate
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewEvaluator creates an evaluator. m may be nil.
func NewEvaluator(committer Committer, m *metrics.Metrics, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		committer: committer,
		validate:  validator.New(),
		metrics:   m,
		logger:    logger,
	}
}

// CheckRepeat grades a repeat-after-me attempt.
func (e *Evaluator) CheckRepeat(ctx context.Context, req AttemptRequest) (*Result, error) {
	if err := e.check(req); err != nil {
		return nil, err
	}

	outcome := EvaluateRepeatAttempt(req.Student, req.Reference, req.StageComplete)
	result := &Result{
		Outcome:    outcome,
		Score:      score(outcome.Ratio),
		Feedback:   repeatFeedback(outcome.Stars),
		Words:      similarity.CompareWords(req.Student, req.Reference),
		StarsSaved: req.StageComplete,
	}
	e.metrics.RecordAttempt(string(models.ModeRepeat), outcome.Stars == 3, result.Score)

	change, err := e.commit(ctx, req, outcome, models.ModeRepeat)
	if err != nil {
		return nil, err
	}
	result.LevelChange = change
	return result, nil
}

// CheckSpelling grades a spelling attempt.
func (e *Evaluator) CheckSpelling(ctx context.Context, req AttemptRequest) (*Result, error) {
	if err := e.check(req); err != nil {
		return nil, err
	}

	outcome := EvaluateSpellingAttempt(req.Student, req.Reference, req.StageComplete)
	result := &Result{
		Outcome:         outcome,
		Score:           score(outcome.Ratio),
		Feedback:        spellingFeedback(outcome),
		Letters:         similarity.CompareSpelling(req.Student, req.Reference),
		CorrectSpelling: strings.ToLower(strings.TrimSpace(req.Reference)),
		StarsSaved:      req.StageComplete,
	}
	e.metrics.RecordAttempt(string(models.ModeSpellBee), outcome.Exact, result.Score)

	change, err := e.commit(ctx, req, outcome, models.ModeSpellBee)
	if err != nil {
		return nil, err
	}
	result.LevelChange = change
	return result, nil
}

func (e *Evaluator) check(req AttemptRequest) error {
	if err := e.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", progression.ErrMalformedInput, err)
	}
	return nil
}

func (e *Evaluator) commit(ctx context.Context, req AttemptRequest, outcome models.StageOutcome, mode models.PracticeMode) (*models.LevelChange, error) {
	if !outcome.Committable || req.LearnerID == "" || e.committer == nil {
		return nil, nil
	}

	var (
		change *models.LevelChange
		err    error
	)
	if req.StageID != "" {
		change, err = e.committer.ApplyStageResultOnce(ctx, req.LearnerID, req.StageID, outcome.Stars, mode)
	} else {
		change, err = e.committer.ApplyStageResult(ctx, req.LearnerID, outcome.Stars, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to commit stage result: %w", err)
	}

	e.logger.Debug("stage committed",
		"learner_id", req.LearnerID, "mode", mode, "stars", outcome.Stars, "stage_id", req.StageID)
	return change, nil
}

func score(ratio float64) int {
	return int(math.RoundToEven(ratio * 100))
}
