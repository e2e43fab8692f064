package evaluator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

type commitCall struct {
	learnerID string
	stageID   string
	stars     int
	mode      models.PracticeMode
}

type fakeCommitter struct {
	calls []commitCall
	err   error
}

func (f *fakeCommitter) ApplyStageResult(ctx context.Context, learnerID string, stars int, mode models.PracticeMode) (*models.LevelChange, error) {
	f.calls = append(f.calls, commitCall{learnerID: learnerID, stars: stars, mode: mode})
	if f.err != nil {
		return nil, f.err
	}
	return &models.LevelChange{OldLevel: 1, NewLevel: 1}, nil
}

func (f *fakeCommitter) ApplyStageResultOnce(ctx context.Context, learnerID, stageID string, stars int, mode models.PracticeMode) (*models.LevelChange, error) {
	f.calls = append(f.calls, commitCall{learnerID: learnerID, stageID: stageID, stars: stars, mode: mode})
	return &models.LevelChange{OldLevel: 1, NewLevel: 1}, nil
}

func newTestEvaluator(c Committer) *Evaluator {
	return NewEvaluator(c, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCheckRepeatWithoutStageComplete(t *testing.T) {
	c := &fakeCommitter{}
	e := newTestEvaluator(c)

	result, err := e.CheckRepeat(context.Background(), AttemptRequest{
		LearnerID: "101",
		Student:   "I love ice",
		Reference: "I love ice cream",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Outcome.Stars)
	assert.Equal(t, 77, result.Score)
	assert.Equal(t, "Great job! Keep practicing!", result.Feedback)
	assert.Len(t, result.Words, 4)
	assert.Equal(t, models.StatusMissing, result.Words[3].Status)
	assert.Nil(t, result.LevelChange)
	assert.False(t, result.StarsSaved)
	assert.Empty(t, c.calls)
}

func TestCheckRepeatCommitsOnStageComplete(t *testing.T) {
	c := &fakeCommitter{}
	e := newTestEvaluator(c)

	result, err := e.CheckRepeat(context.Background(), AttemptRequest{
		LearnerID:     "101",
		Student:       "I love ice cream",
		Reference:     "I love ice cream",
		StageComplete: true,
	})
	require.NoError(t, err)
	assert.True(t, result.StarsSaved)
	assert.NotNil(t, result.LevelChange)
	assert.Equal(t, 100, result.Score)
	require.Len(t, c.calls, 1)
	assert.Equal(t, commitCall{learnerID: "101", stars: 3, mode: models.ModeRepeat}, c.calls[0])
}

func TestCheckSpellingUsesStageID(t *testing.T) {
	c := &fakeCommitter{}
	e := newTestEvaluator(c)

	result, err := e.CheckSpelling(context.Background(), AttemptRequest{
		LearnerID:     "101",
		Student:       "ct",
		Reference:     " Cat ",
		StageComplete: true,
		StageID:       "stage-a",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Outcome.Stars)
	assert.False(t, result.Outcome.Exact)
	assert.Equal(t, "cat", result.CorrectSpelling)
	assert.Equal(t, []models.TokenJudgment{
		{Token: "c", Status: models.StatusCorrect},
		{Token: "a", Status: models.StatusIncorrect, Actual: "t"},
		{Token: "t", Status: models.StatusMissing},
	}, result.Letters)
	require.Len(t, c.calls, 1)
	assert.Equal(t, commitCall{learnerID: "101", stageID: "stage-a", stars: 2, mode: models.ModeSpellBee}, c.calls[0])
}

func TestGuestAttemptIsNotCommitted(t *testing.T) {
	c := &fakeCommitter{}
	e := newTestEvaluator(c)

	result, err := e.CheckSpelling(context.Background(), AttemptRequest{
		Student:       "cat",
		Reference:     "cat",
		StageComplete: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Outcome.Exact)
	assert.True(t, result.StarsSaved)
	assert.Nil(t, result.LevelChange)
	assert.Empty(t, c.calls)
}

func TestMalformedRequest(t *testing.T) {
	e := newTestEvaluator(&fakeCommitter{})

	_, err := e.CheckRepeat(context.Background(), AttemptRequest{Student: "hi"})
	assert.ErrorIs(t, err, progression.ErrMalformedInput)

	_, err = e.CheckSpelling(context.Background(), AttemptRequest{Student: "hi"})
	assert.ErrorIs(t, err, progression.ErrMalformedInput)
}

func TestCommitErrorSurfaces(t *testing.T) {
	c := &fakeCommitter{err: progression.ErrMalformedInput}
	e := newTestEvaluator(c)

	_, err := e.CheckRepeat(context.Background(), AttemptRequest{
		LearnerID:     "101",
		Student:       "hi",
		Reference:     "hi",
		StageComplete: true,
	})
	assert.True(t, errors.Is(err, progression.ErrMalformedInput))
}

func TestCheckAgainstEngine(t *testing.T) {
	engine := progression.NewEngine(nil, progression.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, engine.CreateLearner(context.Background(), &models.LearnerProfile{ID: "101"}))
	e := newTestEvaluator(engine)

	for i := 0; i < 9; i++ {
		_, err := e.CheckSpelling(context.Background(), AttemptRequest{
			LearnerID: "101", Student: "cat", Reference: "cat", StageComplete: true,
		})
		require.NoError(t, err)
	}

	p, err := engine.Profile("101")
	require.NoError(t, err)
	assert.Equal(t, 27, p.TotalXP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 9, p.ModeStats[models.ModeSpellBee].Sessions)
}
