// Package coach runs conversation and roleplay practice on top of a
// dialogue collaborator and the per-learner context store.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/kidspeak/internal/contextstore"
	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/internal/progression"
	"github.com/example/kidspeak/pkg/models"
)

// Dialogue produces a coach answer for the learner's text given the
// transcript so far. role is empty in conversation mode.
type Dialogue interface {
	Reply(ctx context.Context, text, history string, mode models.ContextMode, role string) (string, error)
}

// Coach keeps one transcript per learner and mode
type Coach struct {
	dialogue Dialogue
	store    *contextstore.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a coach. m may be nil.
func New(dialogue Dialogue, store *contextstore.Store, m *metrics.Metrics, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{
		dialogue: dialogue,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// Converse sends one learner utterance to the coach. A non-empty role
// selects roleplay mode. The transcript is only updated when the dialogue
// call succeeds; the exchange is appended to the transcript as it is when
// the reply arrives, and dropped if End ran in the meantime.
func (c *Coach) Converse(ctx context.Context, learnerID, text, role string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if learnerID == "" || text == "" {
		return nil, fmt.Errorf("%w: learner id and text are required", progression.ErrMalformedInput)
	}

	mode, speaker := models.ContextConversation, "Child"
	if role != "" {
		mode, speaker = models.ContextRoleplay, "Student"
	}

	history, version := c.store.Snapshot(learnerID, mode)

	start := time.Now()
	raw, err := c.dialogue.Reply(ctx, text, history, mode, role)
	c.metrics.RecordDialogue(string(mode), err == nil, time.Since(start))
	if err != nil {
		c.logger.Error("dialogue request failed", "learner_id", learnerID, "mode", mode, "error", err)
		return nil, fmt.Errorf("failed to get coach reply: %w", err)
	}

	turn := fmt.Sprintf("\n%s: %s\nAssistant: %s", speaker, text, raw)
	if _, ok := c.store.Update(learnerID, mode, version, func(current string) string {
		return current + turn
	}); !ok {
		c.logger.Info("session ended during reply, exchange not kept", "learner_id", learnerID, "mode", mode)
	}
	c.metrics.SetActiveContexts(c.store.Len())

	reply := ParseReply(raw)
	return &reply, nil
}

// End forgets every transcript of the learner, e.g. at logout.
func (c *Coach) End(learnerID string) {
	c.store.Clear(learnerID)
	c.metrics.SetActiveContexts(c.store.Len())
}

// History returns the stored transcript for one mode
func (c *Coach) History(learnerID string, mode models.ContextMode) string {
	return c.store.Get(learnerID, mode)
}
