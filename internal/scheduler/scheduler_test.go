package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kidspeak/internal/contextstore"
	"github.com/example/kidspeak/pkg/models"
)

type countingSweeper struct {
	mu     sync.Mutex
	calls  int
	maxAge time.Duration
}

func (c *countingSweeper) SweepIdle(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.maxAge = maxIdle
	return 1
}

func (c *countingSweeper) Len() int { return 0 }

func (c *countingSweeper) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDefaults(t *testing.T) {
	s := New(&countingSweeper{}, 0, 0, nil, quietLogger())
	assert.Equal(t, DefaultIdleTTL, s.idleTTL)
	assert.Equal(t, DefaultSweepInterval, s.interval)
}

func TestSweepIdleContexts(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(sweeper, time.Hour, time.Minute, nil, quietLogger())

	assert.Equal(t, 1, s.SweepIdleContexts())
	assert.Equal(t, time.Hour, sweeper.maxAge)
}

func TestSweepAgainstStore(t *testing.T) {
	store := contextstore.NewStore()
	store.Append("101", models.ContextConversation, "hello")

	s := New(store, time.Hour, time.Minute, nil, quietLogger())
	assert.Equal(t, 0, s.SweepIdleContexts())
	assert.Equal(t, 1, store.Len())
}

func TestStartRunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(sweeper, time.Hour, time.Second, nil, quietLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return sweeper.count() > 0 }, 3*time.Second, 20*time.Millisecond)
}
