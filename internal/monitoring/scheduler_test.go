package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls int
}

func (f *fakeSweeper) Sweep() int {
	f.calls++
	return 2
}

type fakePruner struct {
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) Prune(ctx context.Context, before time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, before)
	return 1, f.err
}

func TestScheduler_SweepSessions(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewScheduler(sweeper, &fakePruner{}, time.Hour)

	s.sweepSessions()
	s.sweepSessions()
	assert.Equal(t, 2, sweeper.calls)
}

func TestScheduler_PruneEventsUsesRetention(t *testing.T) {
	pruner := &fakePruner{}
	s := NewScheduler(&fakeSweeper{}, pruner, 48*time.Hour)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.pruneEvents()
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, now.Add(-48*time.Hour), pruner.cutoffs[0])

	pruner.err = errors.New("db gone")
	s.pruneEvents()
	assert.Len(t, pruner.cutoffs, 2)
}

func TestScheduler_StartRegistersJobs(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, &fakePruner{}, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
}

func TestScheduler_NoRetentionSkipsPruning(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, &fakePruner{}, 0)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
}
