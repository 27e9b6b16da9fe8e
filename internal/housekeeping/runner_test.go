package housekeeping_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/housekeeping"
)

type countingMaintainer struct {
	runs atomic.Int64
}

func (c *countingMaintainer) RunHousekeeping(ctx context.Context, now time.Time) error {
	c.runs.Add(1)
	return nil
}

func TestRunnerRunsAtStartupAndOnTick(t *testing.T) {
	maintainer := &countingMaintainer{}
	runner := housekeeping.NewRunner(maintainer, 20*time.Millisecond)

	runner.Start(context.Background())
	require.Eventually(t, func() bool { return maintainer.runs.Load() >= 3 },
		time.Second, 5*time.Millisecond, "startup run plus periodic ticks")
	runner.Stop()

	after := maintainer.runs.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, maintainer.runs.Load(), "no runs after Stop")
}

func TestRunnerToleratesZeroInterval(t *testing.T) {
	maintainer := &countingMaintainer{}
	runner := housekeeping.NewRunner(maintainer, 0)

	runner.Start(context.Background())
	require.Eventually(t, func() bool { return maintainer.runs.Load() >= 1 },
		time.Second, 5*time.Millisecond, "the startup pass still runs")
	runner.Stop()
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	d := housekeeping.UntilNextMidnight(now)
	assert.Equal(t, time.Hour+time.Second, d)
}
