package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boot = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestNewStartsUnsetAtEpoch(t *testing.T) {
	clk := clockwork.NewFakeClockAt(boot)
	s := New(clk, DefaultSyncInterval)

	assert.Equal(t, StatusNotSet, s.Status())
	assert.True(t, s.Now().Equal(time.Unix(0, 0).UTC()), "got %v", s.Now())
	assert.True(t, s.Phase(), "blink phase starts dim")
	assert.True(t, s.Dim())
	assert.True(t, s.LastSync().IsZero())

	clk.Advance(90 * time.Second)
	assert.Equal(t, 1, s.Now().Minute())
	assert.Equal(t, 30, s.Now().Second())
}

func TestSetTimeRunsForward(t *testing.T) {
	clk := clockwork.NewFakeClockAt(boot)
	s := New(clk, DefaultSyncInterval)

	s.SetTime(2023, 10, 15, 14, 30, 22)
	require.Equal(t, StatusSet, s.Status())
	assert.Equal(t, time.Date(2023, 10, 15, 14, 30, 22, 0, time.UTC), s.Now())
	assert.True(t, s.LastSync().Equal(boot))

	clk.Advance(38 * time.Second)
	assert.Equal(t, time.Date(2023, 10, 15, 14, 31, 0, 0, time.UTC), s.Now())
}

func TestSetTimeNormalisesGarbage(t *testing.T) {
	s := New(clockwork.NewFakeClockAt(boot), DefaultSyncInterval)
	s.SetTime(2023, 13, 1, 25, 0, 0)

	assert.Equal(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), s.Now())
}

func TestStatusGoesStale(t *testing.T) {
	clk := clockwork.NewFakeClockAt(boot)
	s := New(clk, 10*time.Minute)
	s.SetTime(2023, 10, 15, 14, 30, 0)

	clk.Advance(10*time.Minute - time.Second)
	assert.Equal(t, StatusSet, s.Status())

	clk.Advance(time.Second)
	assert.Equal(t, StatusNeedsSync, s.Status())
	assert.True(t, s.Dim(), "stale time blinks on the dim phase")

	s.SetTime(2023, 10, 15, 14, 40, 0)
	assert.Equal(t, StatusSet, s.Status())
	assert.False(t, s.Dim())
}

func TestStatusNeverStaleWhenIntervalDisabled(t *testing.T) {
	clk := clockwork.NewFakeClockAt(boot)
	s := New(clk, 0)
	s.SetTime(2023, 10, 15, 14, 30, 0)

	clk.Advance(365 * 24 * time.Hour)
	assert.Equal(t, StatusSet, s.Status())
}

func TestTogglePhase(t *testing.T) {
	s := New(clockwork.NewFakeClockAt(boot), 0)

	assert.False(t, s.TogglePhase())
	assert.False(t, s.Phase())
	assert.True(t, s.TogglePhase())
	assert.True(t, s.Phase())
}

func TestTogglePhaseConcurrent(t *testing.T) {
	s := New(clockwork.NewFakeClockAt(boot), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.TogglePhase()
			}
		}()
	}
	wg.Wait()

	// 8000 toggles from true lands back on true.
	assert.True(t, s.Phase())
}

func TestFlags(t *testing.T) {
	s := New(nil, 0)

	s.SetRelay(true)
	s.SetBuzzer(true)
	s.SetLights(true)
	snap := s.Snapshot()
	assert.True(t, snap.Relay)
	assert.True(t, snap.Buzzer)
	assert.True(t, snap.Lights)
	assert.Equal(t, StatusNotSet, snap.Status)

	s.SetBuzzer(false)
	assert.False(t, s.Buzzer())
	assert.True(t, s.Relay())
}

func TestSyncStatusString(t *testing.T) {
	assert.Equal(t, "NOT_SET", StatusNotSet.String())
	assert.Equal(t, "NEEDS_SYNC", StatusNeedsSync.String())
	assert.Equal(t, "SET", StatusSet.String())
	assert.Equal(t, "UNKNOWN", SyncStatus(42).String())
}
