// Package clock holds the shared clock state: the authoritative wall time and
// the relay, buzzer, lights and blink flags.
//
// State is shared between the main display loop and the tick task. Every
// field is an independent atomic value; there is no multi-field critical
// section. The wall time is a single offset against the injected clock, so a
// sync replaces it in one store.
package clock

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// SyncStatus reports how trustworthy the wall time is.
type SyncStatus int

const (
	// StatusNotSet means no sync line has been applied since startup.
	StatusNotSet SyncStatus = iota
	// StatusNeedsSync means the last sync is older than the sync interval.
	StatusNeedsSync
	// StatusSet means the time was synced recently.
	StatusSet
)

func (s SyncStatus) String() string {
	switch s {
	case StatusNotSet:
		return "NOT_SET"
	case StatusNeedsSync:
		return "NEEDS_SYNC"
	case StatusSet:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// DefaultSyncInterval is how long a sync stays fresh.
const DefaultSyncInterval = 10 * time.Minute

// State is the process-wide clock state.
type State struct {
	clk          clockwork.Clock
	syncInterval time.Duration

	// offset is wall time minus clk time, in nanoseconds.
	offset atomic.Int64
	// lastSync is the clk time of the last sync in Unix nanoseconds, 0 if never.
	lastSync atomic.Int64

	relay  atomic.Bool
	buzzer atomic.Bool
	lights atomic.Bool
	// phase is true during the dim half of the blink cycle.
	phase atomic.Bool
}

// New creates an unset State. Until the first sync the wall time runs from
// the Unix epoch, counted from the moment New is called.
// A syncInterval <= 0 keeps a synced time fresh forever.
func New(clk clockwork.Clock, syncInterval time.Duration) *State {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	s := &State{clk: clk, syncInterval: syncInterval}
	s.offset.Store(-clk.Now().UnixNano())
	s.phase.Store(true)
	return s
}

// Now returns the current wall time. Wall time is zone-less and reported in UTC.
func (s *State) Now() time.Time {
	return s.clk.Now().Add(time.Duration(s.offset.Load())).UTC()
}

// SetTime sets the wall time and marks it synced. Out-of-range fields are
// normalised the way time.Date does.
func (s *State) SetTime(year, month, day, hour, minute, second int) {
	wall := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	now := s.clk.Now()
	s.offset.Store(wall.UnixNano() - now.UnixNano())
	s.lastSync.Store(now.UnixNano())
}

// Status reports whether the time has been synced and is still fresh.
func (s *State) Status() SyncStatus {
	last := s.lastSync.Load()
	if last == 0 {
		return StatusNotSet
	}
	if s.syncInterval > 0 && s.clk.Now().UnixNano()-last >= int64(s.syncInterval) {
		return StatusNeedsSync
	}
	return StatusSet
}

// LastSync returns the local clock time of the last sync, zero if never synced.
func (s *State) LastSync() time.Time {
	last := s.lastSync.Load()
	if last == 0 {
		return time.Time{}
	}
	return time.Unix(0, last)
}

// Relay reports the relay flag.
func (s *State) Relay() bool { return s.relay.Load() }

// SetRelay sets the relay flag.
func (s *State) SetRelay(on bool) { s.relay.Store(on) }

// Buzzer reports the buzzer flag.
func (s *State) Buzzer() bool { return s.buzzer.Load() }

// SetBuzzer sets the buzzer flag.
func (s *State) SetBuzzer(on bool) { s.buzzer.Store(on) }

// Lights reports whether the LED ring animation is enabled.
func (s *State) Lights() bool { return s.lights.Load() }

// SetLights sets the lights flag.
func (s *State) SetLights(on bool) { s.lights.Store(on) }

// Phase reports whether the display is in the dim half of the blink cycle.
func (s *State) Phase() bool { return s.phase.Load() }

// TogglePhase flips the blink phase and returns the new value.
func (s *State) TogglePhase() bool {
	for {
		old := s.phase.Load()
		if s.phase.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Dim reports whether the display should be blank this pass: the time is not
// freshly synced and the blink phase is dim.
func (s *State) Dim() bool {
	return s.Status() != StatusSet && s.Phase()
}

// Snapshot is a point-in-time copy of State.
// Fields are read one at a time, not atomically as a set.
type Snapshot struct {
	Time     time.Time
	Status   SyncStatus
	LastSync time.Time
	Relay    bool
	Buzzer   bool
	Lights   bool
	Phase    bool
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Time:     s.Now(),
		Status:   s.Status(),
		LastSync: s.LastSync(),
		Relay:    s.Relay(),
		Buzzer:   s.Buzzer(),
		Lights:   s.Lights(),
		Phase:    s.Phase(),
	}
}
