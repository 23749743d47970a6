// Package status provides a thread-safe status tracker for the alarm-clock
// daemon. It is read by the HTTP handlers and the MQTT heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/logic"
)

// NetworkInfo is what pi-helper last wrote about the board's uplink.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config echoes the daemon's flags on the status page and in heartbeats.
type Config struct {
	Serial         string
	Baud           int
	SettleMs       int64
	TickMs         int64
	SyncIntervalMs int64
	HeartbeatMs    int64
	Broker         string
	HTTPAddr       string
}

// Counts tallies host-visible events since startup.
type Counts struct {
	Syncs     int
	Rejected  int
	Telemetry int
	Left      int
	Right     int
}

// ClockSource supplies the current clock state.
type ClockSource interface {
	Snapshot() clock.Snapshot
}

// Snapshot is a copy of everything the status surfaces report.
type Snapshot struct {
	Clock         clock.Snapshot
	Counts        Counts
	LastLine      string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

func (s Snapshot) Uptime() time.Duration { return s.Now.Sub(s.StartTime) }

// Tracker accumulates counters and connectivity for the status surfaces.
// The clock itself is not copied in; it is read from the ClockSource
// whenever a Snapshot is taken.
type Tracker struct {
	source ClockSource

	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker starts tracking at start. src may be nil, in which case
// snapshots carry a zero clock.
func NewTracker(start time.Time, cfg Config, src ClockSource) *Tracker {
	t := &Tracker{source: src}
	t.snap.StartTime = start
	t.snap.Config = cfg
	return t
}

func (t *Tracker) update(fn func(*Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.snap)
}

func (t *Tracker) RecordSync() { t.update(func(s *Snapshot) { s.Counts.Syncs++ }) }

func (t *Tracker) RecordRejected() { t.update(func(s *Snapshot) { s.Counts.Rejected++ }) }

// RecordTelemetry counts a minute line and keeps it as LastLine.
func (t *Tracker) RecordTelemetry(line string) {
	t.update(func(s *Snapshot) {
		s.Counts.Telemetry++
		s.LastLine = line
	})
}

func (t *Tracker) RecordButton(b logic.Button) {
	t.update(func(s *Snapshot) {
		switch b {
		case logic.ButtonLeft:
			s.Counts.Left++
		case logic.ButtonRight:
			s.Counts.Right++
		}
	})
}

func (t *Tracker) SetMQTTConnected(up bool) {
	t.update(func(s *Snapshot) { s.MQTTConnected = up })
}

func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.update(func(s *Snapshot) { s.Network = info })
}

// Snapshot copies the tracked state, stamps Now with the host time and
// reads the clock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()

	s.Now = time.Now()
	if t.source != nil {
		s.Clock = t.source.Snapshot()
	}
	return s
}
