package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/status"
)

// mirror copies host-visible events to the status tracker and MQTT.
// Both only queue, so it never blocks the display loop or the tick task.
type mirror struct {
	publisher mqtt.Publisher
	tracker   *status.Tracker
	state     *clock.State
	log       *zap.SugaredLogger
}

func (m *mirror) Telemetry(line string, at time.Time) {
	m.tracker.RecordTelemetry(line)
	err := m.publisher.PublishTelemetry(mqtt.TelemetryEvent{
		Timestamp: at,
		Line:      line,
		Relay:     m.state.Relay(),
		Buzzer:    m.state.Buzzer(),
		Lights:    m.state.Lights(),
	})
	if err != nil {
		m.log.Warnf("publish telemetry: %v", err)
	}
}

func (m *mirror) Button(b logic.Button, at time.Time) {
	m.tracker.RecordButton(b)
	if err := m.publisher.PublishButton(mqtt.ButtonEvent{Timestamp: at, Button: b}); err != nil {
		m.log.Warnf("publish button: %v", err)
	}
}

func (m *mirror) Synced(logic.SyncMessage, time.Time) {
	m.tracker.RecordSync()
}

func (m *mirror) Rejected(string, error, time.Time) {
	m.tracker.RecordRejected()
}
