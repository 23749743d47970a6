// Package mqtt mirrors clock events to an MQTT broker, with an abstraction
// for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// TopicTelemetry is the MQTT topic for the minute telemetry lines.
const TopicTelemetry = "home/alarmclock/telemetry"

// TopicButtons is the MQTT topic for button presses.
const TopicButtons = "home/alarmclock/buttons"

// TopicSystem carries daemon lifecycle events and the last will.
const TopicSystem = "home/alarmclock/system"

// Publisher publishes clock events to MQTT.
//
// Publish methods must not block: the real publisher queues and sends from
// its own goroutine.
type Publisher interface {
	// PublishTelemetry sends a telemetry line as it was written to the host.
	PublishTelemetry(event TelemetryEvent) error

	// PublishButton sends a button press.
	PublishButton(event ButtonEvent) error

	// PublishSystem sends a lifecycle event, retained if the event says so.
	PublishSystem(event SystemEvent) error

	// Close flushes what it can and disconnects from the broker.
	Close() error
}

// ConnectionStatus is implemented by publishers that hold a broker session.
type ConnectionStatus interface {
	IsConnected() bool
}

// TelemetryEvent is one telemetry line and the flags in force when it was sent.
type TelemetryEvent struct {
	Timestamp time.Time
	Line      string
	Relay     bool
	Buzzer    bool
	Lights    bool
}

// ButtonEvent is one reported button press.
type ButtonEvent struct {
	Timestamp time.Time
	Button    logic.Button
}

// SystemEvent is a daemon lifecycle message: STARTUP, SHUTDOWN, HEARTBEAT
// or the OFFLINE last will. Daemon events carry a status snapshot in
// RawPayload, which is sent as is.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // signal name on SHUTDOWN
	RawPayload []byte
	Retained   bool
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// TelemetryPayload is the MQTT payload for a telemetry line.
type TelemetryPayload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the telemetry details.
type ClockPayload struct {
	Timestamp string `json:"timestamp"`
	Line      string `json:"line"`
	Relay     bool   `json:"relay"`
	Buzzer    bool   `json:"buzzer"`
	Lights    bool   `json:"lights"`
}

// FormatTelemetryPayload creates the JSON payload for a telemetry event.
func FormatTelemetryPayload(event TelemetryEvent) ([]byte, error) {
	return json.Marshal(TelemetryPayload{
		Clock: ClockPayload{
			Timestamp: stamp(event.Timestamp),
			Line:      event.Line,
			Relay:     event.Relay,
			Buzzer:    event.Buzzer,
			Lights:    event.Lights,
		},
	})
}

// ButtonPayload is the MQTT payload for a button press.
type ButtonPayload struct {
	Button ButtonInner `json:"button"`
}

// ButtonInner contains the button press details.
type ButtonInner struct {
	Timestamp string `json:"timestamp"`
	Button    string `json:"button"`
}

// FormatButtonPayload creates the JSON payload for a button event.
func FormatButtonPayload(event ButtonEvent) ([]byte, error) {
	return json.Marshal(ButtonPayload{
		Button: ButtonInner{
			Timestamp: stamp(event.Timestamp),
			Button:    string(event.Button),
		},
	})
}

// SystemPayload is the bare form of a system event, used when there is
// no snapshot to send.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner is the body of a SystemPayload.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload returns event.RawPayload when set, otherwise the
// bare SystemPayload encoding.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: stamp(event.Timestamp),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
