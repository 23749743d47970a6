// Package metrics records clock activity.
//
// Components hold a Recorder and default to NoopRecorder, so nothing needs a
// nil check. The daemon swaps in a PrometheusRecorder when the HTTP server
// is enabled.
package metrics

// Recorder receives clock activity counts.
type Recorder interface {
	// Tick counts a tick task firing.
	Tick()
	// Telemetry counts a telemetry line written to the host.
	Telemetry()
	// SyncAccepted counts an applied sync line.
	SyncAccepted()
	// SyncRejected counts a sync line that could not be applied.
	SyncRejected(reason string)
	// LineOverflow counts a received line longer than the line buffer.
	LineOverflow()
	// ButtonPress counts a reported button press ("L" or "R").
	ButtonPress(button string)
	// DisplayCycle counts a complete pass over all display digits.
	DisplayCycle()
	// HardwareError counts a failed pin write or read by kind.
	HardwareError(kind string)
	// SerialDropped sets the running count of received bytes lost to overrun.
	SerialDropped(total int64)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) Tick() {}
func (NoopRecorder) Telemetry() {}
func (NoopRecorder) SyncAccepted() {}
func (NoopRecorder) SyncRejected(string) {}
func (NoopRecorder) LineOverflow() {}
func (NoopRecorder) ButtonPress(string) {}
func (NoopRecorder) DisplayCycle() {}
func (NoopRecorder) HardwareError(string) {}
func (NoopRecorder) SerialDropped(int64) {}
