package firmware

import (
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// DefaultTickInterval is the period of the tick task.
const DefaultTickInterval = time.Second

// Tick is the periodic task: it flips the blink phase, reports the time to
// the host on each minute boundary and re-applies the relay and buzzer.
// It must not block; the observer is expected to queue.
func (c *Core) Tick() {
	c.recorder.Tick()
	c.state.TogglePhase()

	now := c.state.Now()
	if now.Second() == 0 {
		c.writeTelemetry(now)
	}
	c.ApplyOutputs()
}

// ApplyOutputs pushes the relay and buzzer flags to the hardware.
func (c *Core) ApplyOutputs() {
	if err := c.panel.SetRelay(c.state.Relay()); err != nil {
		c.hardwareError("relay", err)
	} else {
		c.hardwareOK("relay")
	}
	if err := c.panel.SetBuzzer(c.state.Buzzer()); err != nil {
		c.hardwareError("buzzer", err)
	} else {
		c.hardwareOK("buzzer")
	}
}

func (c *Core) writeTelemetry(now time.Time) {
	line := logic.FormatTimestamp(now)
	if err := c.link.WriteLine(line); err != nil {
		c.log.Warnf("send telemetry: %v", err)
		return
	}
	c.recorder.Telemetry()
	c.observer.Telemetry(line, now)
}
