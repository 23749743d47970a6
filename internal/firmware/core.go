// Package firmware runs the clock: the cooperative display loop and the
// periodic tick task.
//
// The display loop calls Pass once per settle interval from a single
// goroutine. The tick task calls Tick from its own goroutine. The two share
// only the atomic flags in clock.State, the serial writer and the panel, all
// of which are safe for that use.
package firmware

import (
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/metrics"
)

// Link is the serial connection to the host.
type Link interface {
	// Drain feeds every byte received so far into w without blocking.
	Drain(w io.ByteWriter) int
	// WriteLine sends one line to the host.
	WriteLine(line string) error
}

// Observer is told about host-visible events. Implementations must not block.
type Observer interface {
	Telemetry(line string, at time.Time)
	Button(b logic.Button, at time.Time)
	Synced(msg logic.SyncMessage, at time.Time)
	Rejected(line string, err error, at time.Time)
}

type nopObserver struct{}

func (nopObserver) Telemetry(string, time.Time) {}
func (nopObserver) Button(logic.Button, time.Time) {}
func (nopObserver) Synced(logic.SyncMessage, time.Time) {}
func (nopObserver) Rejected(string, error, time.Time) {}

// Config wires a Core.
type Config struct {
	State    *clock.State
	Panel    gpio.Panel
	Link     Link
	Log      *zap.SugaredLogger
	Recorder metrics.Recorder
	Observer Observer
}

// Core owns the display loop state and applies the tick.
type Core struct {
	state    *clock.State
	panel    gpio.Panel
	link     Link
	log      *zap.SugaredLogger
	recorder metrics.Recorder
	observer Observer

	// Touched only by Pass.
	line     logic.LineBuffer
	mux      logic.Multiplexer
	ring     logic.LedRing
	buttons  logic.ButtonReporter
	overflow int

	// errMu guards reported, which limits hardware error logging to the
	// first failure of each kind until that kind succeeds again.
	errMu    sync.Mutex
	reported map[string]bool
}

// New creates a Core. State, Panel and Link are required.
func New(cfg Config) (*Core, error) {
	if cfg.State == nil || cfg.Panel == nil || cfg.Link == nil {
		return nil, errors.New("firmware: state, panel and link are required")
	}
	c := &Core{
		state:    cfg.State,
		panel:    cfg.Panel,
		link:     cfg.Link,
		log:      cfg.Log,
		recorder: cfg.Recorder,
		observer: cfg.Observer,
		reported: make(map[string]bool),
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.recorder == nil {
		c.recorder = metrics.NoopRecorder{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	return c, nil
}

// State returns the shared clock state.
func (c *Core) State() *clock.State {
	return c.state
}

// Announce writes the current time to the host once, so it can sync
// immediately after startup.
func (c *Core) Announce() {
	c.writeTelemetry(c.state.Now())
}

// Pass runs one iteration of the display loop: report buttons, take in
// serial input, apply a completed sync line, drive one display digit and,
// once per full digit cycle, advance the LED ring.
func (c *Core) Pass() {
	c.pollButtons()
	c.receive()
	c.refresh()
}

func (c *Core) pollButtons() {
	left, right, err := c.panel.Read()
	if err != nil {
		c.hardwareError("buttons", err)
		return
	}
	c.hardwareOK("buttons")

	for _, b := range c.buttons.Process(left, right) {
		c.log.Infof("button: %s", b)
		if err := c.link.WriteLine(string(b)); err != nil {
			c.log.Warnf("send button %s: %v", b, err)
		}
		c.recorder.ButtonPress(string(b))
		c.observer.Button(b, c.state.Now())
	}
}

func (c *Core) receive() {
	c.link.Drain(&c.line)

	if n := c.line.Overflows(); n != c.overflow {
		for ; c.overflow < n; c.overflow++ {
			c.recorder.LineOverflow()
		}
		c.log.Warnf("serial: line longer than %d bytes truncated", logic.LineCapacity)
	}

	line, ok := c.line.Line()
	if !ok {
		return
	}
	msg, err := logic.ParseSync(line)
	if err != nil {
		c.log.Debugf("ignoring line %q: %v", line, err)
		c.recorder.SyncRejected("short")
		c.observer.Rejected(line, err, c.state.Now())
		return
	}
	c.Apply(msg)
}

// Apply sets the clock from a sync message, updates the flags it carries and
// pushes the relay and buzzer to the hardware straight away.
func (c *Core) Apply(msg logic.SyncMessage) {
	c.state.SetTime(msg.Year, msg.Month, msg.Day, msg.Hour, msg.Minute, msg.Second)
	if msg.Relay != nil {
		c.state.SetRelay(*msg.Relay)
	}
	if msg.Buzzer != nil {
		c.state.SetBuzzer(*msg.Buzzer)
	}
	if msg.Lights != nil {
		c.state.SetLights(*msg.Lights)
		if !*msg.Lights {
			if err := c.panel.AllOff(); err != nil {
				c.hardwareError("leds", err)
			}
		}
	}
	c.ApplyOutputs()

	now := c.state.Now()
	c.log.Debugf("synced: %s relay=%v buzzer=%v lights=%v",
		logic.FormatTimestamp(now), c.state.Relay(), c.state.Buzzer(), c.state.Lights())
	c.recorder.SyncAccepted()
	c.observer.Synced(msg, now)
}

func (c *Core) refresh() {
	now := c.state.Now()
	digits := logic.Digits{Hour12: logic.Hour12(now.Hour()), Minute: now.Minute()}

	frame, wrapped := c.mux.Step(digits, c.state.Dim())
	c.drive(frame)

	if !wrapped {
		return
	}
	c.recorder.DisplayCycle()
	if w, ok := c.ring.Advance(c.state.Lights()); ok {
		if err := c.panel.SetLED(w.Position, w.On); err != nil {
			c.hardwareError("leds", err)
			return
		}
		c.hardwareOK("leds")
	}
}

// drive blanks the display and, for a lit frame, shows its digit.
func (c *Core) drive(f logic.Frame) {
	if err := c.panel.Blank(); err != nil {
		c.hardwareError("display", err)
		return
	}
	if !f.Lit {
		c.hardwareOK("display")
		return
	}
	if err := c.panel.Show(f.Position, f.Pattern); err != nil {
		c.hardwareError("display", err)
		return
	}
	c.hardwareOK("display")
}

// hardwareError counts a failure and logs it once until the kind recovers.
func (c *Core) hardwareError(kind string, err error) {
	c.recorder.HardwareError(kind)
	c.errMu.Lock()
	first := !c.reported[kind]
	c.reported[kind] = true
	c.errMu.Unlock()
	if first {
		c.log.Errorf("%s: %v", kind, err)
	}
}

func (c *Core) hardwareOK(kind string) {
	c.errMu.Lock()
	recovered := c.reported[kind]
	delete(c.reported, kind)
	c.errMu.Unlock()
	if recovered {
		c.log.Infof("%s: recovered", kind)
	}
}

// LedIndex and SubPhase expose the ring animation counters.
func (c *Core) LedIndex() int { return c.ring.Index() }
func (c *Core) SubPhase() int { return c.ring.SubPhase() }

// Digit returns the display position the next pass will drive.
func (c *Core) Digit() int { return c.mux.Position() }
