// Command alarm-clock drives the bedside clock: it multiplexes the display,
// keeps time from host sync lines and reports buttons and the minute to the
// host over serial.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/firmware"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logging"
	"github.com/sweeney/alarm-clock/internal/metrics"
	"github.com/sweeney/alarm-clock/internal/mqtt"
	"github.com/sweeney/alarm-clock/internal/serial"
	"github.com/sweeney/alarm-clock/internal/status"
	"github.com/sweeney/alarm-clock/internal/web"
)

// housekeepingInterval is how often link statistics and the MQTT state are
// copied into metrics and status.
const housekeepingInterval = 10 * time.Second

// PinFlags is the board wiring, in BCM numbering.
type PinFlags struct {
	Chip   string `default:"gpiochip0" help:"GPIO character device"`
	Digits []int  `default:"4,17,27,22" help:"Digit cathode pins, left to right"`
	Clock  int    `default:"23" help:"Shift register clock pin"`
	Latch  int    `default:"24" help:"Shift register latch pin"`
	Data   int    `default:"25" help:"Shift register data pin"`
	Relay  int    `default:"5" help:"Relay pin"`
	Buzzer int    `default:"13" help:"Buzzer pin"`
	Left   int    `default:"16" help:"Left button pin"`
	Right  int    `default:"26" help:"Right button pin"`
	LEDs   []int  `name:"leds" default:"6,12,18,19,20,21,7" help:"LED ring pins"`
}

// CLI is the command line, with ALARMCLOCK_* environment fallbacks.
type CLI struct {
	Serial       string        `default:"/dev/serial0" env:"ALARMCLOCK_SERIAL" help:"Serial device connected to the host"`
	Baud         int           `default:"9600" env:"ALARMCLOCK_BAUD" help:"Serial baud rate"`
	Settle       time.Duration `default:"5ms" env:"ALARMCLOCK_SETTLE" help:"Display settle time per digit"`
	Tick         time.Duration `default:"1s" env:"ALARMCLOCK_TICK" help:"Tick task interval"`
	SyncInterval time.Duration `default:"10m" env:"ALARMCLOCK_SYNC_INTERVAL" help:"Blink again when no sync arrives within this interval (0 to disable)"`
	Broker       string        `env:"ALARMCLOCK_BROKER" help:"MQTT broker address (empty to disable)"`
	Heartbeat    time.Duration `default:"15m" env:"ALARMCLOCK_HEARTBEAT" help:"MQTT heartbeat interval (0 to disable)"`
	HTTP         string        `name:"http" default:":80" env:"ALARMCLOCK_HTTP" help:"HTTP status address (empty to disable)"`
	EnvFile      string        `default:"/run/pi-helper.env" help:"Network helper environment file"`
	LogLevel     string        `default:"info" enum:"debug,info,warn,error" env:"ALARMCLOCK_LOG_LEVEL" help:"Log level"`
	PrintState   bool          `help:"Print the button states and exit"`

	Pins PinFlags `embed:"" prefix:"pin-"`
}

// pins converts the flags to a board wiring.
func (p PinFlags) pins() (gpio.Pins, error) {
	if len(p.Digits) != 4 {
		return gpio.Pins{}, fmt.Errorf("need 4 digit pins, got %d", len(p.Digits))
	}
	if len(p.LEDs) != len(gpio.DefaultLEDPins) {
		return gpio.Pins{}, fmt.Errorf("need %d LED pins, got %d", len(gpio.DefaultLEDPins), len(p.LEDs))
	}
	return gpio.Pins{
		Chip:   p.Chip,
		Digits: [4]int{p.Digits[0], p.Digits[1], p.Digits[2], p.Digits[3]},
		Clock:  p.Clock,
		Latch:  p.Latch,
		Data:   p.Data,
		Relay:  p.Relay,
		Buzzer: p.Buzzer,
		Left:   p.Left,
		Right:  p.Right,
		LEDs:   append([]int(nil), p.LEDs...),
	}, nil
}

func (c CLI) statusConfig() status.Config {
	return status.Config{
		Serial:         c.Serial,
		Baud:           c.Baud,
		SettleMs:       c.Settle.Milliseconds(),
		TickMs:         c.Tick.Milliseconds(),
		SyncIntervalMs: c.SyncInterval.Milliseconds(),
		HeartbeatMs:    c.Heartbeat.Milliseconds(),
		Broker:         c.Broker,
		HTTPAddr:       c.HTTP,
	}
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("alarm-clock"),
		kong.Description("Bedside clock firmware daemon."),
	)

	log := logging.New(cli.LogLevel)
	defer log.Sync()

	if err := run(cli, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cli CLI, log *zap.SugaredLogger) error {
	pins, err := cli.Pins.pins()
	if err != nil {
		return fmt.Errorf("pins: %w", err)
	}

	panel, err := gpio.NewRealPanel(pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer panel.Close()

	// Print state mode
	if cli.PrintState {
		left, right, err := panel.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("L: %s, R: %s\n", pressedString(left), pressedString(right))
		return nil
	}

	link, err := serial.Open(cli.Serial, cli.Baud, log)
	if err != nil {
		return err
	}
	defer link.Close()

	state := clock.New(nil, cli.SyncInterval)
	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())

	// Status tracker before STARTUP so the snapshot is available.
	tracker := status.NewTracker(time.Now(), cli.statusConfig(), state)
	if net := readNetworkInfo(cli.EnvFile); net != nil {
		tracker.SetNetwork(net)
	}

	publisher, mqttStatus := newPublisher(cli.Broker, log)
	defer publisher.Close()

	core, err := firmware.New(firmware.Config{
		State:    state,
		Panel:    panel,
		Link:     link,
		Log:      log,
		Recorder: recorder,
		Observer: &mirror{publisher: publisher, tracker: tracker, state: state, log: log},
	})
	if err != nil {
		return err
	}

	sched, err := firmware.NewScheduler(nil, log)
	if err != nil {
		return err
	}
	if err := sched.ScheduleTick(core, cli.Tick); err != nil {
		return err
	}
	if err := sched.Every("housekeeping", housekeepingInterval, func() {
		recorder.SerialDropped(link.Dropped())
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}); err != nil {
		return err
	}
	if cli.Heartbeat > 0 {
		if err := sched.Every("heartbeat", cli.Heartbeat, func() {
			publishHeartbeat(publisher, mqttStatus, tracker, cli.EnvFile, log)
		}); err != nil {
			return err
		}
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warnf("failed to publish startup event: %v", err)
	}

	// Start HTTP status server
	if cli.HTTP != "" {
		srv := web.New(cli.HTTP, tracker, metrics.HTTPHandler(recorder.Registry()))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cli.HTTP)
	}

	log.Infof("started: serial=%s baud=%d settle=%v tick=%v broker=%q heartbeat=%v",
		cli.Serial, cli.Baud, cli.Settle, cli.Tick, cli.Broker, cli.Heartbeat)

	core.Announce()
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Warnf("%v", err)
		}
	}()

	ticker := time.NewTicker(cli.Settle)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(core, publisher, mqttStatus, tracker, log, time.Now, ticker.C, sigCh, link.Done())
}

// runLoop runs one display pass per settle tick until a signal arrives or
// the serial link goes away.
func runLoop(core *firmware.Core, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, log *zap.SugaredLogger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, linkDone <-chan struct{}) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warnf("failed to publish shutdown event: %v", err)
			} else {
				log.Infof("published shutdown event")
			}
			return nil

		case <-linkDone:
			return errors.New("serial link closed")

		case <-tick:
			core.Pass()
		}
	}
}

// publishHeartbeat refreshes the status and publishes it as a HEARTBEAT.
func publishHeartbeat(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, envFile string, log *zap.SugaredLogger) {
	tracker.SetMQTTConnected(mqttStatus.IsConnected())
	// Refresh network info for heartbeat
	if net := readNetworkInfo(envFile); net != nil {
		tracker.SetNetwork(net)
	}
	snap := tracker.Snapshot()
	log.Debugf("heartbeat: uptime=%v sync=%s syncs=%d", snap.Uptime().Truncate(time.Second), snap.Clock.Status, snap.Counts.Syncs)

	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Warnf("heartbeat publish error: %v", err)
	}
}

// newPublisher returns the MQTT mirror, or a discarding one when no broker
// is configured.
func newPublisher(broker string, log *zap.SugaredLogger) (mqtt.Publisher, mqtt.ConnectionStatus) {
	if broker == "" {
		log.Infof("mqtt disabled")
		return discardPublisher{}, discardPublisher{}
	}
	p, err := mqtt.NewRealPublisher(mqtt.Options{Broker: broker, Log: log})
	if err != nil {
		log.Errorf("mqtt disabled: %v", err)
		return discardPublisher{}, discardPublisher{}
	}
	return p, p
}

type discardPublisher struct{}

func (discardPublisher) PublishTelemetry(mqtt.TelemetryEvent) error { return nil }
func (discardPublisher) PublishButton(mqtt.ButtonEvent) error       { return nil }
func (discardPublisher) PublishSystem(mqtt.SystemEvent) error       { return nil }
func (discardPublisher) Close() error                               { return nil }
func (discardPublisher) IsConnected() bool                          { return false }

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

// readNetworkInfo reads the pi-helper env file, falling back to the process
// environment for anything the file does not set.
func readNetworkInfo(path string) *status.NetworkInfo {
	vars := map[string]string{}
	if path != "" {
		if read, err := godotenv.Read(path); err == nil {
			vars = read
		}
	}
	get := func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	}

	s := get(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       get(envNetworkType),
		IP:         get(envNetworkIP),
		Status:     s,
		Gateway:    get(envNetworkGateway),
		WifiStatus: get(envNetworkWifiStatus),
		SSID:       get(envNetworkWifiSSID),
	}
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
