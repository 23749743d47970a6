package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	// DefaultBufferSize is how many messages are held while the broker is
	// unreachable.
	DefaultBufferSize = 256

	connectWait    = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Options configures a RealPublisher.
type Options struct {
	Broker     string
	ClientID   string
	BufferSize int
	Log        *zap.SugaredLogger
}

// RealPublisher publishes to an actual MQTT broker.
//
// Publish calls only queue the message; a background goroutine sends the
// queue whenever the connection is up, so callers never wait on the network.
type RealPublisher struct {
	client paho.Client
	log    *zap.SugaredLogger

	mu  sync.Mutex
	buf *ringBuffer

	wake      chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is retried in the background; messages queue until it comes up.
func NewRealPublisher(opts Options) (*RealPublisher, error) {
	if opts.Broker == "" {
		return nil, errors.New("mqtt: broker is required")
	}
	if opts.ClientID == "" {
		opts.ClientID = ClientID("alarm-clock")
	}
	p := newPublisher(opts.Log, opts.BufferSize)

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	popts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) {
			p.log.Infof("mqtt: connected to %s", opts.Broker)
			p.signal()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			p.log.Warnf("mqtt: connection lost: %v", err)
		})

	p.start(paho.NewClient(popts))

	token := p.client.Connect()
	if token.WaitTimeout(connectWait) {
		if err := token.Error(); err != nil {
			p.Close()
			return nil, fmt.Errorf("connect to broker: %w", err)
		}
	} else {
		p.log.Warnf("mqtt: %s not reachable yet, queueing messages", opts.Broker)
	}
	return p, nil
}

func newPublisher(log *zap.SugaredLogger, size int) *RealPublisher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &RealPublisher{
		log:  log,
		buf:  newRingBuffer(size),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (p *RealPublisher) start(client paho.Client) {
	p.client = client
	p.wg.Add(1)
	go p.run()
}

func (p *RealPublisher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *RealPublisher) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *RealPublisher) enqueue(topic string, qos byte, retained bool, payload []byte) {
	p.mu.Lock()
	if p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained}) {
		p.log.Warnf("mqtt: buffer full (%d messages), dropping oldest", p.buf.capacity)
	}
	p.mu.Unlock()
	p.signal()
}

// flush sends every queued message while the connection is open. A failed
// message and everything after it go back on the queue.
func (p *RealPublisher) flush() {
	if !p.client.IsConnectionOpen() {
		return
	}
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	for i, m := range msgs {
		if err := p.send(m); err != nil {
			p.log.Warnf("mqtt: publish to %s: %v", m.topic, err)
			p.mu.Lock()
			p.buf.pushFront(msgs[i:])
			p.mu.Unlock()
			return
		}
	}
}

func (p *RealPublisher) send(m bufferedMsg) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timeout")
	}
	return token.Error()
}

// PublishTelemetry queues a telemetry line. QoS 0, not retained.
func (p *RealPublisher) PublishTelemetry(event TelemetryEvent) error {
	payload, err := FormatTelemetryPayload(event)
	if err != nil {
		return fmt.Errorf("format telemetry payload: %w", err)
	}
	p.enqueue(TopicTelemetry, 0, false, payload)
	return nil
}

// PublishButton queues a button press. QoS 1 so presses are not lost.
func (p *RealPublisher) PublishButton(event ButtonEvent) error {
	payload, err := FormatButtonPayload(event)
	if err != nil {
		return fmt.Errorf("format button payload: %w", err)
	}
	p.enqueue(TopicButtons, 1, false, payload)
	return nil
}

// PublishSystem queues a system lifecycle event. QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	p.enqueue(TopicSystem, 1, event.Retained, payload)
	return nil
}

// Pending returns how many messages are waiting to be sent.
func (p *RealPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close stops the sender, makes a last attempt to send the queue and
// disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		p.flush()
		p.client.Disconnect(1000) // 1 second timeout
	})
	return nil
}
