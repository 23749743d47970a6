// Package serial provides the byte link to the host.
//
// A reader goroutine copies received bytes into a bounded FIFO, standing in
// for the UART receive buffer. The main loop drains the FIFO without
// blocking. Writes are whole lines, serialised so lines from the tick task
// and the main loop never interleave.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	goserial "go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultBaud is the host link speed.
const DefaultBaud = 9600

// DefaultFIFOSize is the number of received bytes held until drained.
const DefaultFIFOSize = 256

// LineEnding terminates every outbound line.
const LineEnding = "\r\n"

// Link is a line-oriented connection to the host.
type Link struct {
	port io.ReadWriteCloser
	log  *zap.SugaredLogger

	fifo    chan byte
	dropped atomic.Int64
	done    chan struct{}

	wmu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Open opens a serial device at the given baud rate, 8N1.
func Open(name string, baud int, log *zap.SugaredLogger) (*Link, error) {
	port, err := goserial.Open(name, &goserial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return NewLink(port, DefaultFIFOSize, log), nil
}

// NewLink wraps an open port and starts the reader goroutine.
func NewLink(port io.ReadWriteCloser, fifoSize int, log *zap.SugaredLogger) *Link {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if fifoSize <= 0 {
		fifoSize = DefaultFIFOSize
	}
	l := &Link{
		port: port,
		log:  log,
		fifo: make(chan byte, fifoSize),
		done: make(chan struct{}),
	}
	go l.readLoop()
	return l
}

func (l *Link) readLoop() {
	defer close(l.done)
	buf := make([]byte, 64)
	for {
		n, err := l.port.Read(buf)
		for _, c := range buf[:n] {
			select {
			case l.fifo <- c:
			default:
				// Receive overrun: the byte is lost.
				if l.dropped.Add(1) == 1 {
					l.log.Warnf("serial: receive buffer full (%d bytes), dropping input", cap(l.fifo))
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !isClosed(err) {
				l.log.Errorf("serial read error: %v", err)
			}
			return
		}
	}
}

func isClosed(err error) bool {
	var perr *goserial.PortError
	if errors.As(err, &perr) {
		return perr.Code() == goserial.PortClosed
	}
	return errors.Is(err, io.ErrClosedPipe)
}

// Drain feeds every byte received so far into w and returns how many bytes
// were fed. It never blocks.
func (l *Link) Drain(w io.ByteWriter) int {
	n := 0
	for {
		select {
		case c := <-l.fifo:
			_ = w.WriteByte(c)
			n++
		default:
			return n
		}
	}
}

// Dropped returns the number of received bytes lost to a full FIFO.
func (l *Link) Dropped() int64 {
	return l.dropped.Load()
}

// WriteLine sends line followed by LineEnding as a single write.
func (l *Link) WriteLine(line string) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if _, err := io.WriteString(l.port, line+LineEnding); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Done is closed when the reader goroutine exits.
func (l *Link) Done() <-chan struct{} {
	return l.done
}

// Close closes the port and waits for the reader goroutine to exit.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.port.Close()
		<-l.done
	})
	return l.closeErr
}
