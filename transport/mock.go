// Package transport holds dxl.Transport implementations external to the
// core wire-protocol engine: an in-memory mock used across every test
// suite in this module, and a Linux serial backend (serial_linux.go).
package transport

import (
	"bytes"
	"errors"
	"math/rand"
	"sync"

	"github.com/haedal-robotics/dxl"
)

// buffer is a goroutine-safe byte queue, modeled on the haguro-go-dxl mock
// device's own thread-safe wrapper around bytes.Buffer.
type buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Read(p)
}

func (b *buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Mock is an in-memory dxl.Transport: writes go into an "on the wire"
// queue a test can inspect, and a test-queued response buffer feeds Read.
// It never blocks — once the queued response bytes are exhausted, Read
// returns dxl.ErrTimedOut, mirroring a real half-duplex bus with nothing
// left to say.
type Mock struct {
	Written    buffer
	responses  buffer
	baud       dxl.BaudRate
	lastBaud   dxl.BaudRate
	flushCount int
	failBaud   map[dxl.BaudRate]bool
	readErr    error
	writeErr   error
	padGarbage bool
}

// NewMock creates an empty Mock transport.
func NewMock() *Mock {
	return &Mock{failBaud: map[dxl.BaudRate]bool{}}
}

// QueueResponse appends bytes that future Read calls will drain, in
// order. Call it once per simulated status frame (or pass the whole
// frame for a one-shot decode). When PadResponsesWithGarbage has been
// called, each frame is wrapped in a random run of leading/trailing noise
// bytes first.
func (m *Mock) QueueResponse(frame []byte) {
	if m.padGarbage {
		frame = padWithGarbage(frame)
	}
	m.responses.Write(frame)
}

// PadResponsesWithGarbage makes every future QueueResponse call prepend
// and append a random 0-5 byte run of noise around the frame, the way
// haguro-go-dxl's MockDevice.padWithGarbage simulates leftover bytes or
// line noise a real half-duplex bus can leave around a genuine status
// frame. Use it to exercise a decoder's resync path end to end.
func (m *Mock) PadResponsesWithGarbage() {
	m.padGarbage = true
}

func padWithGarbage(frame []byte) []byte {
	out := append(randBytes(rand.Intn(6)), frame...)
	return append(out, randBytes(rand.Intn(6))...)
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rand.Intn(256))
	}
	return b
}

// RejectBaud makes SetBaudRate fail for the given rate, simulating
// hardware that cannot produce it.
func (m *Mock) RejectBaud(rate dxl.BaudRate) {
	m.failBaud[rate] = true
}

// FailNextRead makes the next Read return the given error instead of
// consuming queued bytes.
func (m *Mock) FailNextRead(err error) { m.readErr = err }

// FailNextWrite makes the next Write return the given error.
func (m *Mock) FailNextWrite(err error) { m.writeErr = err }

// LastBaud returns the most recently accepted baud rate.
func (m *Mock) LastBaud() dxl.BaudRate { return m.lastBaud }

// WrittenBytes returns everything written to the transport so far, for
// test assertions against expected wire frames.
func (m *Mock) WrittenBytes() []byte {
	m.Written.mu.Lock()
	defer m.Written.mu.Unlock()
	return append([]byte(nil), m.Written.buf.Bytes()...)
}

// FlushCount returns how many times Flush was called.
func (m *Mock) FlushCount() int { return m.flushCount }

func (m *Mock) SetBaudRate(rate dxl.BaudRate) error {
	if m.failBaud[rate] {
		return &dxl.UnsupportedBaudError{Rate: rate}
	}
	m.lastBaud = rate
	m.baud = rate
	return nil
}

func (m *Mock) Flush() error {
	m.flushCount++
	// Draining leftover response bytes on flush would hide bugs where a
	// caller reads less than it queued; flush only ever applies to
	// *input* noise a real bus might have buffered, which this mock
	// never injects unasked. It is therefore a deliberate no-op here,
	// matching the spec's "side-effect-free on empty bus" contract.
	return nil
}

func (m *Mock) Read(buf []byte) error {
	if m.readErr != nil {
		err := m.readErr
		m.readErr = nil
		return err
	}
	n, err := m.responses.Read(buf)
	if err != nil || n < len(buf) {
		return dxl.ErrTimedOut
	}
	return nil
}

func (m *Mock) Write(buf []byte) error {
	if m.writeErr != nil {
		err := m.writeErr
		m.writeErr = nil
		return err
	}
	_, err := m.Written.Write(buf)
	return err
}

// ErrMockIO is a generic opaque transport failure distinct from
// dxl.ErrTimedOut, for exercising the "Other" branch of the
// Communication error kind.
var ErrMockIO = errors.New("transport: mock io error")
