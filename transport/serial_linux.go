//go:build linux

package transport

import (
	"time"

	serial "github.com/daedaluz/goserial"
	"github.com/haedal-robotics/dxl"
)

// readDeadline bounds every Read call: half-duplex Dynamixel buses never
// need to wait longer than this for a status frame before giving up and
// letting the caller treat it as "nothing answered."
const readDeadline = 100 * time.Millisecond

// Serial is a dxl.Transport backed by a real Linux TTY, wrapping
// github.com/daedaluz/goserial's raw-mode Port instead of hand-rolled
// termios ioctls.
type Serial struct {
	port *serial.Port
}

// OpenSerial opens the named TTY (e.g. "/dev/ttyUSB0"), puts it into raw
// mode, and sets the initial baud rate.
func OpenSerial(name string, initial dxl.BaudRate) (*Serial, error) {
	port, err := serial.Open(name, serial.NewOptions().SetReadTimeout(readDeadline))
	if err != nil {
		return nil, err
	}
	s := &Serial{port: port}
	if err := s.SetBaudRate(initial); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

func baudConst(rate dxl.BaudRate) (serial.CFlag, bool) {
	switch rate {
	case dxl.Baud9600:
		return serial.B9600, true
	case dxl.Baud19200:
		return serial.B19200, true
	case dxl.Baud57600:
		return serial.B57600, true
	case dxl.Baud115200:
		return serial.B115200, true
	case dxl.Baud1000000:
		return serial.B1000000, true
	case dxl.Baud2000000:
		return serial.B2000000, true
	case dxl.Baud3000000:
		return serial.B3000000, true
	case dxl.Baud4000000:
		return serial.B4000000, true
	}
	return 0, false
}

func (s *Serial) SetBaudRate(rate dxl.BaudRate) error {
	cflag, ok := baudConst(rate)
	if !ok {
		return &dxl.UnsupportedBaudError{Rate: rate}
	}
	attrs, err := s.port.GetAttr()
	if err != nil {
		return err
	}
	attrs.MakeRaw()
	attrs.SetSpeed(cflag)
	return s.port.SetAttr(serial.TCSANOW, attrs)
}

func (s *Serial) Flush() error {
	return s.port.Flush(serial.TCIOFLUSH)
}

// Read fills buf exactly or reports dxl.ErrTimedOut. goserial's Port.Read
// already applies the read deadline set in OpenSerial and returns a short
// (possibly zero-length) read rather than blocking past it; any read that
// does not eventually fill buf is surfaced as a timeout rather than
// whatever OS error accompanied the short read, per the Transport
// contract's "fill buf exactly, or fail" rule.
func (s *Serial) Read(buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := s.port.Read(buf[total:])
		total += n
		if n == 0 || err != nil {
			return dxl.ErrTimedOut
		}
	}
	return nil
}

func (s *Serial) Write(buf []byte) error {
	_, err := s.port.Write(buf)
	return err
}

// Close releases the underlying file descriptor.
func (s *Serial) Close() error {
	return s.port.Close()
}
