//go:build !linux

package transport

import (
	"errors"

	"github.com/haedal-robotics/dxl"
)

// OpenSerial is unavailable outside Linux: the only serial backend this
// module wires in (github.com/daedaluz/goserial) is a raw termios/ioctl
// wrapper with no Windows or Darwin port, unlike the teacher's own
// syscall-based serial_windows.go. Use transport.Mock for non-Linux
// development and testing.
func OpenSerial(name string, initial dxl.BaudRate) (*Serial, error) {
	return nil, errors.New("transport: serial backend only supports linux")
}

// Serial is declared here too so non-Linux builds still type-check code
// that references *transport.Serial without constructing one.
type Serial struct{}

func (s *Serial) SetBaudRate(rate dxl.BaudRate) error { return errors.ErrUnsupported }
func (s *Serial) Flush() error                        { return errors.ErrUnsupported }
func (s *Serial) Read(buf []byte) error               { return errors.ErrUnsupported }
func (s *Serial) Write(buf []byte) error              { return errors.ErrUnsupported }
func (s *Serial) Close() error                        { return errors.ErrUnsupported }
