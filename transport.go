package dxl

import "errors"

// ErrTimedOut is returned by Transport.Read when no frame arrived within
// the transport's own read deadline. It is a first-class signal, not just
// a failure: callers use it both for error surfacing and for flow control
// (the end of an enumeration sweep at a given baud).
var ErrTimedOut = errors.New("dxl: transport read timed out")

// UnsupportedBaudError is returned by Transport.SetBaudRate when the
// underlying hardware cannot be switched to the requested rate.
type UnsupportedBaudError struct {
	Rate BaudRate
}

func (e *UnsupportedBaudError) Error() string {
	return "dxl: unsupported baud rate: " + e.Rate.String()
}

// Transport is the narrow capability the core is driven through: a
// half-duplex byte channel with an explicit baud switch and flush. The
// core never constructs a Transport itself — concrete serial/USB backends
// are external collaborators (see transport/ for two implementations).
type Transport interface {
	// SetBaudRate switches the channel speed. Implementations return
	// *UnsupportedBaudError for a rate they cannot produce.
	SetBaudRate(rate BaudRate) error

	// Flush drains any buffered input. It is a no-op on an empty bus.
	Flush() error

	// Read fills buf exactly or returns an error. ErrTimedOut signals no
	// data arrived within the implementation's read deadline; any other
	// error is opaque ("Other" in the spec's taxonomy).
	Read(buf []byte) error

	// Write writes all of buf or returns an error.
	Write(buf []byte) error
}
