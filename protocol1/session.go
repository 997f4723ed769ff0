package protocol1

import (
	"github.com/haedal-robotics/dxl"
)

// Session is a per-servo Protocol 1 context: a servo ID and the baud rate
// its bus segment runs at. It owns nothing from the transport; operations
// are strictly serialized on whatever Transport is passed in, and the
// caller is responsible for mutual exclusion between sessions sharing one
// transport.
type Session struct {
	ID   dxl.ServoID
	Baud dxl.BaudRate
}

// NewSession constructs a session for the given servo.
func NewSession(id dxl.ServoID, baud dxl.BaudRate) Session {
	return Session{ID: id, Baud: baud}
}

func (s Session) prepare(t dxl.Transport) *dxl.Error {
	if err := t.SetBaudRate(s.Baud); err != nil {
		return dxl.CommunicationErr(err)
	}
	if err := t.Flush(); err != nil {
		return dxl.CommunicationErr(err)
	}
	return nil
}

// readResponse reads the 4-byte header then the LEN-declared remainder,
// matching the source's two-stage read (header first, then body sized
// from the header's LEN field).
func readResponse(t dxl.Transport) ([]byte, *dxl.Error) {
	header := make([]byte, HeaderLength)
	if err := t.Read(header); err != nil {
		return nil, dxl.CommunicationErr(err)
	}
	length := int(header[3])
	frame := make([]byte, HeaderLength+length)
	copy(frame, header)
	if length > 0 {
		if err := t.Read(frame[HeaderLength:]); err != nil {
			return nil, dxl.CommunicationErr(err)
		}
	}
	return frame, nil
}

// Ping sets the baud rate, flushes, writes a unicast Ping, and decodes the
// matching Pong. It returns a *dxl.Error describing why the servo did not
// respond rather than its model number (use Read with ModelNumber for
// that); see protocol1.Enumerate for the broadcast-sweep form.
func (s Session) Ping(t dxl.Transport) *dxl.Error {
	if err := s.prepare(t); err != nil {
		return err
	}
	tx := EncodePing(dxl.Unicast(s.ID))
	if err := t.Write(tx); err != nil {
		return dxl.CommunicationErr(err)
	}
	rx, err := readResponse(t)
	if err != nil {
		return err
	}
	status, derr := DecodeStatus(rx, 0)
	if derr != nil {
		return derr
	}
	if status.Source != s.ID {
		return dxl.FormatErr(dxl.FormatID)
	}
	return nil
}

// Write sets the baud rate, flushes, writes a unicast Write<R>, decodes
// the WriteResponse, and validates the source ID matches the session.
func Write[V any](s Session, t dxl.Transport, reg WriteRegister[V], value V) *dxl.Error {
	if err := s.prepare(t); err != nil {
		return err
	}
	tx := EncodeWrite(dxl.Unicast(s.ID), reg, value)
	if err := t.Write(tx); err != nil {
		return dxl.CommunicationErr(err)
	}
	rx, err := readResponse(t)
	if err != nil {
		return err
	}
	status, derr := DecodeStatus(rx, 0)
	if derr != nil {
		return derr
	}
	if status.Source != s.ID {
		return dxl.FormatErr(dxl.FormatID)
	}
	return nil
}

// Read sets the baud rate, flushes, writes a unicast Read<R>, and decodes
// the ReadResponse into R's value type.
func Read[V any](s Session, t dxl.Transport, reg ReadRegister[V]) (V, *dxl.Error) {
	var zero V
	if err := s.prepare(t); err != nil {
		return zero, err
	}
	tx := EncodeRead(dxl.Unicast(s.ID), reg)
	if err := t.Write(tx); err != nil {
		return zero, dxl.CommunicationErr(err)
	}
	rx, err := readResponse(t)
	if err != nil {
		return zero, err
	}
	status, derr := DecodeStatus(rx, int(reg.Size))
	if derr != nil {
		return zero, derr
	}
	if status.Source != s.ID {
		return zero, dxl.FormatErr(dxl.FormatID)
	}
	return reg.Decode(status.Parameters), nil
}
