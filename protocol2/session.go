package protocol2

import (
	"slices"

	"github.com/haedal-robotics/dxl"
)

// Session is a per-servo Protocol 2 context, mirroring protocol1.Session:
// a servo ID and the baud rate its bus segment runs at.
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

// readStatus reads a 7-byte header, then the LEN-declared remainder in one
// further Read, driving both through a Deserializer. Because dxl.Transport
// guarantees each Read either fills its buffer exactly or fails, the
// Deserializer never sees more than these two chunks in the common case.
// But garbage bytes ahead of the marker can leave the first 7-byte read
// short of a complete header (the marker's own bytes spill past the end of
// that chunk), so a fallback loop keeps feeding one byte at a time until
// the Deserializer has resynced and parsed a full header. Only then is the
// remaining length known, and it is read from d.length/d.body -- the
// Deserializer's own resynced bookkeeping -- never recomputed from the
// raw, pre-resync header buffer, which may hold garbage or misaligned
// bytes at the offsets the length field would otherwise sit at.
func readStatus(t dxl.Transport) (Status, *dxl.Error) {
	d := New()
	header := make([]byte, 7)
	if err := t.Read(header); err != nil {
		return Status{}, dxl.CommunicationErr(err)
	}
	if finished, ferr := d.Feed(header); ferr != nil {
		return Status{}, errAsDxl(ferr)
	} else if finished {
		return d.Build()
	}

	one := make([]byte, 1)
	for d.state == stateAwaitHeader {
		if err := t.Read(one); err != nil {
			return Status{}, dxl.CommunicationErr(err)
		}
		finished, ferr := d.Feed(one)
		if ferr != nil {
			return Status{}, errAsDxl(ferr)
		}
		if finished {
			return d.Build()
		}
	}

	rest := make([]byte, d.length-len(d.body))
	if len(rest) > 0 {
		if err := t.Read(rest); err != nil {
			return Status{}, dxl.CommunicationErr(err)
		}
		if _, ferr := d.Feed(rest); ferr != nil {
			return Status{}, errAsDxl(ferr)
		}
	}
	return d.Build()
}

func errAsDxl(err error) *dxl.Error {
	if de, ok := err.(*dxl.Error); ok {
		return de
	}
	return dxl.CommunicationErr(err)
}

// Ping sets the baud rate, flushes, writes a unicast Ping, and decodes the
// matching status frame, validating its source ID.
func (s Session) Ping(t dxl.Transport) *dxl.Error {
	if err := s.prepare(t); err != nil {
		return err
	}
	if err := t.Write(slices.Collect(EncodePing(dxl.Unicast(s.ID)))); err != nil {
		return dxl.CommunicationErr(err)
	}
	status, derr := readStatus(t)
	if derr != nil {
		return derr
	}
	if status.Source != s.ID {
		return dxl.FormatErr(dxl.FormatID)
	}
	return nil
}

// Write sets the baud rate, flushes, writes a unicast Write<R>, and
// decodes the response, validating its source ID.
func Write[V any](s Session, t dxl.Transport, reg WriteRegister[V], value V) *dxl.Error {
	if err := s.prepare(t); err != nil {
		return err
	}
	if err := t.Write(slices.Collect(EncodeWrite(dxl.Unicast(s.ID), reg, value))); err != nil {
		return dxl.CommunicationErr(err)
	}
	status, derr := readStatus(t)
	if derr != nil {
		return derr
	}
	if status.Source != s.ID {
		return dxl.FormatErr(dxl.FormatID)
	}
	return nil
}

// Read sets the baud rate, flushes, writes a unicast Read<R>, and decodes
// the response into R's value type.
func Read[V any](s Session, t dxl.Transport, reg ReadRegister[V]) (V, *dxl.Error) {
	var zero V
	if err := s.prepare(t); err != nil {
		return zero, err
	}
	if err := t.Write(slices.Collect(EncodeRead(dxl.Unicast(s.ID), reg))); err != nil {
		return zero, dxl.CommunicationErr(err)
	}
	status, derr := readStatus(t)
	if derr != nil {
		return zero, derr
	}
	if status.Source != s.ID {
		return zero, dxl.FormatErr(dxl.FormatID)
	}
	if len(status.Parameters) != int(reg.Size) {
		return zero, dxl.FormatErr(dxl.FormatLength)
	}
	return reg.Decode(status.Parameters), nil
}
