// Package dxl holds the protocol-agnostic data model shared by the
// protocol1 and protocol2 packages: servo addressing, baud rates, the
// Transport capability the core is driven through, and the error
// taxonomy every session operation reports through.
package dxl

import "fmt"

// BroadcastID is the wire value reserved for the broadcast PacketID. It is
// never a valid ServoID.
const BroadcastID = 254

// ServoID identifies a single servo on the bus, in [0, 253].
type ServoID uint8

// NewServoID validates and wraps a raw byte as a ServoID.
func NewServoID(id uint8) (ServoID, error) {
	if id >= BroadcastID {
		return 0, fmt.Errorf("dxl: servo id %d is reserved for broadcast", id)
	}
	return ServoID(id), nil
}

func (id ServoID) String() string {
	return fmt.Sprintf("servo#%d", uint8(id))
}

// PacketID is the wire-level target of an instruction: either a single
// servo or the broadcast address. Responses never carry Broadcast.
type PacketID struct {
	id        ServoID
	broadcast bool
}

// Unicast targets a single servo.
func Unicast(id ServoID) PacketID {
	return PacketID{id: id}
}

// Broadcast targets every servo on the bus.
func Broadcast() PacketID {
	return PacketID{broadcast: true}
}

// IsBroadcast reports whether the target is the broadcast address.
func (p PacketID) IsBroadcast() bool {
	return p.broadcast
}

// ServoID returns the unicast target. Only valid when IsBroadcast is false.
func (p PacketID) ServoID() ServoID {
	return p.id
}

// Byte returns the wire-level representation of the target.
func (p PacketID) Byte() uint8 {
	if p.broadcast {
		return BroadcastID
	}
	return uint8(p.id)
}

func (p PacketID) String() string {
	if p.broadcast {
		return "broadcast"
	}
	return p.id.String()
}

// BaudRate is one of the bus speeds the core knows how to ask a Transport
// to switch to. The set is intentionally small and explicit rather than a
// bare integer, matching the servos' own fixed baud table.
type BaudRate uint32

const (
	Baud9600    BaudRate = 9600
	Baud19200   BaudRate = 19200
	Baud57600   BaudRate = 57600
	Baud115200  BaudRate = 115200
	Baud1000000 BaudRate = 1_000_000
	Baud2000000 BaudRate = 2_000_000
	Baud3000000 BaudRate = 3_000_000
	Baud4000000 BaudRate = 4_000_000
)

// DefaultEnumerationBauds is the default baud table for callers to pass to
// protocol1.Enumerate or protocol2.Enumerate. It holds only Baud1000000, the
// single rate the source swept. Enumerate does not fall back to it: given an
// empty table, it sweeps nothing.
var DefaultEnumerationBauds = []BaudRate{Baud1000000}

func (b BaudRate) String() string {
	return fmt.Sprintf("%d baud", uint32(b))
}

// ServoInfo describes one servo discovered during enumeration.
type ServoInfo struct {
	ID          ServoID
	ModelNumber uint16
	BaudRate    BaudRate
}
