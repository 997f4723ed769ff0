package protocol1

// ReadRegister describes a Protocol 1 control-table entry that can be
// read: its 8-bit address, byte width, and little-endian decoder. The
// generic type parameter V is the register's logical value type (bool,
// uint8, uint16, int16, ...).
type ReadRegister[V any] struct {
	Address uint8
	Size    uint8
	Decode  func(data []byte) V
}

// WriteRegister describes a Protocol 1 control-table entry that can be
// written: its 8-bit address, byte width, and little-endian encoder into
// a fixed 4-byte, zero-padded array (the widest register in scope is 4
// bytes; encoders only ever populate the first Size of them).
type WriteRegister[V any] struct {
	Address uint8
	Size    uint8
	Encode  func(v V) [4]byte
}

// Generic codecs shared by every concrete register. Kept tiny and
// protocol1-local (rather than imported from protocol2) so that the two
// protocol packages stay independently compilable, per DESIGN NOTES §9's
// instruction to duplicate the small core rather than merge the
// protocols' type-level guarantees.

func decodeBool(data []byte) bool { return data[0]&1 == 1 }
func encodeBool(v bool) [4]byte {
	if v {
		return [4]byte{1, 0, 0, 0}
	}
	return [4]byte{0, 0, 0, 0}
}

func decodeUint8(data []byte) uint8 { return data[0] }
func encodeUint8(v uint8) [4]byte   { return [4]byte{v, 0, 0, 0} }

func decodeInt8(data []byte) int8 { return int8(data[0]) }
func encodeInt8(v int8) [4]byte   { return [4]byte{uint8(v), 0, 0, 0} }

func decodeUint16(data []byte) uint16 {
	return uint16(data[0]) | uint16(data[1])<<8
}
func encodeUint16(v uint16) [4]byte {
	return [4]byte{uint8(v), uint8(v >> 8), 0, 0}
}

func decodeInt16(data []byte) int16 { return int16(decodeUint16(data)) }
func encodeInt16(v int16) [4]byte   { return encodeUint16(uint16(v)) }

func decodeUint32(data []byte) uint32 {
	return uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
}
func encodeUint32(v uint32) [4]byte {
	return [4]byte{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func decodeInt32(data []byte) int32 { return int32(decodeUint32(data)) }
func encodeInt32(v int32) [4]byte   { return encodeUint32(uint32(v)) }

// Bool1 builds a 1-byte boolean register pair at the given address.
func Bool1(address uint8) (ReadRegister[bool], WriteRegister[bool]) {
	return ReadRegister[bool]{Address: address, Size: 1, Decode: decodeBool},
		WriteRegister[bool]{Address: address, Size: 1, Encode: encodeBool}
}

// Uint8At builds a 1-byte unsigned register pair at the given address.
func Uint8At(address uint8) (ReadRegister[uint8], WriteRegister[uint8]) {
	return ReadRegister[uint8]{Address: address, Size: 1, Decode: decodeUint8},
		WriteRegister[uint8]{Address: address, Size: 1, Encode: encodeUint8}
}

// Int8At builds a 1-byte signed register pair at the given address.
func Int8At(address uint8) (ReadRegister[int8], WriteRegister[int8]) {
	return ReadRegister[int8]{Address: address, Size: 1, Decode: decodeInt8},
		WriteRegister[int8]{Address: address, Size: 1, Encode: encodeInt8}
}

// Uint16At builds a 2-byte unsigned register pair at the given address.
func Uint16At(address uint8) (ReadRegister[uint16], WriteRegister[uint16]) {
	return ReadRegister[uint16]{Address: address, Size: 2, Decode: decodeUint16},
		WriteRegister[uint16]{Address: address, Size: 2, Encode: encodeUint16}
}

// Int16At builds a 2-byte signed register pair at the given address.
func Int16At(address uint8) (ReadRegister[int16], WriteRegister[int16]) {
	return ReadRegister[int16]{Address: address, Size: 2, Decode: decodeInt16},
		WriteRegister[int16]{Address: address, Size: 2, Encode: encodeInt16}
}

// Uint32At builds a 4-byte unsigned register pair at the given address.
func Uint32At(address uint8) (ReadRegister[uint32], WriteRegister[uint32]) {
	return ReadRegister[uint32]{Address: address, Size: 4, Decode: decodeUint32},
		WriteRegister[uint32]{Address: address, Size: 4, Encode: encodeUint32}
}

// Int32At builds a 4-byte signed register pair at the given address.
func Int32At(address uint8) (ReadRegister[int32], WriteRegister[int32]) {
	return ReadRegister[int32]{Address: address, Size: 4, Decode: decodeInt32},
		WriteRegister[int32]{Address: address, Size: 4, Encode: encodeInt32}
}

// ModelNumber is the generic model-number register shared by every
// Protocol 1 servo, used by Enumerate as a one-shot probe before a
// model-specific session is constructed.
var ModelNumber, _ = Uint16At(0x00)
