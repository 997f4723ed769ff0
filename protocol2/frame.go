package protocol2

import (
	"iter"
	"slices"

	"github.com/haedal-robotics/dxl"
)

const (
	header0 = 0xFF
	header1 = 0xFF
	header2 = 0xFD
	reserved = 0x00

	instPing  = 0x01
	instRead  = 0x02
	instWrite = 0x03

	instSyncRead  = 0x82
	instSyncWrite = 0x83
)

// statusOverheadLength is the LEN field value for a status carrying zero
// parameters: instruction(1) + error(1) + CRC(2).
const statusOverheadLength = 4

// encodePacket builds one full, stuffed, CRC-terminated instruction frame
// as a plain slice; every exported Encode* wraps this in a lazy
// iter.Seq[byte] view via slices.Values so callers who only want to stream
// bytes onto a transport never need the intermediate allocation to
// outlive the call, matching the spec's lazy byte-producer framing
// requirement.
func encodePacket(target dxl.PacketID, inst uint8, params []byte) []byte {
	stuffedParams := Stuff(params)
	length := 1 + len(stuffedParams) + 2 // INST + params + CRC

	body := make([]byte, 0, 7+length)
	body = append(body, header0, header1, header2, reserved, target.Byte())
	body = append(body, uint8(length), uint8(length>>8))
	body = append(body, inst)
	body = append(body, stuffedParams...)

	crc := UpdateCRC(0, body)
	body = append(body, uint8(crc), uint8(crc>>8))
	return body
}

// EncodePing yields a Ping instruction frame.
func EncodePing(target dxl.PacketID) iter.Seq[byte] {
	return slices.Values(encodePacket(target, instPing, nil))
}

// EncodeRead yields a Read instruction frame for the given register:
// parameters = [ADDR_L, ADDR_H, SIZE_L, SIZE_H].
func EncodeRead[V any](target dxl.PacketID, reg ReadRegister[V]) iter.Seq[byte] {
	params := []byte{
		uint8(reg.Address), uint8(reg.Address >> 8),
		uint8(reg.Size), uint8(reg.Size >> 8),
	}
	return slices.Values(encodePacket(target, instRead, params))
}

// EncodeWrite yields a Write instruction frame for the given register and
// value: parameters = [ADDR_L, ADDR_H, payload[0:Size]].
func EncodeWrite[V any](target dxl.PacketID, reg WriteRegister[V], value V) iter.Seq[byte] {
	payload := reg.Encode(value)
	params := make([]byte, 0, 2+reg.Size)
	params = append(params, uint8(reg.Address), uint8(reg.Address>>8))
	params = append(params, payload[:reg.Size]...)
	return slices.Values(encodePacket(target, instWrite, params))
}

// EncodeSyncWrite yields a single SyncWrite instruction frame addressing
// every (id, value) pair in ids/values at once: parameters =
// [ADDR_L, ADDR_H, SIZE_L, SIZE_H, (ID, payload[0:Size])...].
func EncodeSyncWrite[V any](reg WriteRegister[V], ids []dxl.ServoID, values []V) iter.Seq[byte] {
	params := make([]byte, 0, 4+len(ids)*(1+int(reg.Size)))
	params = append(params, uint8(reg.Address), uint8(reg.Address>>8), uint8(reg.Size), uint8(reg.Size>>8))
	for i, id := range ids {
		payload := reg.Encode(values[i])
		params = append(params, uint8(id))
		params = append(params, payload[:reg.Size]...)
	}
	return slices.Values(encodePacket(dxl.Broadcast(), instSyncWrite, params))
}

// EncodeSyncRead yields a single SyncRead instruction frame requesting the
// given register from every listed servo: parameters =
// [ADDR_L, ADDR_H, SIZE_L, SIZE_H, ID...].
func EncodeSyncRead[V any](reg ReadRegister[V], ids []dxl.ServoID) iter.Seq[byte] {
	params := make([]byte, 0, 4+len(ids))
	params = append(params, uint8(reg.Address), uint8(reg.Address>>8), uint8(reg.Size), uint8(reg.Size>>8))
	for _, id := range ids {
		params = append(params, uint8(id))
	}
	return slices.Values(encodePacket(dxl.Broadcast(), instSyncRead, params))
}
