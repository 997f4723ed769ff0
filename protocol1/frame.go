// Package protocol1 implements the legacy Dynamixel wire protocol: 8-bit
// register addressing, a complemented 8-bit sum checksum, and a one-shot (fully
// buffered) status decoder.
package protocol1

import (
	"github.com/haedal-robotics/dxl"
)

const (
	header1 = 0xFF
	header2 = 0xFF

	instPing  = 0x01
	instRead  = 0x02
	instWrite = 0x03
)

// statusOverheadLength is the LEN field value for a status carrying zero
// parameters: error byte + checksum byte.
const statusOverheadLength = 2

// EncodePing builds a Ping instruction frame: no parameters, 6 bytes total.
func EncodePing(target dxl.PacketID) []byte {
	frame := []byte{header1, header2, target.Byte(), 2, instPing, 0}
	frame[5] = Checksum(frame[2:5])
	return frame
}

// EncodeRead builds a Read instruction frame for the given register:
// parameters = [ADDRESS, SIZE], 8 bytes total.
func EncodeRead[V any](target dxl.PacketID, reg ReadRegister[V]) []byte {
	frame := []byte{header1, header2, target.Byte(), 4, instRead, reg.Address, reg.Size, 0}
	frame[7] = Checksum(frame[2:7])
	return frame
}

// EncodeWrite builds a Write instruction frame for the given register and
// value: parameters = [ADDRESS, payload[0:Size]], 7+Size bytes total.
func EncodeWrite[V any](target dxl.PacketID, reg WriteRegister[V], value V) []byte {
	payload := reg.Encode(value)
	length := 3 + reg.Size
	frame := make([]byte, 7+int(reg.Size))
	frame[0], frame[1] = header1, header2
	frame[2] = target.Byte()
	frame[3] = length
	frame[4] = instWrite
	frame[5] = reg.Address
	copy(frame[6:], payload[:reg.Size])
	frame[len(frame)-1] = Checksum(frame[2 : len(frame)-1])
	return frame
}

// Status is a decoded Protocol 1 response: the servo it came from and its
// raw, still-undecoded parameter bytes.
type Status struct {
	Source     dxl.ServoID
	Parameters []byte
}

// HeaderLength is the number of bytes needed before the declared LEN
// field is known: two magic bytes, ID, LEN.
const HeaderLength = 4

// DecodeStatus decodes a fully-buffered response frame whose total length
// equals HeaderLength+LEN (header[0:4] + LEN more bytes). expectedParams
// is the parameter count the in-flight instruction's response must carry
// (0 for Ping/Write responses, Register.Size for a Read response);
// passing a negative value skips that check, for a caller that only
// wants source ID and raw parameters.
func DecodeStatus(frame []byte, expectedParams int) (Status, *dxl.Error) {
	if len(frame) < HeaderLength {
		return Status{}, dxl.FormatErr(dxl.FormatLength)
	}
	if frame[0] != header1 || frame[1] != header2 {
		return Status{}, dxl.FormatErr(dxl.FormatHeader)
	}

	id := frame[2]
	length := int(frame[3])
	if len(frame) != HeaderLength+length {
		return Status{}, dxl.FormatErr(dxl.FormatLength)
	}
	if length < statusOverheadLength {
		return Status{}, dxl.FormatErr(dxl.FormatLength)
	}

	body := frame[HeaderLength:]
	errByte := body[0]
	params := body[1 : length-1]
	checksumByte := body[length-1]

	if Checksum(frame[2:len(frame)-1]) != checksumByte {
		return Status{}, dxl.FormatErr(dxl.FormatCRC)
	}

	procErr, ferr := dxl.DecodeProcessingError(errByte)
	if ferr != nil {
		return Status{}, dxl.FormatErr(dxl.FormatInvalidError)
	}
	if procErr != nil {
		return Status{}, dxl.ProcessingErr(procErr)
	}

	if expectedParams >= 0 && len(params) != expectedParams {
		return Status{}, dxl.FormatErr(dxl.FormatLength)
	}

	return Status{Source: dxl.ServoID(id), Parameters: params}, nil
}
