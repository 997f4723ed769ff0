package protocol2

import (
	"github.com/haedal-robotics/dxl"
)

const instStatus = 0x55

type deserializerState int

const (
	stateAwaitHeader deserializerState = iota
	stateAwaitBody
	stateFinished
	stateFailed
)

// Status is a decoded Protocol 2 response: the servo it came from and its
// raw, destuffed parameter bytes. A processing error is not stored here; it
// surfaces as a Processing-kind *dxl.Error from Feed and Build instead.
type Status struct {
	Source     dxl.ServoID
	Parameters []byte
}

// Deserializer incrementally decodes one Protocol 2 status frame from
// chunks of raw, possibly-stuffed bytes as they arrive off a half-duplex
// transport. It never reads past the length the header declares: once
// Feed reports finished, Build returns the decoded Status and any Feed
// call after that is a no-op returning the same result.
//
// It also resynchronizes past leading garbage: bytes before the first
// 0xFF 0xFF 0xFD marker are discarded rather than treated as a framing
// failure, matching real half-duplex buses where a responder's UART can
// leave stray bytes on the line before a genuine reply.
type Deserializer struct {
	state deserializerState

	scan   []byte // bytes seen so far while awaiting the marker + 7-byte header
	header []byte // the 7 raw header bytes once parsed (for CRC recomputation)
	id     uint8
	length int // INST + ERROR + stuffed PARAM* + CRC, per the header's LEN field

	body   []byte // accumulated stuffed bytes following the header
	status Status
	err    error
}

// New returns a Deserializer ready to accept the start of a fresh frame.
func New() *Deserializer {
	return &Deserializer{}
}

func findMarker(buf []byte) int {
	for i := 0; i+2 < len(buf); i++ {
		if buf[i] == 0xFF && buf[i+1] == 0xFF && buf[i+2] == 0xFD {
			return i
		}
	}
	return -1
}

// Feed consumes the next chunk of raw bytes off the wire. It returns true
// once a complete, length-validated frame has been assembled; Build then
// decodes it. A non-nil error means the frame is malformed beyond repair
// and the Deserializer must be discarded (construct a new one to resync).
func (d *Deserializer) Feed(chunk []byte) (bool, error) {
	switch d.state {
	case stateFinished:
		return true, nil
	case stateFailed:
		return false, d.err
	}

	if d.state == stateAwaitHeader {
		d.scan = append(d.scan, chunk...)
		idx := findMarker(d.scan)
		if idx < 0 {
			if len(d.scan) > 2 {
				d.scan = d.scan[len(d.scan)-2:]
			}
			return false, nil
		}
		if len(d.scan)-idx < 7 {
			d.scan = d.scan[idx:]
			return false, nil
		}

		header := append([]byte(nil), d.scan[idx:idx+7]...)
		length := int(header[5]) | int(header[6])<<8
		if length < statusOverheadLength {
			d.state = stateFailed
			d.err = dxl.FormatErr(dxl.FormatLength)
			return false, d.err
		}

		d.header = header
		d.id = header[4]
		d.length = length
		d.body = append(d.body, d.scan[idx+7:]...)
		d.scan = nil
		d.state = stateAwaitBody

		if len(d.body) >= d.length {
			return d.finish()
		}
		return false, nil
	}

	// stateAwaitBody
	d.body = append(d.body, chunk...)
	if len(d.body) >= d.length {
		return d.finish()
	}
	return false, nil
}

func (d *Deserializer) finish() (bool, error) {
	frame := d.body[:d.length]

	full := make([]byte, 0, len(d.header)+len(frame)-2)
	full = append(full, d.header...)
	full = append(full, frame[:len(frame)-2]...)
	wantCRC := UpdateCRC(0, full)
	gotCRC := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	if wantCRC != gotCRC {
		d.state = stateFailed
		d.err = dxl.FormatErr(dxl.FormatCRC)
		return false, d.err
	}

	errByte := frame[1]
	stuffedParams := frame[2 : len(frame)-2]

	procErr, ferr := dxl.DecodeProcessingError(errByte)
	if ferr != nil {
		d.state = stateFailed
		d.err = dxl.FormatErr(dxl.FormatInvalidError)
		return false, d.err
	}
	if procErr != nil {
		d.state = stateFailed
		d.err = dxl.ProcessingErr(procErr)
		return false, d.err
	}

	d.status = Status{
		Source:     dxl.ServoID(d.id),
		Parameters: Destuff(stuffedParams),
	}
	d.state = stateFinished
	return true, nil
}

// IsFinished reports whether Feed has assembled a complete frame.
func (d *Deserializer) IsFinished() bool { return d.state == stateFinished }

// Build returns the decoded status once Feed has reported finished. It
// returns a *dxl.Error wrapping the same failure Feed already surfaced if
// the frame never completed, for callers that only check Build.
func (d *Deserializer) Build() (Status, *dxl.Error) {
	if d.state != stateFinished {
		if d.err != nil {
			if de, ok := d.err.(*dxl.Error); ok {
				return Status{}, de
			}
			return Status{}, dxl.CommunicationErr(d.err)
		}
		return Status{}, dxl.FormatErr(dxl.FormatLength)
	}
	return d.status, nil
}
