package protocol2

import (
	"testing"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPingSuccess(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, nil))

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.Nil(t, derr)
	assert.Equal(t, dxl.Baud1000000, tr.LastBaud())
}

func TestSessionPingSourceMismatch(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(2, nil))

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.FormatID, derr.Format.Kind)
}

func TestSessionReadDecodesParameters(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, []byte{0x00, 0x01, 0x00, 0x00}))

	presentPosition, _ := Uint32At(0x84)
	s := NewSession(id, dxl.Baud1000000)
	value, derr := Read(s, tr, presentPosition)
	require.Nil(t, derr)
	assert.Equal(t, uint32(0x100), value)
}

func TestSessionWriteSuccess(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, nil))

	_, goalPosition := Uint32At(0x74)
	s := NewSession(id, dxl.Baud1000000)
	derr := Write(s, tr, goalPosition, uint32(0x123))
	require.Nil(t, derr)
}

func TestSessionReadRejectsUnexpectedParamLength(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, []byte{0x01}))

	presentPosition, _ := Uint32At(0x84)
	s := NewSession(id, dxl.Baud1000000)
	_, derr := Read(s, tr, presentPosition)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.FormatLength, derr.Format.Kind)
}

// TestSessionPingResyncsPastGarbagePrefix pins down a boundary case:
// garbage long enough that the first 7-byte header read captures only
// part of the real marker+header. readStatus must keep resyncing rather
// than mistake the raw, unshifted buffer's bytes for the length field.
func TestSessionPingResyncsPastGarbagePrefix(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	garbage := []byte{0x12, 0x34, 0x56}
	frame := append(append([]byte(nil), garbage...), statusFrame(1, nil)...)
	tr.QueueResponse(frame)

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.Nil(t, derr)
}

// TestSessionReadSurvivesRandomGarbagePadding exercises the same resync
// path through transport.Mock's randomized noise, the way
// haguro-go-dxl's mock device always pads real status frames.
func TestSessionReadSurvivesRandomGarbagePadding(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	for i := 0; i < 20; i++ {
		tr := transport.NewMock()
		tr.PadResponsesWithGarbage()
		tr.QueueResponse(statusFrame(1, []byte{0x00, 0x01, 0x00, 0x00}))

		presentPosition, _ := Uint32At(0x84)
		s := NewSession(id, dxl.Baud1000000)
		value, derr := Read(s, tr, presentPosition)
		require.Nil(t, derr)
		assert.Equal(t, uint32(0x100), value)
	}
}

func TestSessionPingTimeout(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.KindCommunication, derr.Kind)
}
