package protocol1

import (
	"testing"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pongFrame(id uint8, params []byte) []byte {
	length := uint8(2 + len(params))
	frame := []byte{0xFF, 0xFF, id, length, 0x00}
	frame = append(frame, params...)
	frame = append(frame, 0)
	frame[len(frame)-1] = Checksum(frame[2 : len(frame)-1])
	return frame
}

func TestSessionPingSuccess(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(pongFrame(1, nil))

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.Nil(t, derr)
	assert.Equal(t, dxl.Baud1000000, tr.LastBaud())
	assert.Equal(t, EncodePing(dxl.Unicast(id)), tr.WrittenBytes())
}

func TestSessionPingSourceMismatch(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(pongFrame(2, nil))

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.FormatID, derr.Format.Kind)
}

func TestSessionPingTimeout(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()

	s := NewSession(id, dxl.Baud1000000)
	derr := s.Ping(tr)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.KindCommunication, derr.Kind)
}

func TestSessionWriteSuccess(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(pongFrame(1, nil))

	_, goalPosition := Uint16At(0x1E)
	s := NewSession(id, dxl.Baud1000000)
	derr := Write(s, tr, goalPosition, uint16(0x123))
	require.Nil(t, derr)
}

func TestSessionReadSuccess(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.QueueResponse(pongFrame(1, []byte{0x0C, 0x00}))

	s := NewSession(id, dxl.Baud1000000)
	model, derr := Read(s, tr, ModelNumber)
	require.Nil(t, derr)
	assert.Equal(t, uint16(0x000C), model)
}

func TestSessionRejectsUnsupportedBaud(t *testing.T) {
	id, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	tr.RejectBaud(dxl.Baud9600)

	s := NewSession(id, dxl.Baud9600)
	derr := s.Ping(tr)
	require.NotNil(t, derr)
	assert.Equal(t, dxl.KindCommunication, derr.Kind)
}
