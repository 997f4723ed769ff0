package protocol1

import (
	"io"
	"log/slog"
	"testing"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnumerateTwoResponders(t *testing.T) {
	tr := transport.NewMock()
	// Responder 3: pong with no params, then model-read pong for model 12.
	tr.QueueResponse(pongFrame(3, nil))
	tr.QueueResponse(pongFrame(3, []byte{0x0C, 0x00}))
	// Responder 7: pong with no params, then model-read pong for 0x001D.
	tr.QueueResponse(pongFrame(7, nil))
	tr.QueueResponse(pongFrame(7, []byte{0x1D, 0x00}))

	servos, err := Enumerate(tr, []dxl.BaudRate{dxl.Baud1000000}, silentLogger())
	require.NoError(t, err)
	require.Len(t, servos, 2)
	assert.Equal(t, dxl.ServoID(3), servos[0].ID)
	assert.Equal(t, uint16(12), servos[0].ModelNumber)
	assert.Equal(t, dxl.ServoID(7), servos[1].ID)
	assert.Equal(t, uint16(0x001D), servos[1].ModelNumber)
}

func TestEnumerateSkipsRejectedBaud(t *testing.T) {
	tr := transport.NewMock()
	tr.RejectBaud(dxl.Baud9600)
	tr.QueueResponse(pongFrame(1, nil))
	tr.QueueResponse(pongFrame(1, []byte{0x0C, 0x00}))

	servos, err := Enumerate(tr, []dxl.BaudRate{dxl.Baud9600, dxl.Baud1000000}, silentLogger())
	require.NoError(t, err)
	require.Len(t, servos, 1)
	assert.Equal(t, dxl.ServoID(1), servos[0].ID)
}

func TestEnumerateEmptyBusReturnsNothing(t *testing.T) {
	tr := transport.NewMock()
	servos, err := Enumerate(tr, []dxl.BaudRate{dxl.Baud1000000}, silentLogger())
	require.NoError(t, err)
	assert.Empty(t, servos)
}
