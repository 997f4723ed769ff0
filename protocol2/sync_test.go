package protocol2

import (
	"testing"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncWriteSendsOneBroadcastFrame(t *testing.T) {
	id1, _ := dxl.NewServoID(1)
	id2, _ := dxl.NewServoID(2)
	tr := transport.NewMock()

	_, reg := Uint16At(0x74)
	derr := SyncWrite(dxl.Baud1000000, tr, reg, []dxl.ServoID{id1, id2}, []uint16{100, 200})
	require.Nil(t, derr)
	assert.Equal(t, uint8(dxl.BroadcastID), tr.WrittenBytes()[4])
}

func TestSyncWriteRejectsLengthMismatch(t *testing.T) {
	id1, _ := dxl.NewServoID(1)
	tr := transport.NewMock()
	_, reg := Uint16At(0x74)
	derr := SyncWrite(dxl.Baud1000000, tr, reg, []dxl.ServoID{id1}, []uint16{})
	require.NotNil(t, derr)
	assert.Equal(t, dxl.FormatLength, derr.Format.Kind)
}

func TestSyncReadCollectsPerServoResults(t *testing.T) {
	id1, _ := dxl.NewServoID(1)
	id2, _ := dxl.NewServoID(2)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, []byte{0x0A, 0x00}))
	tr.QueueResponse(statusFrame(2, []byte{0x14, 0x00}))

	reg, _ := Uint16At(0x84)
	values, results := SyncRead(dxl.Baud1000000, tr, reg, []dxl.ServoID{id1, id2})
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Error)
	assert.Nil(t, results[1].Error)
	assert.Equal(t, uint16(10), values[0])
	assert.Equal(t, uint16(20), values[1])
}

func TestSyncReadSurfacesPerServoTimeout(t *testing.T) {
	id1, _ := dxl.NewServoID(1)
	id2, _ := dxl.NewServoID(2)
	tr := transport.NewMock()
	tr.QueueResponse(statusFrame(1, []byte{0x0A, 0x00}))
	// no second response queued: id2 should time out.

	reg, _ := Uint16At(0x84)
	_, results := SyncRead(dxl.Baud1000000, tr, reg, []dxl.ServoID{id1, id2})
	require.Len(t, results, 2)
	assert.Nil(t, results[0].Error)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, dxl.KindCommunication, results[1].Error.Kind)
}
