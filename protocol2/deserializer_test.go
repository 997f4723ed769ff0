package protocol2

import (
	"testing"

	"github.com/haedal-robotics/dxl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusFrame builds a well-formed status wire frame for the given
// source, instruction-echoing response to a Ping/Write (zero params) or
// a Read (params carries the register value), with a valid CRC.
func statusFrame(id uint8, params []byte) []byte {
	stuffed := Stuff(params)
	length := 2 + len(stuffed) + 2
	frame := make([]byte, 0, 7+length)
	frame = append(frame, 0xFF, 0xFF, 0xFD, 0x00, id, uint8(length), uint8(length>>8))
	frame = append(frame, instStatus, 0x00) // error byte 0 = no error
	frame = append(frame, stuffed...)
	crc := UpdateCRC(0, frame)
	frame = append(frame, uint8(crc), uint8(crc>>8))
	return frame
}

func TestDeserializerWholeFrameAtOnce(t *testing.T) {
	frame := statusFrame(1, []byte{0x0C, 0x00})
	d := New()
	finished, err := d.Feed(frame)
	require.NoError(t, err)
	require.True(t, finished)
	status, derr := d.Build()
	require.Nil(t, derr)
	assert.Equal(t, dxl.ServoID(1), status.Source)
	assert.Equal(t, []byte{0x0C, 0x00}, status.Parameters)
}

func TestDeserializerByteAtATime(t *testing.T) {
	frame := statusFrame(5, []byte{0x01, 0x02, 0x03, 0x04})
	d := New()
	var finished bool
	var err error
	for _, b := range frame {
		finished, err = d.Feed([]byte{b})
		require.NoError(t, err)
		if finished {
			break
		}
	}
	require.True(t, finished)
	status, derr := d.Build()
	require.Nil(t, derr)
	assert.Equal(t, dxl.ServoID(5), status.Source)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, status.Parameters)
}

func TestDeserializerResyncsPastGarbage(t *testing.T) {
	frame := statusFrame(2, nil)
	withGarbage := append([]byte{0x00, 0xAA, 0xFF, 0x00}, frame...)
	d := New()
	finished, err := d.Feed(withGarbage)
	require.NoError(t, err)
	require.True(t, finished)
	status, derr := d.Build()
	require.Nil(t, derr)
	assert.Equal(t, dxl.ServoID(2), status.Source)
}

func TestDeserializerRejectsBadCRC(t *testing.T) {
	frame := statusFrame(1, nil)
	frame[len(frame)-1] ^= 0xFF
	d := New()
	_, err := d.Feed(frame)
	require.Error(t, err)
	derr, ok := err.(*dxl.Error)
	require.True(t, ok)
	assert.Equal(t, dxl.FormatCRC, derr.Format.Kind)
}

func TestDeserializerSurfacesProcessingError(t *testing.T) {
	stuffed := Stuff(nil)
	length := 2 + len(stuffed) + 2
	frame := make([]byte, 0, 7+length)
	frame = append(frame, 0xFF, 0xFF, 0xFD, 0x00, 1, uint8(length), uint8(length>>8))
	frame = append(frame, instStatus, 0x01) // InputVoltageError bit
	crc := UpdateCRC(0, frame)
	frame = append(frame, uint8(crc), uint8(crc>>8))

	d := New()
	_, err := d.Feed(frame)
	require.Error(t, err)
	derr, ok := err.(*dxl.Error)
	require.True(t, ok)
	assert.Equal(t, dxl.KindProcessing, derr.Kind)
	assert.True(t, derr.Processing.InputVoltageError())
}

func TestDeserializerFeedAfterFinishIsIdempotent(t *testing.T) {
	frame := statusFrame(1, nil)
	d := New()
	finished, err := d.Feed(frame)
	require.NoError(t, err)
	require.True(t, finished)

	finished, err = d.Feed([]byte{0x00})
	require.NoError(t, err)
	assert.True(t, finished)
}
