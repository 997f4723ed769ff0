package dynamixel

import (
	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol1"
)

// ModelAX12 is the AX-12's control-table model number, used by Connect to
// dispatch to this wrapper.
const ModelAX12 uint16 = 12

var (
	ax12TorqueEnableR, ax12TorqueEnableW   = protocol1.Bool1(24)
	ax12GoalPositionR, ax12GoalPositionW   = protocol1.Uint16At(30)
	ax12PresentPositionR, _                = protocol1.Uint16At(36)
)

// AX12 wraps a Protocol 1 session for an AX-12 servo. Its position scale
// (3.41 ticks/rad, clamped to the 10-bit goal field's [0, 1023] range) and
// the choice not to clamp on read are preserved exactly from the source
// this was ported from; they are calibrated to the AX-12's control table,
// not arbitrary.
type AX12 struct {
	Session protocol1.Session
}

func (s AX12) SetEnableTorque(t dxl.Transport, enable bool) *dxl.Error {
	return protocol1.Write(s.Session, t, ax12TorqueEnableW, enable)
}

func (s AX12) SetPosition(t dxl.Transport, radians float32) *dxl.Error {
	goal := int32(radians * 3.41)
	if goal < 0 {
		goal = 0
	} else if goal > 1023 {
		goal = 1023
	}
	return protocol1.Write(s.Session, t, ax12GoalPositionW, uint16(goal))
}

func (s AX12) GetPosition(t dxl.Transport) (float32, *dxl.Error) {
	tick, err := protocol1.Read(s.Session, t, ax12PresentPositionR)
	if err != nil {
		return 0, err
	}
	return float32(tick) / 3.41, nil
}
