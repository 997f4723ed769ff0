package dynamixel

import (
	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol1"
)

// ModelMX28 is the MX-28's control-table model number.
const ModelMX28 uint16 = 0x001D

var (
	mx28TorqueEnableR, mx28TorqueEnableW = protocol1.Bool1(24)
	_, mx28GoalPositionW                 = protocol1.Uint16At(30)
	mx28PresentPositionR, _              = protocol1.Uint16At(36)
)

// MX28 wraps a Protocol 1 session for an MX-28 servo. The write and read
// scales are deliberately asymmetric (651.08854 ticks/rad going out,
// 652.23 ticks/rad coming back) and the goal tick is never clamped to the
// 12-bit field — both preserved exactly from the source this was ported
// from rather than "fixed" into a single round-trippable constant.
type MX28 struct {
	Session protocol1.Session
}

func (s MX28) SetEnableTorque(t dxl.Transport, enable bool) *dxl.Error {
	return protocol1.Write(s.Session, t, mx28TorqueEnableW, enable)
}

func (s MX28) SetPosition(t dxl.Transport, radians float32) *dxl.Error {
	goal := uint16(int32(2048) + int32(radians*651.08854))
	return protocol1.Write(s.Session, t, mx28GoalPositionW, goal)
}

func (s MX28) GetPosition(t dxl.Transport) (float32, *dxl.Error) {
	tick, err := protocol1.Read(s.Session, t, mx28PresentPositionR)
	if err != nil {
		return 0, err
	}
	return float32(int32(tick)-2048) / 652.23, nil
}
