package dynamixel

import (
	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol2"
)

// ModelM4210S260R is the Dynamixel Pro M42-10-S260-R's control-table
// model number.
const ModelM4210S260R uint16 = 0xA918

// Pro control-table addresses per the official Dynamixel Pro register
// map (not retained in the ported source, so sourced from the hardware
// documentation directly rather than guessed).
var (
	proTorqueEnableR, proTorqueEnableW = protocol2.Bool1(562)
	_, proGoalPositionW                = protocol2.Int32At(596)
	proPresentPositionR, _             = protocol2.Int32At(611)
)

// M4210S260R wraps a Protocol 2 session for a Dynamixel Pro M42-10-S260-R.
// Its angle/tick conversion is a rational scale evaluated in int32 rather
// than floating point (radians · 500 ticks/rev, scaled by 131593/1571) to
// avoid the f32 rounding drift a direct float constant would introduce;
// this is preserved exactly from the source this was ported from.
type M4210S260R struct {
	Session protocol2.Session
}

func (s M4210S260R) SetEnableTorque(t dxl.Transport, enable bool) *dxl.Error {
	return protocol2.Write(s.Session, t, proTorqueEnableW, enable)
}

func (s M4210S260R) SetPosition(t dxl.Transport, radians float32) *dxl.Error {
	goal := (int32(radians*500.0) * 131593) / 1571
	return protocol2.Write(s.Session, t, proGoalPositionW, goal)
}

func (s M4210S260R) GetPosition(t dxl.Transport) (float32, *dxl.Error) {
	tick, err := protocol2.Read(s.Session, t, proPresentPositionR)
	if err != nil {
		return 0, err
	}
	return (float32(tick) * 1571.0) / (131593.0 * 500.0), nil
}
