// Package dynamixel glues the wire-level protocol1 and protocol2 packages
// to concrete servo models: the handful of fixed control-table addresses
// and angle/tick conversion constants that differ model to model.
package dynamixel

import "github.com/haedal-robotics/dxl"

// Servo is the capability surface every supported model exposes,
// regardless of which wire protocol backs it.
type Servo interface {
	SetEnableTorque(t dxl.Transport, enable bool) *dxl.Error
	SetPosition(t dxl.Transport, radians float32) *dxl.Error
	GetPosition(t dxl.Transport) (float32, *dxl.Error)
}
