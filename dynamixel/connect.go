package dynamixel

import (
	"fmt"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol1"
	"github.com/haedal-robotics/dxl/protocol2"
)

// Connect dispatches on info.ModelNumber to build the matching Servo
// wrapper, bound to a session at info.ID and info.BaudRate. It returns an
// error for any model number not in this module's supported set — callers
// enumerating a live bus should expect and handle that rather than treat
// it as fatal.
func Connect(info dxl.ServoInfo) (Servo, error) {
	switch info.ModelNumber {
	case ModelAX12:
		return AX12{Session: protocol1.NewSession(info.ID, info.BaudRate)}, nil
	case ModelMX28:
		return MX28{Session: protocol1.NewSession(info.ID, info.BaudRate)}, nil
	case ModelM4210S260R:
		return M4210S260R{Session: protocol2.NewSession(info.ID, info.BaudRate)}, nil
	default:
		return nil, fmt.Errorf("dynamixel: unsupported model number %d (0x%04X)", info.ModelNumber, info.ModelNumber)
	}
}
