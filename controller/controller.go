// Package controller runs a background control loop over a group of
// Protocol 2 servos sharing one bus: goal commands go in on one channel,
// position feedback comes out on another, and sync read/write kicks in
// automatically once more than one motor is under control.
package controller

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol2"
)

// MotorModel holds the control-table addresses a Controller needs, so the
// same loop drives X-Series, Pro-Series, or any other Protocol 2 model
// without a model-specific rewrite.
type MotorModel struct {
	AddrTorqueEnable    uint16
	AddrGoalPosition    uint16
	AddrGoalVelocity    uint16
	AddrGoalPWM         uint16
	AddrPresentPosition uint16
	AddrOperatingMode   uint16
}

// Common Protocol 2 motor models.
var (
	ModelXSeries = MotorModel{
		AddrTorqueEnable:    64,
		AddrGoalPosition:    116,
		AddrGoalVelocity:    104,
		AddrGoalPWM:         100,
		AddrPresentPosition: 132,
		AddrOperatingMode:   11,
	}
	ModelProSeries = MotorModel{
		AddrTorqueEnable:    562,
		AddrGoalPosition:    596,
		AddrGoalVelocity:    600,
		AddrGoalPWM:         584,
		AddrPresentPosition: 611,
		AddrOperatingMode:   11,
	}
)

const (
	OpModeCurrent          = 0
	OpModeVelocity         = 1
	OpModePosition         = 3
	OpModeExtendedPosition = 4
	OpModeCurrentBasedPos  = 5
	OpModePWM              = 16
)

// Command is a write request for one motor's active goal register.
type Command struct {
	ID    dxl.ServoID
	Value uint32
}

// Feedback is a read result from one motor's present-position register.
type Feedback struct {
	ID    dxl.ServoID
	Value uint32
	Error error
}

// Controller owns the control loop goroutine for one bus segment.
type Controller struct {
	transport dxl.Transport
	baud      dxl.BaudRate
	log       *slog.Logger

	CommandChan  chan []Command
	FeedbackChan chan []Feedback

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	Model MotorModel

	mu               sync.RWMutex
	motorIDs         []dxl.ServoID
	activeGoalAddr   uint16
	useSyncReadWrite bool
}

// New builds a Controller for the given transport and model, driving a
// single motor (id 1) by default until SetMotorIDs says otherwise.
func New(t dxl.Transport, baud dxl.BaudRate, model MotorModel, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defaultID, _ := dxl.NewServoID(1)
	return &Controller{
		transport:      t,
		baud:           baud,
		log:            log,
		CommandChan:    make(chan []Command, 1),
		FeedbackChan:   make(chan []Feedback, 100),
		ctx:            ctx,
		cancel:         cancel,
		Model:          model,
		motorIDs:       []dxl.ServoID{defaultID},
		activeGoalAddr: model.AddrGoalPosition,
	}
}

// SetMotorIDs configures which motors this controller drives. Sync
// read/write turns on automatically once more than one motor is listed.
func (c *Controller) SetMotorIDs(ids []dxl.ServoID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.motorIDs = append([]dxl.ServoID(nil), ids...)
	c.useSyncReadWrite = len(ids) > 1
}

func (c *Controller) getMotorIDs() []dxl.ServoID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]dxl.ServoID(nil), c.motorIDs...)
}

func (c *Controller) isSyncMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.useSyncReadWrite
}

func (c *Controller) getActiveGoalAddr() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeGoalAddr
}

func (c *Controller) session(id dxl.ServoID) protocol2.Session {
	return protocol2.NewSession(id, c.baud)
}

func (c *Controller) enableTorque(id dxl.ServoID) error {
	_, reg := protocol2.Bool1(c.Model.AddrTorqueEnable)
	if derr := protocol2.Write(c.session(id), c.transport, reg, true); derr != nil {
		return derr
	}
	return nil
}

func (c *Controller) disableTorque(id dxl.ServoID) error {
	_, reg := protocol2.Bool1(c.Model.AddrTorqueEnable)
	if derr := protocol2.Write(c.session(id), c.transport, reg, false); derr != nil {
		return derr
	}
	return nil
}

// Start pings the first configured motor, enables torque, and spawns the
// control loop goroutine.
func (c *Controller) Start() error {
	id := c.getMotorIDs()[0]
	if derr := c.session(id).Ping(c.transport); derr != nil {
		return derr
	}
	if err := c.enableTorque(id); err != nil {
		return err
	}

	c.wg.Add(1)
	go c.controlLoop()
	return nil
}

// SetOperatingMode disables torque, writes the new mode, switches the
// active goal register to match, and re-enables torque. EEPROM-backed
// mode changes on real hardware need time to take effect; callers running
// against real servos should pace calls to this accordingly.
func (c *Controller) SetOperatingMode(id dxl.ServoID, mode uint8) error {
	if err := c.disableTorque(id); err != nil {
		return err
	}

	_, modeReg := protocol2.Uint8At(c.Model.AddrOperatingMode)
	if derr := protocol2.Write(c.session(id), c.transport, modeReg, mode); derr != nil {
		return derr
	}

	c.mu.Lock()
	switch mode {
	case OpModeVelocity:
		c.activeGoalAddr = c.Model.AddrGoalVelocity
	case OpModePWM:
		c.activeGoalAddr = c.Model.AddrGoalPWM
	case OpModePosition, OpModeExtendedPosition, OpModeCurrentBasedPos:
		c.activeGoalAddr = c.Model.AddrGoalPosition
	case OpModeCurrent:
		c.log.Warn("controller: current mode not fully supported, using position address")
		c.activeGoalAddr = c.Model.AddrGoalPosition
	}
	c.mu.Unlock()

	return c.enableTorque(id)
}

// Stop signals the control loop to exit and waits for it to finish.
func (c *Controller) Stop() {
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) controlLoop() {
	defer c.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case <-c.ctx.Done():
			return
		case cmds := <-c.CommandChan:
			c.applyCommands(cmds)
		default:
		}

		c.collectFeedback()
	}
}

func (c *Controller) applyCommands(cmds []Command) {
	goalAddr := c.getActiveGoalAddr()
	_, reg := protocol2.Uint32At(goalAddr)

	if c.isSyncMode() {
		ids := make([]dxl.ServoID, len(cmds))
		values := make([]uint32, len(cmds))
		for i, cmd := range cmds {
			ids[i] = cmd.ID
			values[i] = cmd.Value
		}
		if derr := protocol2.SyncWrite(c.baud, c.transport, reg, ids, values); derr != nil {
			c.log.Warn("controller: sync write failed", "error", derr)
		}
		return
	}

	for _, cmd := range cmds {
		if derr := protocol2.Write(c.session(cmd.ID), c.transport, reg, cmd.Value); derr != nil {
			c.log.Warn("controller: write failed", "id", cmd.ID, "error", derr)
		}
	}
}

func (c *Controller) collectFeedback() {
	motorIDs := c.getMotorIDs()
	reg, _ := protocol2.Uint32At(c.Model.AddrPresentPosition)

	var feedbacks []Feedback
	if c.isSyncMode() {
		values, results := protocol2.SyncRead(c.baud, c.transport, reg, motorIDs)
		for i, id := range motorIDs {
			var err error
			if results[i].Error != nil {
				err = results[i].Error
			}
			feedbacks = append(feedbacks, Feedback{ID: id, Value: values[i], Error: err})
		}
	} else {
		for _, id := range motorIDs {
			val, derr := protocol2.Read(c.session(id), c.transport, reg)
			var err error
			if derr != nil {
				err = derr
			}
			feedbacks = append(feedbacks, Feedback{ID: id, Value: val, Error: err})
		}
	}

	select {
	case c.FeedbackChan <- feedbacks:
	default:
	}
}
