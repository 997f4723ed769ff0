package controller

import (
	"fmt"
	"math"
	"time"

	"github.com/haedal-robotics/dxl"
)

// TrapezoidalProfile plans motion between two goal values with constant
// acceleration, constant cruise, and constant deceleration phases. Units are
// whatever the target register uses (encoder ticks for goal position, for
// instance) -- the profile itself is unit-agnostic.
type TrapezoidalProfile struct {
	StartPos     float64
	TargetPos    float64
	MaxVelocity  float64
	Acceleration float64

	totalTime  float64
	accelTime  float64
	decelTime  float64
	cruiseTime float64
	cruiseVel  float64
	distance   float64

	// posAtAccelEnd and posAtCruiseEnd are the (unsigned, direction-free)
	// distance already covered at the accel/cruise phase boundaries,
	// cached once here instead of recomputed inline in both the cruise
	// and decel branches of Sample.
	posAtAccelEnd  float64
	posAtCruiseEnd float64
}

// TrajectoryPoint is one sample of a planned trajectory.
type TrajectoryPoint struct {
	Time     float64
	Position float64
	Velocity float64
	Accel    float64
}

// NewTrapezoidalProfile builds a profile between startPos and targetPos,
// bounded by maxVel and accel (both must be positive).
func NewTrapezoidalProfile(startPos, targetPos, maxVel, accel float64) (*TrapezoidalProfile, error) {
	if maxVel <= 0 {
		return nil, fmt.Errorf("max velocity must be positive")
	}
	if accel <= 0 {
		return nil, fmt.Errorf("acceleration must be positive")
	}

	p := &TrapezoidalProfile{
		StartPos:     startPos,
		TargetPos:    targetPos,
		MaxVelocity:  maxVel,
		Acceleration: accel,
	}
	p.calculate()
	return p, nil
}

func (p *TrapezoidalProfile) calculate() {
	p.distance = math.Abs(p.TargetPos - p.StartPos)
	if p.distance == 0 {
		return
	}

	timeToMaxVel := p.MaxVelocity / p.Acceleration
	distanceAccelDecel := p.MaxVelocity * timeToMaxVel

	if distanceAccelDecel > p.distance {
		// Triangular profile: the move is too short to ever reach MaxVelocity.
		p.cruiseVel = math.Sqrt(p.Acceleration * p.distance)
		p.accelTime = p.cruiseVel / p.Acceleration
		p.decelTime = p.accelTime
		p.cruiseTime = 0
	} else {
		p.cruiseVel = p.MaxVelocity
		p.accelTime = timeToMaxVel
		p.decelTime = timeToMaxVel
		p.cruiseTime = (p.distance - distanceAccelDecel) / p.MaxVelocity
	}

	p.totalTime = p.accelTime + p.cruiseTime + p.decelTime
	p.posAtAccelEnd = 0.5 * p.Acceleration * p.accelTime * p.accelTime
	p.posAtCruiseEnd = p.posAtAccelEnd + p.cruiseVel*p.cruiseTime
}

// Sample returns the planned position, velocity, and acceleration at time t
// seconds from the start of the move.
func (p *TrapezoidalProfile) Sample(t float64) TrajectoryPoint {
	if t <= 0 {
		return TrajectoryPoint{Time: 0, Position: p.StartPos}
	}
	if t >= p.totalTime {
		return TrajectoryPoint{Time: p.totalTime, Position: p.TargetPos}
	}

	direction := 1.0
	if p.TargetPos < p.StartPos {
		direction = -1.0
	}

	var pos, vel, accel float64

	switch {
	case t <= p.accelTime:
		accel = p.Acceleration
		vel = accel * t
		pos = 0.5 * accel * t * t
	case t <= p.accelTime+p.cruiseTime:
		accel = 0
		vel = p.cruiseVel
		pos = p.posAtAccelEnd + vel*(t-p.accelTime)
	default:
		accel = -p.Acceleration
		tDecel := t - p.accelTime - p.cruiseTime
		vel = p.cruiseVel - p.Acceleration*tDecel
		pos = p.posAtCruiseEnd + p.cruiseVel*tDecel - 0.5*p.Acceleration*tDecel*tDecel
	}

	return TrajectoryPoint{
		Time:     t,
		Position: p.StartPos + direction*pos,
		Velocity: direction * vel,
		Accel:    direction * accel,
	}
}

// Generate samples the whole profile at sampleRate Hz.
func (p *TrapezoidalProfile) Generate(sampleRate float64) []TrajectoryPoint {
	if p.totalTime == 0 {
		return []TrajectoryPoint{{Time: 0, Position: p.StartPos}}
	}

	dt := 1.0 / sampleRate
	numPoints := int(math.Ceil(p.totalTime*sampleRate)) + 1
	points := make([]TrajectoryPoint, 0, numPoints)

	for i := 0; i < numPoints; i++ {
		t := float64(i) * dt
		if t > p.totalTime {
			t = p.totalTime
		}
		points = append(points, p.Sample(t))
	}
	return points
}

// Duration returns the planned move's total time.
func (p *TrapezoidalProfile) Duration() time.Duration {
	return time.Duration(p.totalTime * float64(time.Second))
}

// TotalTime returns the planned move's total time in seconds.
func (p *TrapezoidalProfile) TotalTime() float64 {
	return p.totalTime
}

// MotorProfile pairs one motor with the profile that drives it, so a
// single TrajectoryExecutor can coordinate several motors through their
// own independent moves on a shared clock.
type MotorProfile struct {
	ID      dxl.ServoID
	Profile *TrapezoidalProfile
}

// TrajectoryExecutor drives one or more motors through their own
// TrapezoidalProfile in lockstep, feeding the Controller's CommandChan
// one batched Command slice per tick. Batching every motor's sample into
// a single slice -- rather than one Command per channel send -- lets a
// multi-motor Controller (SetMotorIDs with more than one ID) dispatch the
// whole step as one SyncWrite instead of serializing it into one
// unicast Write per motor.
type TrajectoryExecutor struct {
	controller *Controller
	motors     []MotorProfile
}

// NewTrajectoryExecutor returns an executor that drives every given
// MotorProfile through c on the same clock. Passing a single MotorProfile
// drives one motor, same as commanding it directly.
func NewTrajectoryExecutor(c *Controller, motors ...MotorProfile) (*TrajectoryExecutor, error) {
	if len(motors) == 0 {
		return nil, fmt.Errorf("trajectory executor needs at least one motor")
	}
	return &TrajectoryExecutor{controller: c, motors: motors}, nil
}

// longestDuration returns the slowest motor's total move time, so every
// motor is sampled across the full move even if its own profile finishes
// sooner (Sample clamps to TargetPos past a profile's own totalTime).
func (e *TrajectoryExecutor) longestDuration() float64 {
	longest := 0.0
	for _, m := range e.motors {
		if t := m.Profile.TotalTime(); t > longest {
			longest = t
		}
	}
	return longest
}

func (e *TrajectoryExecutor) sampleAll(t float64) []Command {
	cmds := make([]Command, len(e.motors))
	for i, m := range e.motors {
		cmds[i] = Command{ID: m.ID, Value: uint32(m.Profile.Sample(t).Position)}
	}
	return cmds
}

// Execute blocks until every sampled step of the slowest motor's move has
// been sent.
func (e *TrajectoryExecutor) Execute(updateRate float64) error {
	totalTime := e.longestDuration()
	if totalTime == 0 {
		e.controller.CommandChan <- e.sampleAll(0)
		return nil
	}

	dt := 1.0 / updateRate
	steps := int(math.Ceil(totalTime*updateRate)) + 1

	ticker := time.NewTicker(time.Duration(float64(time.Second) / updateRate))
	defer ticker.Stop()

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		if t > totalTime {
			t = totalTime
		}
		e.controller.CommandChan <- e.sampleAll(t)
		if i < steps-1 {
			<-ticker.C
		}
	}
	return nil
}

// ExecuteAsync runs Execute in the background, reporting the first failure
// (or nil on success) on the returned channel.
func (e *TrajectoryExecutor) ExecuteAsync(updateRate float64) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)

		totalTime := e.longestDuration()
		if totalTime == 0 {
			e.controller.CommandChan <- e.sampleAll(0)
			return
		}

		dt := 1.0 / updateRate
		steps := int(math.Ceil(totalTime*updateRate)) + 1

		ticker := time.NewTicker(time.Duration(float64(time.Second) / updateRate))
		defer ticker.Stop()

		for i := 0; i < steps; i++ {
			t := float64(i) * dt
			if t > totalTime {
				t = totalTime
			}
			select {
			case e.controller.CommandChan <- e.sampleAll(t):
			default:
				errChan <- fmt.Errorf("command channel full")
				return
			}
			if i < steps-1 {
				<-ticker.C
			}
		}
	}()

	return errChan
}
