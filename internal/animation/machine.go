package animation

import (
	"math"

	"github.com/ayusman/cyberpuppet/internal/gesture"
)

// Machine is the puppet's animation state: the active motion, its phase,
// and the pose it produces.
//
// OnGestureChange and Advance must be called from one goroutine.
type Machine struct {
	tuning Tuning

	label  gesture.Label
	motion Motion
	phase  float64 // per-motion accumulator; reset on every gesture change
	clock  float64 // seconds advanced since creation, drives the idle float

	pose Pose
}

// New creates a Machine at rest in the idle motion. Zero tuning fields use
// DefaultTuning values.
func New(tuning Tuning) *Machine {
	return &Machine{
		tuning: tuning.withDefaults(),
		label:  gesture.LabelNone,
		motion: MotionIdle,
	}
}

// OnGestureChange switches to the motion for the newly confirmed label.
// Every running motion stops first; channels the new motion does not drive
// ease back to neutral on later Advance calls. Repeating the current label
// is a no-op, so a finished jump is not restarted.
func (m *Machine) OnGestureChange(l gesture.Label) {
	if l.IsNone() {
		l = gesture.LabelNone
	}
	if l == m.label {
		return
	}

	m.label = l
	m.motion = MotionFor(l)
	m.phase = 0
}

// Advance moves time forward by dt seconds and returns the new pose.
// Zero, negative, NaN or infinite dt count as no time passing.
func (m *Machine) Advance(dt float64) Pose {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return m.pose
	}

	m.clock += dt

	m.advanceVertical(dt)
	m.advanceYaw(dt)
	m.advanceArms(dt)
	m.advanceDepth(dt)

	return m.pose
}

// Pose returns the most recent pose.
func (m *Machine) Pose() Pose {
	return m.pose
}

// Motion returns the active motion.
func (m *Machine) Motion() Motion {
	return m.motion
}

// Label returns the last confirmed label the machine was given.
func (m *Machine) Label() gesture.Label {
	return m.label
}

// Reset returns to the freshly created state.
func (m *Machine) Reset() {
	*m = Machine{
		tuning: m.tuning,
		label:  gesture.LabelNone,
		motion: MotionIdle,
	}
}

// finish ends a self-terminating motion. The label stays, so the machine
// idles without the idle float until the gesture changes.
func (m *Machine) finish() {
	m.motion = MotionIdle
	m.phase = 0
}

func (m *Machine) advanceVertical(dt float64) {
	t := &m.tuning

	if m.motion == MotionJump {
		m.phase += dt * t.JumpRate
		if m.phase < math.Pi {
			m.pose.Vertical = math.Sin(m.phase) * t.JumpHeight
			return
		}
		m.pose.Vertical = 0
		m.finish()
		return
	}

	target := 0.0
	if m.label == gesture.LabelNone {
		target = math.Sin(m.clock*t.IdleRate) * t.IdleAmplitude
	}
	m.pose.Vertical = approach(m.pose.Vertical, target, t.VerticalReturnRate, dt)
}

func (m *Machine) advanceYaw(dt float64) {
	if m.motion != MotionSpin {
		return
	}

	m.phase += dt
	if m.phase < m.tuning.SpinDuration {
		m.pose.Yaw = math.Remainder(m.pose.Yaw+dt*m.tuning.SpinRate, 2*math.Pi)
		return
	}
	m.finish()
}

func (m *Machine) advanceArms(dt float64) {
	t := &m.tuning

	switch m.motion {
	case MotionClap:
		m.phase += dt * t.ClapRate
		swing := math.Sin(m.phase) * t.ClapAmplitude
		m.pose.LeftArm = Limb{Pitch: t.ClapPitch, Roll: swing + t.ClapBias}
		m.pose.RightArm = Limb{Pitch: t.ClapPitch, Roll: -swing - t.ClapBias}

	case MotionWave:
		m.phase += dt * t.WaveRate
		m.pose.RightArm = Limb{
			Pitch: t.WavePitch,
			Roll:  math.Sin(m.phase)*t.WaveAmplitude + t.WaveBias,
		}
		m.pose.LeftArm = approachLimb(m.pose.LeftArm, Limb{}, t.ArmReturnRate, dt)

	case MotionRaiseArms:
		m.pose.LeftArm = approachLimb(m.pose.LeftArm, Limb{Pitch: t.RaisePitch, Roll: t.RaiseRoll}, t.RaiseRate, dt)
		m.pose.RightArm = approachLimb(m.pose.RightArm, Limb{Pitch: t.RaisePitch, Roll: -t.RaiseRoll}, t.RaiseRate, dt)

	default:
		m.pose.LeftArm = approachLimb(m.pose.LeftArm, Limb{}, t.ArmReturnRate, dt)
		m.pose.RightArm = approachLimb(m.pose.RightArm, Limb{}, t.ArmReturnRate, dt)
	}
}

func (m *Machine) advanceDepth(dt float64) {
	t := &m.tuning

	switch m.motion {
	case MotionMoveBack:
		m.pose.Depth = math.Min(m.pose.Depth+dt*t.DepthSpeed, t.DepthLimit)
	case MotionMoveForward:
		m.pose.Depth = math.Max(m.pose.Depth-dt*t.DepthSpeed, -t.DepthLimit)
	default:
		if math.Abs(m.pose.Depth) > t.DepthSnap {
			m.pose.Depth = approach(m.pose.Depth, 0, t.DepthReturnRate, dt)
		} else {
			m.pose.Depth = 0
		}
	}
}

// approach eases v towards target with frame-rate independent exponential
// smoothing.
func approach(v, target, rate, dt float64) float64 {
	return v + (target-v)*(1-math.Exp(-rate*dt))
}

func approachLimb(l, target Limb, rate, dt float64) Limb {
	return Limb{
		Pitch: approach(l.Pitch, target.Pitch, rate, dt),
		Roll:  approach(l.Roll, target.Roll, rate, dt),
	}
}
