package animation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/gesture"
)

const frame = 1.0 / 60

func run(m *Machine, seconds float64) Pose {
	var p Pose
	for elapsed := 0.0; elapsed < seconds; elapsed += frame {
		p = m.Advance(frame)
	}
	return p
}

func TestMachine_StartsIdle(t *testing.T) {
	m := New(DefaultTuning())
	assert.Equal(t, MotionIdle, m.Motion())
	assert.Equal(t, gesture.LabelNone, m.Label())
	assert.Equal(t, Pose{}, m.Pose())
}

func TestMachine_AdvanceZeroIsIdempotent(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelThumbsUp)
	before := m.Advance(0.1)

	assert.Equal(t, before, m.Advance(0))
	assert.Equal(t, before, m.Advance(0))
	assert.Equal(t, MotionClap, m.Motion())
}

func TestMachine_InvalidDeltaIsIgnored(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelYay)
	before := m.Advance(0.05)

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, before, m.Advance(dt), "dt=%v", dt)
	}
	assert.Equal(t, MotionJump, m.Motion())
}

func TestMachine_JumpTerminatesAtZero(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)
	m.OnGestureChange(gesture.LabelYay)

	p := m.Advance(tuning.JumpDuration() / 2)
	assert.InDelta(t, tuning.JumpHeight, p.Vertical, 1e-9)

	p = m.Advance(tuning.JumpDuration())
	assert.Equal(t, 0.0, p.Vertical)
	assert.Equal(t, MotionIdle, m.Motion())
	assert.Equal(t, gesture.LabelYay, m.Label())

	// no re-trigger while the same gesture is held
	m.OnGestureChange(gesture.LabelYay)
	for i := 0; i < 120; i++ {
		p = m.Advance(frame)
		require.Equal(t, 0.0, p.Vertical)
	}
}

func TestMachine_JumpInterruptedByClap(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelYay)
	p := m.Advance(0.1)
	require.Greater(t, p.Vertical, 1.0)

	m.OnGestureChange(gesture.LabelThumbsUp)
	assert.Equal(t, MotionClap, m.Motion())

	prev := p.Vertical
	for i := 0; i < 60; i++ {
		p = m.Advance(frame)
		require.LessOrEqual(t, p.Vertical, prev)
		require.GreaterOrEqual(t, p.Vertical, 0.0)
		prev = p.Vertical
	}
	assert.Less(t, p.Vertical, 1e-3)
	assert.NotEqual(t, 0.0, p.LeftArm.Roll)
}

func TestMachine_SpinKeepsHeading(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)
	m.OnGestureChange(gesture.LabelPeace)

	p := m.Advance(0.1)
	assert.InDelta(t, 2.0, p.Yaw, 1e-9)

	p = run(m, tuning.SpinDuration)
	assert.Equal(t, MotionIdle, m.Motion())
	assert.NotEqual(t, 0.0, p.Yaw)
	assert.LessOrEqual(t, math.Abs(p.Yaw), math.Pi)

	heading := p.Yaw
	m.OnGestureChange(gesture.LabelNone)
	p = run(m, 1)
	assert.Equal(t, heading, p.Yaw)
}

func TestMachine_DepthClampsAndReturns(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)

	m.OnGestureChange(gesture.LabelRock)
	p := m.Advance(0.1)
	assert.InDelta(t, 0.5, p.Depth, 1e-9)
	p = run(m, 2)
	assert.Equal(t, tuning.DepthLimit, p.Depth)

	m.OnGestureChange(gesture.LabelFist)
	p = run(m, 2)
	assert.Equal(t, -tuning.DepthLimit, p.Depth)

	m.OnGestureChange(gesture.LabelNone)
	prev := math.Abs(p.Depth)
	for i := 0; i < 30; i++ {
		p = m.Advance(frame)
		require.LessOrEqual(t, math.Abs(p.Depth), prev)
		prev = math.Abs(p.Depth)
	}
	p = run(m, 2)
	assert.Equal(t, 0.0, p.Depth)
}

func TestMachine_RaiseArms(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)
	m.OnGestureChange(gesture.LabelLove)

	p := run(m, 1)
	assert.InDelta(t, tuning.RaisePitch, p.LeftArm.Pitch, 1e-3)
	assert.InDelta(t, tuning.RaisePitch, p.RightArm.Pitch, 1e-3)
	assert.InDelta(t, tuning.RaiseRoll, p.LeftArm.Roll, 1e-3)
	assert.InDelta(t, -tuning.RaiseRoll, p.RightArm.Roll, 1e-3)

	m.OnGestureChange(gesture.LabelNone)
	p = run(m, 2)
	assert.InDelta(t, 0, p.LeftArm.Pitch, 1e-3)
	assert.InDelta(t, 0, p.RightArm.Roll, 1e-3)
}

func TestMachine_WaveMovesRightArmOnly(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)
	m.OnGestureChange(gesture.LabelWave)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 120; i++ {
		p := m.Advance(frame)
		require.Equal(t, tuning.WavePitch, p.RightArm.Pitch)
		require.Equal(t, Limb{}, p.LeftArm)
		lo = math.Min(lo, p.RightArm.Roll)
		hi = math.Max(hi, p.RightArm.Roll)
	}
	assert.InDelta(t, tuning.WaveBias-tuning.WaveAmplitude, lo, 0.05)
	assert.InDelta(t, tuning.WaveBias+tuning.WaveAmplitude, hi, 0.05)
}

func TestMachine_ClapIsMirrored(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelThumbsUp)

	for i := 0; i < 30; i++ {
		p := m.Advance(frame)
		require.InDelta(t, -p.LeftArm.Roll, p.RightArm.Roll, 1e-12)
		require.Equal(t, p.LeftArm.Pitch, p.RightArm.Pitch)
	}
}

func TestMachine_IdleFloats(t *testing.T) {
	tuning := DefaultTuning()
	m := New(tuning)

	var peak float64
	for i := 0; i < 600; i++ {
		p := m.Advance(frame)
		require.LessOrEqual(t, math.Abs(p.Vertical), tuning.IdleAmplitude+1e-9)
		peak = math.Max(peak, p.Vertical)
	}
	assert.Greater(t, peak, tuning.IdleAmplitude/2)
}

func TestMachine_UnknownLabelIsNone(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelPeace)
	m.OnGestureChange(gesture.Label(""))
	assert.Equal(t, gesture.LabelNone, m.Label())
	assert.Equal(t, MotionIdle, m.Motion())
}

func TestMachine_Reset(t *testing.T) {
	m := New(DefaultTuning())
	m.OnGestureChange(gesture.LabelRock)
	run(m, 0.5)

	m.Reset()
	assert.Equal(t, Pose{}, m.Pose())
	assert.Equal(t, MotionIdle, m.Motion())
	assert.Equal(t, gesture.LabelNone, m.Label())
}

func TestMotionFor(t *testing.T) {
	tests := map[gesture.Label]Motion{
		gesture.LabelYay:       MotionJump,
		gesture.LabelPeace:     MotionSpin,
		gesture.LabelLove:      MotionRaiseArms,
		gesture.LabelWave:      MotionWave,
		gesture.LabelRock:      MotionMoveBack,
		gesture.LabelFist:      MotionMoveForward,
		gesture.LabelThumbsUp:  MotionClap,
		gesture.LabelNone:      MotionIdle,
		gesture.Label("bogus"): MotionIdle,
	}
	for l, want := range tests {
		assert.Equal(t, want, MotionFor(l), l)
	}
	assert.Equal(t, "raise-arms", MotionRaiseArms.String())
	assert.Equal(t, "unknown", Motion(99).String())
}
