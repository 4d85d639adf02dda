// Package animation drives the puppet's pose from confirmed gestures.
//
// A Machine is told about gesture changes (edges) and is advanced by
// wall-clock time every render tick. The two never happen from different
// goroutines; the owner serializes them.
package animation

import "github.com/ayusman/cyberpuppet/internal/gesture"

// Limb is an arm rotation in radians: Pitch about x, Roll about z.
type Limb struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Pose is what the renderer applies to the avatar each frame. The zero
// value is the neutral pose.
type Pose struct {
	Vertical float64 `json:"vertical"`
	Depth    float64 `json:"depth"` // positive is away from the viewer
	Yaw      float64 `json:"yaw"`
	LeftArm  Limb    `json:"left_arm"`
	RightArm Limb    `json:"right_arm"`
}

// Motion is one mutually exclusive animation behaviour.
type Motion int

const (
	MotionIdle Motion = iota
	MotionJump
	MotionSpin
	MotionRaiseArms
	MotionWave
	MotionMoveBack
	MotionMoveForward
	MotionClap
)

var motionNames = [...]string{
	MotionIdle:        "idle",
	MotionJump:        "jump",
	MotionSpin:        "spin",
	MotionRaiseArms:   "raise-arms",
	MotionWave:        "wave",
	MotionMoveBack:    "move-back",
	MotionMoveForward: "move-forward",
	MotionClap:        "clap",
}

// String implements fmt.Stringer.
func (m Motion) String() string {
	if m < 0 || int(m) >= len(motionNames) {
		return "unknown"
	}
	return motionNames[m]
}

// MarshalText lets motions appear by name in JSON.
func (m Motion) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MotionFor returns the motion a confirmed gesture triggers.
func MotionFor(l gesture.Label) Motion {
	switch l {
	case gesture.LabelYay:
		return MotionJump
	case gesture.LabelPeace:
		return MotionSpin
	case gesture.LabelLove:
		return MotionRaiseArms
	case gesture.LabelWave:
		return MotionWave
	case gesture.LabelRock:
		return MotionMoveBack
	case gesture.LabelFist:
		return MotionMoveForward
	case gesture.LabelThumbsUp:
		return MotionClap
	}
	return MotionIdle
}
