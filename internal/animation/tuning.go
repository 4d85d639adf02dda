package animation

import (
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/goccy/go-yaml"
)

// Tuning holds every timing and amplitude of the puppet's motions. Rates
// are in radians of phase per second unless noted; smoothing rates are the
// k in 1-exp(-k*dt).
type Tuning struct {
	JumpRate   float64 `yaml:"jump_rate"`
	JumpHeight float64 `yaml:"jump_height"`

	SpinDuration float64 `yaml:"spin_duration"` // seconds
	SpinRate     float64 `yaml:"spin_rate"`     // yaw radians per second

	IdleRate      float64 `yaml:"idle_rate"`
	IdleAmplitude float64 `yaml:"idle_amplitude"`

	ClapRate      float64 `yaml:"clap_rate"`
	ClapAmplitude float64 `yaml:"clap_amplitude"`
	ClapBias      float64 `yaml:"clap_bias"`
	ClapPitch     float64 `yaml:"clap_pitch"`

	WaveRate      float64 `yaml:"wave_rate"`
	WaveAmplitude float64 `yaml:"wave_amplitude"`
	WaveBias      float64 `yaml:"wave_bias"`
	WavePitch     float64 `yaml:"wave_pitch"`

	RaisePitch float64 `yaml:"raise_pitch"`
	RaiseRoll  float64 `yaml:"raise_roll"`
	RaiseRate  float64 `yaml:"raise_rate"`

	ArmReturnRate      float64 `yaml:"arm_return_rate"`
	VerticalReturnRate float64 `yaml:"vertical_return_rate"`

	DepthSpeed      float64 `yaml:"depth_speed"` // units per second
	DepthLimit      float64 `yaml:"depth_limit"`
	DepthReturnRate float64 `yaml:"depth_return_rate"`
	DepthSnap       float64 `yaml:"depth_snap"`
}

// DefaultTuning returns the stock puppet motions.
func DefaultTuning() Tuning {
	return Tuning{
		JumpRate:   8,
		JumpHeight: 2,

		SpinDuration: 0.6,
		SpinRate:     20,

		IdleRate:      0.5,
		IdleAmplitude: 0.1,

		ClapRate:      15,
		ClapAmplitude: 0.6,
		ClapBias:      0.4,
		ClapPitch:     -0.3,

		WaveRate:      12,
		WaveAmplitude: 0.7,
		WaveBias:      -0.6,
		WavePitch:     -0.5,

		RaisePitch: -math.Pi / 2,
		RaiseRoll:  0.2,
		RaiseRate:  15,

		ArmReturnRate:      12,
		VerticalReturnRate: 12,

		DepthSpeed:      5,
		DepthLimit:      2.5,
		DepthReturnRate: 6,
		DepthSnap:       0.05,
	}
}

// JumpDuration is how long a jump lasts, in seconds.
func (t Tuning) JumpDuration() float64 {
	return math.Pi / t.JumpRate
}

// withDefaults fills zero fields from DefaultTuning.
func (t Tuning) withDefaults() Tuning {
	def := reflect.ValueOf(DefaultTuning())
	v := reflect.ValueOf(&t).Elem()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Float() == 0 {
			v.Field(i).Set(def.Field(i))
		}
	}
	return t
}

// LoadTuning reads a YAML tuning profile. Keys left out keep their default.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes a YAML tuning profile.
func ParseTuning(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	return t.withDefaults(), nil
}
