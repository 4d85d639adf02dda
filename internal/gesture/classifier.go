package gesture

import (
	"math"

	"github.com/ayusman/cyberpuppet/internal/detector"
)

// ClassifierConfig holds the geometric margins, in normalized image units.
type ClassifierConfig struct {
	// ExtendMargin is how far a fingertip must sit above its PIP joint to
	// count as extended.
	ExtendMargin float64
	// DistalMargin is how far a fingertip must sit above its DIP joint to
	// count as extended.
	DistalMargin float64
	// CurlMargin is how far a fingertip must sit below its PIP joint to
	// count as curled.
	CurlMargin float64
	// ThumbFoldMargin is how far the thumb tip may drop below the thumb IP
	// joint and still count as extended.
	ThumbFoldMargin float64
}

// DefaultClassifierConfig returns the default margins.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ExtendMargin:    0.02,
		DistalMargin:    0.01,
		CurlMargin:      0.02,
		ThumbFoldMargin: 0.05,
	}
}

// Classifier maps a single hand pose to a gesture. It keeps no history, so
// one value can be shared freely.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a Classifier. Zero margins fall back to defaults.
func NewClassifier(config ClassifierConfig) Classifier {
	def := DefaultClassifierConfig()
	if config.ExtendMargin <= 0 {
		config.ExtendMargin = def.ExtendMargin
	}
	if config.DistalMargin <= 0 {
		config.DistalMargin = def.DistalMargin
	}
	if config.CurlMargin <= 0 {
		config.CurlMargin = def.CurlMargin
	}
	if config.ThumbFoldMargin <= 0 {
		config.ThumbFoldMargin = def.ThumbFoldMargin
	}
	return Classifier{config: config}
}

var defaultClassifier = NewClassifier(DefaultClassifierConfig())

// Classify labels hand with the default margins.
func Classify(hand *detector.HandLandmarks) Label {
	return defaultClassifier.Classify(hand)
}

// ClassifyPoints labels a raw point list with the default margins. Lists
// shorter than 21 points are LabelNone.
func ClassifyPoints(points []detector.Point3D) Label {
	return defaultClassifier.ClassifyPoints(points)
}

// ClassifyPoints labels a raw point list. Lists shorter than 21 points are
// LabelNone.
func (c Classifier) ClassifyPoints(points []detector.Point3D) Label {
	hand, err := detector.FromPoints(points)
	if err != nil {
		return LabelNone
	}
	return c.Classify(hand)
}

// digits is the per-finger reading of one hand.
type digits struct {
	thumb    bool
	extended [4]bool // index, middle, ring, pinky
	curled   [4]bool
}

// fingers: PIP, DIP and tip indices for index, middle, ring, pinky.
var fingers = [4][3]int{
	{detector.IndexPIP, detector.IndexDIP, detector.IndexTip},
	{detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip},
	{detector.RingPIP, detector.RingDIP, detector.RingTip},
	{detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip},
}

func (c Classifier) read(hand *detector.HandLandmarks) digits {
	p := &hand.Points
	var d digits

	for i, f := range fingers {
		pip, dip, tip := p[f[0]], p[f[1]], p[f[2]]
		d.extended[i] = tip.Y < pip.Y-c.config.ExtendMargin && tip.Y < dip.Y-c.config.DistalMargin
		d.curled[i] = tip.Y > pip.Y+c.config.CurlMargin
	}

	wrist := p[detector.Wrist]
	splayed := math.Abs(p[detector.ThumbTip].X-wrist.X) > math.Abs(p[detector.ThumbMCP].X-wrist.X)
	folded := p[detector.ThumbTip].Y > p[detector.ThumbIP].Y+c.config.ThumbFoldMargin
	d.thumb = splayed && !folded

	return d
}

// matches reports whether every finger is in the wanted state: true wants
// extended, false wants curled. A finger that is neither never matches.
func (d digits) matches(index, middle, ring, pinky bool) bool {
	for i, want := range [4]bool{index, middle, ring, pinky} {
		if want && !d.extended[i] {
			return false
		}
		if !want && !d.curled[i] {
			return false
		}
	}
	return true
}

// Classify labels hand. A nil hand is LabelNone.
func (c Classifier) Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return LabelNone
	}

	d := c.read(hand)

	switch {
	case !d.thumb && d.matches(false, false, false, false):
		return LabelFist
	case d.thumb && d.matches(false, false, false, false):
		return LabelThumbsUp
	case !d.thumb && d.matches(true, false, false, false):
		return LabelYay
	case !d.thumb && d.matches(true, true, false, false):
		return LabelPeace
	case !d.thumb && d.matches(true, true, true, false):
		return LabelLove
	case !d.thumb && d.matches(true, false, false, true):
		return LabelRock
	case d.thumb && d.matches(true, true, true, true):
		return LabelWave
	}
	return LabelNone
}
