package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/cyberpuppet/internal/detector"
)

func TestClassify_Fixtures(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Label
	}{
		{"fist", detector.FistLandmarks(), LabelFist},
		{"thumbs up", detector.ThumbsUpLandmarks(), LabelThumbsUp},
		{"index only", detector.YayLandmarks(), LabelYay},
		{"peace", detector.PeaceLandmarks(), LabelPeace},
		{"three fingers", detector.LoveLandmarks(), LabelLove},
		{"horns", detector.RockLandmarks(), LabelRock},
		{"open palm", detector.OpenPalmLandmarks(), LabelWave},
		{"half bent index", detector.HalfBentLandmarks(), LabelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := tt.hand
			assert.Equal(t, tt.want, Classify(&hand))

			// a left hand seen in the same place is the mirror image
			assert.Equal(t, tt.want, Classify(hand.Mirror()), "mirrored")

			assert.Equal(t, tt.want, ClassifyPoints(hand.Points[:]), "from points")
		})
	}
}

func TestClassify_MalformedInput(t *testing.T) {
	assert.Equal(t, LabelNone, Classify(nil))
	assert.Equal(t, LabelNone, ClassifyPoints(nil))

	fist := detector.FistLandmarks()
	assert.Equal(t, LabelNone, ClassifyPoints(fist.Points[:detector.NumLandmarks-1]))
}

func TestClassify_NoMemory(t *testing.T) {
	peace := detector.PeaceLandmarks()
	fist := detector.FistLandmarks()

	assert.Equal(t, LabelPeace, Classify(&peace))
	assert.Equal(t, LabelFist, Classify(&fist))
	assert.Equal(t, LabelPeace, Classify(&peace))
}

func TestClassify_ThumbFoldedDown(t *testing.T) {
	// splayed out but pointing down: not an extended thumb
	hand := detector.OpenPalmLandmarks()
	hand.Points[detector.ThumbTip].Y = hand.Points[detector.ThumbIP].Y + 0.10

	assert.Equal(t, LabelNone, Classify(&hand))
}

func TestClassify_AmbiguousFingerNeverDefaults(t *testing.T) {
	// middle finger hovering at its PIP joint: peace must not fall back to yay
	hand := detector.PeaceLandmarks()
	hand.Points[detector.MiddleTip].Y = hand.Points[detector.MiddlePIP].Y

	assert.Equal(t, LabelNone, Classify(&hand))
}

func TestClassifier_Margins(t *testing.T) {
	fist := detector.FistLandmarks()

	strict := NewClassifier(ClassifierConfig{CurlMargin: 0.5})
	assert.Equal(t, LabelNone, strict.Classify(&fist))

	defaults := NewClassifier(ClassifierConfig{})
	assert.Equal(t, DefaultClassifierConfig(), defaults.config)
	assert.Equal(t, LabelFist, defaults.Classify(&fist))
}
