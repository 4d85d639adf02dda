package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/detector"
)

func TestTracker_PeaceThenHandLost(t *testing.T) {
	tr := NewTracker(NewClassifier(DefaultClassifierConfig()), DefaultFilterConfig())
	peace := detector.PeaceLandmarks()

	hands := []*detector.HandLandmarks{&peace, &peace, &peace, &peace, nil}
	var confirmed []Label
	var edges []int
	for i, h := range hands {
		u := tr.Step(h)
		confirmed = append(confirmed, u.Confirmed)
		if u.Changed {
			edges = append(edges, i)
		}
	}

	assert.Equal(t, []Label{LabelNone, LabelNone, LabelPeace, LabelPeace, LabelNone}, confirmed)
	assert.Equal(t, []int{2, 4}, edges)
}

func TestTracker_UpdateFields(t *testing.T) {
	tr := NewTracker(NewClassifier(DefaultClassifierConfig()), DefaultFilterConfig())
	fist := detector.FistLandmarks()

	u := tr.Step(&fist)
	assert.Same(t, &fist, u.Hand)
	assert.Equal(t, LabelFist, u.Raw)
	assert.Equal(t, LabelNone, u.Confirmed)
	assert.Equal(t, LabelNone, u.Previous)
	assert.False(t, u.Changed)

	tr.Step(&fist)
	u = tr.Step(&fist)
	assert.True(t, u.Changed)
	assert.Equal(t, LabelNone, u.Previous)
	assert.Equal(t, LabelFist, u.Confirmed)
	assert.Equal(t, LabelFist, tr.Confirmed())
}

func TestTracker_ResetReportsEdgeOnlyWhenNeeded(t *testing.T) {
	tr := NewTracker(NewClassifier(DefaultClassifierConfig()), DefaultFilterConfig())

	u := tr.Reset()
	assert.False(t, u.Changed)

	rock := detector.RockLandmarks()
	for i := 0; i < 3; i++ {
		tr.Step(&rock)
	}
	require.Equal(t, LabelRock, tr.Confirmed())

	u = tr.Reset()
	assert.True(t, u.Changed)
	assert.Equal(t, LabelRock, u.Previous)
	assert.Equal(t, LabelNone, u.Confirmed)

	// the hand coming back must earn its label again
	assert.Equal(t, LabelNone, tr.Step(&rock).Confirmed)
}
