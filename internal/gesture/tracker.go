package gesture

import "github.com/ayusman/cyberpuppet/internal/detector"

// Update is the outcome of one detection tick. It is produced on every
// tick, changed or not.
type Update struct {
	// Hand is the pose seen this tick, nil when no hand was visible. It is
	// passed through untouched for overlays.
	Hand *detector.HandLandmarks
	// Raw is the classifier's single-frame label.
	Raw Label
	// Confirmed is the debounced label after this tick.
	Confirmed Label
	// Previous is the confirmed label before this tick.
	Previous Label
	// Changed reports a confirmed-label edge.
	Changed bool
}

// Tracker runs the classifier and the filter for one hand stream.
type Tracker struct {
	classifier Classifier
	filter     *Filter
}

// NewTracker creates a Tracker.
func NewTracker(classifier Classifier, filter FilterConfig) *Tracker {
	return &Tracker{
		classifier: classifier,
		filter:     NewFilter(filter),
	}
}

// Step feeds one detection tick. A nil hand means the hand left the frame:
// the filter is reset and the confirmed label drops to LabelNone at once.
func (t *Tracker) Step(hand *detector.HandLandmarks) Update {
	if hand == nil {
		return t.Reset()
	}

	prev := t.filter.Confirmed()
	raw := t.classifier.Classify(hand)
	confirmed := t.filter.Observe(raw)

	return Update{
		Hand:      hand,
		Raw:       raw,
		Confirmed: confirmed,
		Previous:  prev,
		Changed:   confirmed != prev,
	}
}

// Reset clears the filter, e.g. when tracking is switched off.
func (t *Tracker) Reset() Update {
	prev := t.filter.Confirmed()
	t.filter.Reset()

	return Update{
		Raw:       LabelNone,
		Confirmed: LabelNone,
		Previous:  prev,
		Changed:   prev != LabelNone,
	}
}

// Confirmed returns the current confirmed label.
func (t *Tracker) Confirmed() Label {
	return t.filter.Confirmed()
}
