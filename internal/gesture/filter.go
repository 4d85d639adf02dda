package gesture

// FilterConfig sets the debounce window.
type FilterConfig struct {
	// Capacity is how many raw labels are remembered.
	Capacity int
	// Threshold is how many consecutive identical labels confirm a gesture.
	Threshold int
}

// DefaultFilterConfig returns a 3-of-5 window.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{Capacity: 5, Threshold: 3}
}

// Filter debounces raw per-frame labels. A label is confirmed once the most
// recent Threshold observations agree on it.
//
// Filter is not safe for concurrent use; it belongs to the detection loop.
type Filter struct {
	capacity  int
	threshold int
	history   []Label // oldest first, len <= capacity
	confirmed Label
}

// NewFilter creates a Filter. Capacity below 1 becomes the default, and
// Threshold is clamped to [1, Capacity].
func NewFilter(config FilterConfig) *Filter {
	if config.Capacity < 1 {
		config.Capacity = DefaultFilterConfig().Capacity
	}
	if config.Threshold < 1 {
		config.Threshold = 1
	}
	if config.Threshold > config.Capacity {
		config.Threshold = config.Capacity
	}

	return &Filter{
		capacity:  config.Capacity,
		threshold: config.Threshold,
		history:   make([]Label, 0, config.Capacity),
		confirmed: LabelNone,
	}
}

// Observe records raw and returns the confirmed label afterwards.
func (f *Filter) Observe(raw Label) Label {
	if raw.IsNone() {
		raw = LabelNone
	}

	if len(f.history) == f.capacity {
		copy(f.history, f.history[1:])
		f.history = f.history[:f.capacity-1]
	}
	f.history = append(f.history, raw)

	if len(f.history) < f.threshold {
		return f.confirmed
	}

	recent := f.history[len(f.history)-f.threshold:]
	for _, l := range recent[1:] {
		if l != recent[0] {
			return f.confirmed
		}
	}

	if recent[0] != f.confirmed {
		f.confirmed = recent[0]
	}
	return f.confirmed
}

// Reset forgets the history and drops the confirmed label to LabelNone.
func (f *Filter) Reset() {
	f.history = f.history[:0]
	f.confirmed = LabelNone
}

// Confirmed returns the current confirmed label.
func (f *Filter) Confirmed() Label {
	return f.confirmed
}

// History returns a copy of the remembered raw labels, oldest first.
func (f *Filter) History() []Label {
	out := make([]Label, len(f.history))
	copy(out, f.history)
	return out
}

// Threshold returns the run length needed for confirmation.
func (f *Filter) Threshold() int {
	return f.threshold
}
