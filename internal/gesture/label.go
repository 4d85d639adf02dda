// Package gesture turns hand landmarks into debounced gesture labels.
//
// Classify is a pure per-frame rule table. Filter debounces the per-frame
// labels into a confirmed label, and Tracker chains the two for one
// detection tick.
package gesture

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label is a discrete gesture.
type Label string

const (
	LabelNone     Label = "none"
	LabelLove     Label = "love"
	LabelYay      Label = "yay"
	LabelPeace    Label = "peace"
	LabelThumbsUp Label = "thumbsup"
	LabelFist     Label = "fist"
	LabelWave     Label = "wave"
	LabelRock     Label = "rock"
)

// Labels lists every recognized gesture in rule-table order. LabelNone is
// not included.
var Labels = []Label{
	LabelFist,
	LabelThumbsUp,
	LabelYay,
	LabelPeace,
	LabelLove,
	LabelRock,
	LabelWave,
}

type labelInfo struct {
	emoji  string
	phrase string
}

var labelTable = map[Label]labelInfo{
	LabelYay:      {"🎉", "yay"},
	LabelPeace:    {"✌️", "peace bro"},
	LabelLove:     {"❤️", "i love you"},
	LabelWave:     {"👋", "hi buddy"},
	LabelRock:     {"🤘", "yo yo"},
	LabelThumbsUp: {"👍", "good job"},
	LabelFist:     {"✊", "come on fight"},
}

// ParseLabel converts s to a Label. Unknown values and "" map to LabelNone.
func ParseLabel(s string) Label {
	l := Label(s)
	if _, ok := labelTable[l]; ok {
		return l
	}
	return LabelNone
}

// String implements fmt.Stringer.
func (l Label) String() string {
	if l == "" {
		return string(LabelNone)
	}
	return string(l)
}

// IsNone reports whether l carries no gesture.
func (l Label) IsNone() bool {
	_, ok := labelTable[l]
	return !ok
}

// Phrase is the spoken acknowledgement for l, empty for none.
func (l Label) Phrase() string {
	return labelTable[l].phrase
}

// Emoji is the icon shown next to l, empty for none.
func (l Label) Emoji() string {
	return labelTable[l].emoji
}

// DisplayName is the status line text for l, e.g. "✌️ Peace Bro".
func (l Label) DisplayName() string {
	info, ok := labelTable[l]
	if !ok {
		return "No gesture detected"
	}
	return info.emoji + " " + cases.Title(language.English).String(info.phrase)
}
