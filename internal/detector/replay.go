package detector

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// RecordedFrame is one line of a recorded session: the hands seen at a
// detection tick, with the tick time in milliseconds from session start.
type RecordedFrame struct {
	TimestampMs int64
	Hands       []HandLandmarks
}

// ReplayReader reads recorded sessions stored as JSON lines:
//
//	{"t_ms": 33, "hands": [{"points": [{"x":0.5,"y":0.8,"z":0}, ...]}]}
//
// A line with no hands is a "no hand" tick. Blank lines are skipped.
type ReplayReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReplayReader creates a ReplayReader over r.
func NewReplayReader(r io.Reader) *ReplayReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReplayReader{scanner: scanner}
}

// Next returns the next recorded frame, or io.EOF at the end of the session.
func (r *ReplayReader) Next() (RecordedFrame, error) {
	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var line struct {
			TimestampMs int64 `json:"t_ms"`
		}
		if err := json.Unmarshal(raw, &line); err != nil {
			return RecordedFrame{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		hands, err := DecodeHands(raw)
		if err != nil {
			return RecordedFrame{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		return RecordedFrame{TimestampMs: line.TimestampMs, Hands: hands}, nil
	}

	if err := r.scanner.Err(); err != nil {
		return RecordedFrame{}, err
	}
	return RecordedFrame{}, io.EOF
}

// ReadAll reads every remaining frame.
func (r *ReplayReader) ReadAll() ([]RecordedFrame, error) {
	var frames []RecordedFrame
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}

// EncodeFrame writes f as one session line. Useful for recording sessions
// and building fixtures.
func EncodeFrame(w io.Writer, f RecordedFrame) error {
	hands := f.Hands
	if hands == nil {
		hands = []HandLandmarks{}
	}
	return json.NewEncoder(w).Encode(struct {
		TimestampMs int64           `json:"t_ms"`
		Hands       []HandLandmarks `json:"hands"`
	}{f.TimestampMs, hands})
}
