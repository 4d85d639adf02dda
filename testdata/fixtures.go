// Package testdata holds recorded landmark sessions for tests.
//
// Sessions are JSON lines in the replay format, one detection tick every
// 66ms:
//
//	peace.jsonl   no hand, ten peace ticks, no hand
//	wave.jsonl    open palm held for twelve ticks
//	medley.jsonl  yay, fist, rock, thumbs up and love, with single-tick
//	              glitches between them
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sessions/*.jsonl
var sessionsFS embed.FS

// Session returns a recorded session by name, with or without the .jsonl
// extension.
func Session(name string) (io.Reader, error) {
	if !strings.HasSuffix(name, ".jsonl") {
		name += ".jsonl"
	}
	data, err := sessionsFS.ReadFile("sessions/" + name)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", name, err)
	}
	return bytes.NewReader(data), nil
}

// Sessions lists the recorded session names without extension.
func Sessions() []string {
	entries, err := fs.ReadDir(sessionsFS, "sessions")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	sort.Strings(names)
	return names
}
