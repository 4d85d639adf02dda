// Package plugin discovers and runs external action plugins. A plugin is a
// directory holding a plugin.json manifest and an executable that reads one
// JSON Request on stdin and writes one JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"errors"
)

// Actions understood by the bundled plugins.
const (
	ActionSpeak = "speak"
)

// Manifest describes a plugin and the actions it can perform.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	// Platforms limits discovery to the listed GOOS values. Empty means all.
	Platforms    []string        `json:"platforms,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// SpeakParams are the Params of a speak request.
type SpeakParams struct {
	Text string `json:"text"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Err turns an unsuccessful response into an error.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == "" {
		return errors.New("plugin reported failure")
	}
	return errors.New(r.Error)
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
