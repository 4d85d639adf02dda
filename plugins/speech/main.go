// Command speech is the bundled speech plugin. It speaks the text of a
// "speak" request with the platform's text-to-speech tool: say on macOS,
// espeak or spd-say on Linux, PowerShell's speech synthesizer on Windows.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request mirrors the executor's request.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response mirrors the executor's response.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SpeakParams carries the utterance.
type SpeakParams struct {
	Text string `json:"text"`
	// Rate is words per minute; 0 keeps the tool's default.
	Rate int `json:"rate,omitempty"`
}

var errNoSpeaker = errors.New("no text-to-speech tool found")

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func main() {
	resp := handle(os.Stdin, runtime.GOOS, run)
	_ = json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(in io.Reader, goos string, speak func([]string) error) Response {
	var req Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return failure("failed to decode request: %v", err)
	}
	if req.Action != "speak" {
		return failure("unknown action: %s", req.Action)
	}

	var p SpeakParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return failure("failed to parse params: %v", err)
		}
	}
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return failure("text is required")
	}

	argv, err := command(goos, p)
	if err != nil {
		return failure("%v", err)
	}
	if err := speak(argv); err != nil {
		return failure("speak failed: %v", err)
	}
	return Response{Success: true}
}

// command builds the argv for the first available tool on goos.
func command(goos string, p SpeakParams) ([]string, error) {
	switch goos {
	case "darwin":
		argv := []string{"say"}
		if p.Rate > 0 {
			argv = append(argv, "-r", fmt.Sprint(p.Rate))
		}
		return append(argv, p.Text), nil

	case "windows":
		text := strings.ReplaceAll(p.Text, "'", "''")
		script := "Add-Type -AssemblyName System.Speech; " +
			"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak('" + text + "')"
		return []string{"powershell", "-NoProfile", "-Command", script}, nil
	}

	if _, err := lookPath("espeak"); err == nil {
		argv := []string{"espeak"}
		if p.Rate > 0 {
			argv = append(argv, "-s", fmt.Sprint(p.Rate))
		}
		return append(argv, p.Text), nil
	}
	if _, err := lookPath("spd-say"); err == nil {
		return []string{"spd-say", "--wait", p.Text}, nil
	}
	return nil, errNoSpeaker
}

func run(argv []string) error {
	out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func failure(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}
