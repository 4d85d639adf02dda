package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates a shell plugin in a temp dir and returns it.
func writeScript(t *testing.T, name, body string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell plugins need a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return &Plugin{
		Manifest:   Manifest{Name: name, Executable: name + ".sh", Actions: []string{ActionSpeak}},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := writeScript(t, "ok", `echo '{"success":true,"data":{"message":"hello"}}'`+"\n")

	resp, err := NewExecutor(time.Second).Execute(context.Background(), p, &Request{Action: ActionSpeak})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NoError(t, resp.Err())
	assert.JSONEq(t, `{"message":"hello"}`, string(resp.Data))
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	p := writeScript(t, "echo", "INPUT=$(cat)\necho \"{\\\"success\\\":true,\\\"data\\\":$INPUT}\"\n")

	params, err := json.Marshal(SpeakParams{Text: "peace bro"})
	require.NoError(t, err)

	req := &Request{Action: ActionSpeak, Gesture: "peace", Params: params}
	resp, err := NewExecutor(time.Second).Execute(context.Background(), p, req)
	require.NoError(t, err)

	var got Request
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "peace", got.Gesture)
	assert.JSONEq(t, `{"text":"peace bro"}`, string(got.Params))
}

func TestExecutor_Execute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"non-zero exit", "echo boom >&2\nexit 3\n", "boom"},
		{"bad json", "echo not-json\n", "parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeScript(t, "bad", tt.body)
			_, err := NewExecutor(time.Second).Execute(context.Background(), p, &Request{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExecutor_Execute_PluginReportsError(t *testing.T) {
	p := writeScript(t, "sad", `echo '{"success":false,"error":"no voice"}'`+"\n")

	resp, err := NewExecutor(time.Second).Execute(context.Background(), p, &Request{})
	require.NoError(t, err)
	assert.EqualError(t, resp.Err(), "no voice")
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	p := writeScript(t, "slow", "exec sleep 5\n")

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), p, &Request{})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	p := writeScript(t, "slow", "exec sleep 5\n")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := NewExecutor(10*time.Second).Execute(ctx, p, &Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewExecutor_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewExecutor(0).timeout)
}
