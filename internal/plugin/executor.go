package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single plugin run.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a plugin outlives its deadline.
var ErrTimeout = errors.New("plugin execution timed out")

// Executor runs plugins as child processes.
type Executor struct {
	timeout time.Duration
}

// NewExecutor returns an Executor with the given per-run timeout. A
// non-positive timeout uses DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Execute runs p with req on stdin and decodes its stdout. Cancelling ctx
// kills the process.
func (e *Executor) Execute(ctx context.Context, p *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%s: %w after %s", p.Manifest.Name, ErrTimeout, e.timeout)
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%s: %w", p.Manifest.Name, ctx.Err())
	case err != nil && stderr.Len() > 0:
		return nil, fmt.Errorf("%s: run: %w, stderr: %s", p.Manifest.Name, err, bytes.TrimSpace(stderr.Bytes()))
	case err != nil:
		return nil, fmt.Errorf("%s: run: %w", p.Manifest.Name, err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w, stdout: %s", p.Manifest.Name, err, stdout.String())
	}
	return &resp, nil
}
