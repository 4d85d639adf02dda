package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/config"
	"github.com/ayusman/cyberpuppet/internal/gesture"
	"github.com/ayusman/cyberpuppet/internal/store"
	"github.com/ayusman/cyberpuppet/testdata"
)

func testGlobals(t *testing.T) *globals {
	t.Helper()
	cfg, err := config.Parse(map[string]string{
		config.Prefix + "DATA_DIR": t.TempDir(),
	})
	require.NoError(t, err)
	return &globals{cfg: cfg, log: zerolog.Nop()}
}

func TestPrintGestures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printGestures(&buf, "table"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(gesture.Labels)+1)
	assert.Contains(t, lines[0], "GESTURE")
	assert.Contains(t, lines[1], "fist")
	assert.Contains(t, lines[1], "move-forward")

	buf.Reset()
	require.NoError(t, printGestures(&buf, "json"))
	var rows []gestureRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Len(t, rows, len(gesture.Labels))

	buf.Reset()
	require.NoError(t, printGestures(&buf, "yaml"))
	rows = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, len(gesture.Labels))
	assert.Equal(t, "jump", rows[2].Motion)

	assert.Error(t, printGestures(&buf, "xml"))
}

func TestGesturesCommand(t *testing.T) {
	t.Setenv(config.Prefix+"DATA_DIR", t.TempDir())

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"gestures", "-o", "json"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"phrase": "peace bro"`)
}

func TestRootCommand_BadConfig(t *testing.T) {
	t.Setenv(config.Prefix+"DATA_DIR", t.TempDir())
	t.Setenv(config.Prefix+"IDLE_FPS", "0")

	root := newRootCommand()
	root.SetArgs([]string{"gestures"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestRunReplay(t *testing.T) {
	g := testGlobals(t)
	session, err := testdata.Session("medley")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), g, &replayOptions{}, session, &out))

	text := out.String()
	assert.Contains(t, text, "none     -> yay")
	assert.Contains(t, text, "love     -> none")
	assert.Contains(t, text, "6 transitions")
}

func TestRunReplay_JSONAndRecord(t *testing.T) {
	g := testGlobals(t)
	session, err := testdata.Session("peace")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), g, &replayOptions{json: true, record: true}, session, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 17)
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[5]), &snap))
	assert.Equal(t, "peace", snap["confirmed"])

	st, err := store.New(filepath.Join(g.cfg.DataDir, "cyberpuppet.db"))
	require.NoError(t, err)
	defer st.Close()

	stats, err := st.Events().Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sessions)
	assert.Equal(t, 2, stats.Transitions)
}

func TestAppConfig(t *testing.T) {
	g := testGlobals(t)
	g.cfg.Mirror = false
	g.cfg.TuningFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := appConfig(g.cfg)
	assert.Error(t, err)

	g.cfg.TuningFile = ""
	ac, err := appConfig(g.cfg)
	require.NoError(t, err)
	assert.True(t, ac.MirrorCursor)
	assert.Equal(t, 3, ac.Filter.Threshold)
}

func TestWebDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, webDir(dir))
	assert.Empty(t, webDir(filepath.Join(dir, "nope")))
	assert.Empty(t, webDir(""))
}
