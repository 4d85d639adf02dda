package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/cyberpuppet/internal/app"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
	"github.com/ayusman/cyberpuppet/internal/server"
	"github.com/ayusman/cyberpuppet/internal/store"
	"github.com/ayusman/cyberpuppet/testdata"
)

type phrases struct {
	mu  sync.Mutex
	got []string
}

func (p *phrases) Speak(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, text)
	return nil
}

func (p *phrases) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.got...)
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, url)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestE2E_ReplayJournalAndAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer st.Close()

	journal, err := store.OpenJournal(st, "replay", zerolog.Nop())
	require.NoError(t, err)

	speaker := &phrases{}
	feed := feedback.NewDispatcher(feedback.Config{Sound: true}, speaker, zerolog.Nop())
	feed.Subscribe(journal)

	ctx, cancel := context.WithCancel(context.Background())
	feed.Start(ctx)

	session, err := testdata.Session("medley")
	require.NoError(t, err)

	puppet := app.New(app.DefaultConfig(), app.NewReplaySource(session), feed, zerolog.Nop())
	hub := server.NewHub(0, zerolog.Nop())
	puppet.Subscribe(hub.Publish)

	var edges []gesture.Label
	last := gesture.LabelNone
	puppet.Subscribe(func(s app.Snapshot) {
		if s.Confirmed != last {
			edges = append(edges, s.Confirmed)
			last = s.Confirmed
		}
	})

	require.NoError(t, puppet.Run(ctx))

	// the dispatcher is asynchronous; let it catch up before shutting down
	require.Eventually(t, func() bool {
		events, err := st.Events().Recent(journal.SessionID(), 100)
		return err == nil && len(events) == 6 && len(speaker.all()) == 5
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	feed.Wait()
	require.NoError(t, journal.Close())

	want := []gesture.Label{
		gesture.LabelYay,
		gesture.LabelFist,
		gesture.LabelRock,
		gesture.LabelThumbsUp,
		gesture.LabelLove,
		gesture.LabelNone,
	}
	assert.Equal(t, want, edges)

	assert.ElementsMatch(t, []string{"yay", "come on fight", "yo yo", "good job", "i love you"}, speaker.all())

	srv := server.New(server.Config{Store: st, Controller: puppet, Hub: hub, Log: zerolog.Nop()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	t.Run("events", func(t *testing.T) {
		var resp struct {
			Events []store.Event `json:"events"`
		}
		getJSON(t, ts.URL+"/api/events?session="+journal.SessionID(), &resp)
		require.Len(t, resp.Events, len(want))
		assert.Equal(t, gesture.LabelNone, resp.Events[0].Label)
		assert.Equal(t, gesture.LabelLove, resp.Events[0].Previous)
		assert.Equal(t, gesture.LabelYay, resp.Events[len(want)-1].Label)
	})

	t.Run("stats", func(t *testing.T) {
		var stats store.Stats
		getJSON(t, ts.URL+"/api/stats", &stats)
		assert.Equal(t, 1, stats.Sessions)
		assert.Equal(t, len(want), stats.Transitions)
		for _, c := range stats.Gestures {
			switch c.Label {
			case gesture.LabelPeace, gesture.LabelWave:
				assert.Zero(t, c.Count, c.Label)
			default:
				assert.Equal(t, 1, c.Count, c.Label)
			}
		}
	})

	t.Run("state", func(t *testing.T) {
		var snap map[string]any
		getJSON(t, ts.URL+"/api/state", &snap)
		assert.Equal(t, "none", snap["confirmed"])
		assert.Equal(t, true, snap["tracking"])
	})

	t.Run("settings", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/settings", strings.NewReader(`{"tracking":false}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.False(t, puppet.Tracking())
		assert.False(t, st.Settings().Bool(store.SettingTracking, true))
	})
}

func TestE2E_EverySessionEndsAtNone(t *testing.T) {
	for _, name := range testdata.Sessions() {
		t.Run(name, func(t *testing.T) {
			session, err := testdata.Session(name)
			require.NoError(t, err)

			puppet := app.New(app.DefaultConfig(), app.NewReplaySource(session), nil, zerolog.Nop())
			var last app.Snapshot
			seen := map[gesture.Label]bool{}
			puppet.Subscribe(func(s app.Snapshot) {
				seen[s.Confirmed] = true
				last = s
			})

			require.NoError(t, puppet.Run(context.Background()))
			assert.Equal(t, gesture.LabelNone, last.Confirmed)
			assert.Greater(t, len(seen), 1, "session never confirmed a gesture")

			if name == "wave" {
				assert.True(t, seen[gesture.LabelWave])
			}
			if name == "peace" {
				assert.True(t, seen[gesture.LabelPeace])
			}
		})
	}
}
