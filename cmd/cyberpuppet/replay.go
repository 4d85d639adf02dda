package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/cyberpuppet/internal/app"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
	"github.com/ayusman/cyberpuppet/internal/store"
)

type replayOptions struct {
	json   bool
	speak  bool
	record bool
}

func newReplayCommand(g *globals) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <session.jsonl>",
		Short: "Run a recorded session through the gesture pipeline",
		Long: `Replay feeds a recorded landmark session through the classifier, the
confirmation filter and the animation machine as fast as possible, using
the recorded tick times as the animation clock. Each confirmed gesture
change is printed.`,
		Example: `  cyberpuppet replay testdata/sessions/peace.jsonl
  cyberpuppet replay --json session.jsonl | jq .pose.vertical`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			return runReplay(cmd.Context(), g, opts, f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print every snapshot as a JSON line")
	cmd.Flags().BoolVar(&opts.speak, "speak", false, "speak phrases while replaying")
	cmd.Flags().BoolVar(&opts.record, "record", false, "journal the transitions in the database")
	return cmd
}

// replaySummary counts what a replay confirmed.
type replaySummary struct {
	ticks       int
	transitions int
	counts      map[gesture.Label]int
}

func runReplay(ctx context.Context, g *globals, opts *replayOptions, r io.Reader, out io.Writer) error {
	cfg := g.cfg
	log := g.log

	ac, err := appConfig(cfg)
	if err != nil {
		return err
	}

	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	var speaker feedback.Speaker
	if opts.speak {
		speaker = newSpeaker(cfg, log)
	}
	feed := feedback.NewDispatcher(feedback.Config{Sound: opts.speak}, speaker, log)

	if opts.record {
		st, err := store.New(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		journal, err := store.OpenJournal(st, "replay", log)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journal.Close()
		feed.Subscribe(journal)
	}
	feed.Start(feedCtx)

	puppet := app.New(ac, app.NewReplaySource(r), feed, log)
	defer puppet.Close()

	sum := replaySummary{counts: make(map[gesture.Label]int)}
	enc := json.NewEncoder(out)
	last := gesture.LabelNone
	var (
		origin time.Time
		werr   error
	)

	puppet.Subscribe(func(s app.Snapshot) {
		if sum.ticks == 0 {
			origin = s.At
		}
		sum.ticks++
		if opts.json {
			if err := enc.Encode(s); err != nil && werr == nil {
				werr = err
			}
		}
		if s.Confirmed == last {
			return
		}
		sum.transitions++
		sum.counts[s.Confirmed]++
		if !opts.json {
			fmt.Fprintf(out, "%8s  %-8s -> %-8s  %s\n",
				s.At.Sub(origin).Round(time.Millisecond), last, s.Confirmed, s.Display)
		}
		last = s.Confirmed
	})

	if err := puppet.Run(ctx); err != nil {
		return err
	}

	// flush queued transitions to the journal
	stopFeed()
	feed.Wait()

	if werr != nil {
		return werr
	}
	if !opts.json {
		printSummary(out, sum)
	}
	return nil
}

func printSummary(out io.Writer, sum replaySummary) {
	fmt.Fprintf(out, "\n%d ticks, %d transitions\n", sum.ticks, sum.transitions)
	for _, l := range gesture.Labels {
		if n := sum.counts[l]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", l, n)
		}
	}
}
