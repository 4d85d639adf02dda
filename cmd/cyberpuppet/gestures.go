package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/gesture"
)

type gestureRow struct {
	Label  gesture.Label `json:"label" yaml:"label"`
	Emoji  string        `json:"emoji" yaml:"emoji"`
	Phrase string        `json:"phrase" yaml:"phrase"`
	Motion string        `json:"motion" yaml:"motion"`
}

func newGesturesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "gestures",
		Short: "List the recognised gestures",
		Long: `List every gesture in rule order with its emoji, spoken phrase and the
puppet motion it triggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printGestures(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json, yaml")
	return cmd
}

func printGestures(out io.Writer, format string) error {
	rows := make([]gestureRow, 0, len(gesture.Labels))
	for _, l := range gesture.Labels {
		rows = append(rows, gestureRow{
			Label:  l,
			Emoji:  l.Emoji(),
			Phrase: l.Phrase(),
			Motion: animation.MotionFor(l).String(),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		data, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "table", "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "GESTURE\tEMOJI\tPHRASE\tMOTION")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Label, r.Emoji, r.Phrase, r.Motion)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
