package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"cutlist-editor/internal/cutlist"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a cut list covers its recording without gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := ReadFile(args[0])
			if err != nil {
				return err
			}
			opts.log.Debug("cut list valid", "file", args[0], "segments", m.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d segments, %d kept\n", m.Len(), m.ActiveCount())
			return nil
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	var (
		edit   cutlist.Edit
		op     string
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Apply a single edit to a cut list",
		Long: `Apply one edit and write the result.

Operations: toggle, merge, start, end, split, select, reset.
start, end and split take a position with --time HH:MM:SS.mmm or --ms.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit.Op = cutlist.Op(op)
			return runEdits(cmd, opts, args[0], output, format, []cutlist.Edit{edit})
		},
	}
	cmd.Flags().StringVar(&op, "op", "", "edit operation")
	cmd.Flags().IntVar(&edit.Index, "index", 0, "segment index")
	cmd.Flags().StringVar(&edit.Timestamp, "time", "", "position as HH:MM:SS.mmm")
	cmd.Flags().Int64Var(&edit.Millis, "ms", 0, "position in milliseconds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "stdout encoding (json or yaml), defaults to the input's")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func newApplyCmd(opts *options) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "apply FILE EDITS",
		Short: "Apply a script of edits in order",
		Long: `Apply every edit in EDITS, a JSON or YAML list of
{op, index, ms, time} objects. The first rejected edit aborts the run
and nothing is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := ReadEdits(args[1])
			if err != nil {
				return err
			}
			return runEdits(cmd, opts, args[0], output, format, edits)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "stdout encoding (json or yaml), defaults to the input's")
	return cmd
}

func runEdits(cmd *cobra.Command, opts *options, input, output, format string, edits []cutlist.Edit) error {
	f, m, err := ReadFile(input)
	if err != nil {
		return err
	}

	for i, e := range edits {
		next, events, err := cutlist.Apply(m, e)
		if err != nil {
			var rejected *cutlist.RejectedEdit
			if errors.As(err, &rejected) {
				opts.log.Warn("edit rejected", "step", i, "op", rejected.Op, "index", rejected.Index, "reason", cutlist.ReasonCode(err))
			}
			return fmt.Errorf("edit %d: %w", i, err)
		}
		for _, ev := range events {
			opts.log.Info("edit applied", "step", i, "event", ev.Kind, "segment", ev.Index)
		}
		m = next
	}

	if f.Thumbnail != nil && f.Thumbnail.Type == cutlist.ThumbnailDefault {
		if pos, ok := cutlist.DefaultThumbnailPosition(m, f.Thumbnail.DefaultPosition); ok {
			f.Thumbnail.Position = pos
		}
	}
	f.Duration = m.Duration
	f.Segments = m.Records()

	if output != "" {
		if err := WriteFile(output, f); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		opts.log.Info("cut list written", "file", output, "segments", m.Len())
		return nil
	}

	enc := FormatFor(input)
	if format != "" {
		if enc, err = ParseFormat(format); err != nil {
			return err
		}
	}
	return Encode(cmd.OutOrStdout(), f, enc)
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "Print the segments of a cut list as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, m, err := ReadFile(args[0])
			if err != nil {
				return err
			}
			opts.log.Debug("summarizing", "file", args[0])

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSTART\tEND\tLENGTH\tSTATE")
			for i, s := range m.Segments {
				state := "kept"
				if s.Deleted {
					state = "deleted"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i,
					cutlist.FormatTimestamp(float64(s.Start)),
					cutlist.FormatTimestamp(float64(s.End)),
					cutlist.FormatTimestamp(float64(s.Length())),
					state)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nrecording: %s\n", cutlist.FormatTimestamp(float64(m.Duration)))
			fmt.Fprintf(out, "kept:      %s (%d of %d segments)\n",
				cutlist.FormatTimestamp(float64(m.KeptDuration())), m.ActiveCount(), m.Len())
			if f.Thumbnail != nil {
				fmt.Fprintf(out, "thumbnail: %s at %.3fs\n", f.Thumbnail.Type, f.Thumbnail.Position)
				if f.Thumbnail.Type == cutlist.ThumbnailDefault {
					if pos, ok := cutlist.DefaultThumbnailPosition(m, f.Thumbnail.DefaultPosition); ok {
						fmt.Fprintf(out, "           default resolves to %.3fs\n", pos)
					}
				}
			}
			return nil
		},
	}
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format MS",
		Short: "Render milliseconds as HH:MM:SS.mmm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid milliseconds %q: %w", args[0], err)
			}
			s := cutlist.FormatTimestamp(ms)
			if s == "" {
				return fmt.Errorf("%s cannot be rendered as a timestamp", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse TIMESTAMP",
		Short: "Convert HH:MM:SS.mmm to milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := cutlist.ParseTimestamp(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ms)
			return nil
		},
	}
}
