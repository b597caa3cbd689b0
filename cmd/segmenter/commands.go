package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
	"github.com/nguyentantai21042004/segment-flow/internal/watcher"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var objective string

	cmd := &cobra.Command{
		Use:   "run <transcript>",
		Short: "Process one transcript file (.json or .srt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			a.banner(ctx, "Transcript Segmenter")

			report, err := a.proc.Run(ctx, args[0], objective)
			if err != nil {
				return err
			}

			fmt.Printf("run:       %s\n", report.RunID)
			fmt.Printf("groups:    %d\n", len(report.Result.Groups))
			fmt.Printf("segments:  %s\n", report.Artifacts.SegmentsPath)
			fmt.Printf("grouped:   %s\n", report.Artifacts.GroupsPath)
			fmt.Printf("document:  %s\n", report.Artifacts.DocxPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&objective, "objective", "o", "", "learning objective included in summary prompts")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process transcripts dropped into the input folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := ensureDirectories(a.cfg); err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			a.banner(ctx, "Transcript Segmenter (watch mode)")

			w, err := watcher.New(a.cfg.Paths.Input, a.proc.Process, a.log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
			a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
			a.log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watcher: %w", err)
			}
			a.log.Info(ctx, "Segmenter stopped")
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs, or show the groups of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if a.store == nil {
				return fmt.Errorf("no run store configured (store.path)")
			}

			ctx := cmd.Context()
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 1 {
				run, err := a.store.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", run.ID, run.Source, run.Status, run.Error)
				fmt.Fprintln(tw, "GROUP\tSTART\tEND\tSOURCE\tSUMMARY")
				for _, g := range run.Groups {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", g.ID,
						transcript.FormatTimestamp(g.Start), transcript.FormatTimestamp(g.End), g.Source, g.Summary)
				}
				return nil
			}

			runs, err := a.store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tSEGMENTS\tKEPT\tGROUPS\tFALLBACK\tSOURCE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n", r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Status, r.SegmentCount, r.KeptCount, r.GroupCount, r.FallbackCount, r.Source)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	return cmd
}
