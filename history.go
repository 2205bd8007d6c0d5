package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rtconsole/config"
	"rtconsole/storage"
	"rtconsole/ui"
)

func newHistoryCmd() *cobra.Command {
	var (
		dataDir    string
		exportPath string
		render     bool
		width      int
	)

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List journaled sessions or the outputs of one session",
		Long: "Without arguments, lists the sessions recorded in the output journal.\n" +
			"With a session ID, prints that session's function call outputs newest first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			return runHistory(cmd, historyOpts{
				dataDir:    dataDir,
				sessionID:  sessionID,
				exportPath: exportPath,
				render:     render,
				width:      width,
			})
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory holding journal.db (default: configured data directory)")
	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "write the session as JSON to this path")
	cmd.Flags().BoolVar(&render, "render", false, "render each output as a widget")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "widget width when rendering")
	return cmd
}

type historyOpts struct {
	dataDir    string
	sessionID  string
	exportPath string
	render     bool
	width      int
}

func runHistory(cmd *cobra.Command, opts historyOpts) error {
	dataDir := opts.dataDir
	if dataDir == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dataDir = cfg.DataDir()
	}

	journal, err := storage.NewJournal(config.ExpandPath(dataDir))
	if err != nil {
		return err
	}
	defer journal.Close()

	out := cmd.OutOrStdout()

	if opts.exportPath != "" {
		if opts.sessionID == "" {
			return fmt.Errorf("--export needs a session ID")
		}
		if err := journal.ExportToJSON(opts.sessionID, opts.exportPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %s to %s\n", opts.sessionID, opts.exportPath)
		return nil
	}

	if opts.sessionID == "" {
		sessions, err := journal.ListSessions()
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTRANSPORT\tSTARTED\tENDED\tOUTPUTS")
		for _, s := range sessions {
			ended := "-"
			if s.EndedAt != nil {
				ended = s.EndedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				s.ID, s.Transport, s.StartedAt.Local().Format(time.DateTime), ended, s.OutputCount)
		}
		return w.Flush()
	}

	outputs, err := journal.LoadOutputs(opts.sessionID)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		fmt.Fprintf(out, "No outputs recorded for %s.\n", opts.sessionID)
		return nil
	}

	if opts.render {
		for _, o := range outputs {
			fmt.Fprintln(out, ui.RenderOutput(o).View(opts.width, false))
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CALL ID\tNAME\tARGUMENTS")
	for _, o := range outputs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.CallID, o.Name, o.Arguments)
	}
	return w.Flush()
}
