package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/journal"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent create/parse runs from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		j, err := journal.Open(rt.cfg.JournalPath)
		if err != nil {
			return err
		}
		defer func() { _ = j.Close() }() // safe to ignore

		runs, err := j.Recent(runsLimit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Mode", "Template", "Root", "Status", "Error"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.FinishedAt.Format("2006-01-02 15:04:05"),
				run.Mode,
				run.Template,
				run.Root,
				run.Status,
				run.Error,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}
