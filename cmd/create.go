package cmd

import (
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/journal"
	"github.com/efestolab/ade/internal/synth"
)

var createData []string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a directory tree from a template at the mount point",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		reg, err := rt.openRegistry()
		if err != nil {
			return err
		}
		data, err := parseDataFlags(createData)
		if err != nil {
			return err
		}

		s := synth.New(osfs.New("/"), reg, rt.log)
		started := time.Now()
		report, err := s.Build(rt.cfg.DefaultTemplate, data, rt.mount.Mount())

		rt.record(journal.Run{
			Mode:     "create",
			Template: rt.cfg.DefaultTemplate,
			Root:     rt.mount.Mount(),
		}, err, started)
		if err != nil {
			return err
		}

		rt.log.Info("create complete",
			"template", rt.cfg.DefaultTemplate,
			"root", rt.mount.Mount(),
			"dirs", len(report.Dirs),
			"files", len(report.Files),
			"skipped", len(report.Skipped))
		return nil
	},
}

func init() {
	createCmd.Flags().StringArrayVar(&createData, "data", nil,
		"Variable value as name=value (repeatable)")
	rootCmd.AddCommand(createCmd)
}
