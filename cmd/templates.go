package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/linter"
	"github.com/efestolab/ade/internal/registry"
)

var templatesLint bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the templates registered in the template folder",
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

		if templatesLint {
			diags, err := linter.LintAll(reg)
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			if len(diags) > 0 {
				return fmt.Errorf("%d template problem(s)", len(diags))
			}
			rt.log.Info("templates clean", "count", len(reg.Names()))
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Variables", "Entries"})
		for _, name := range reg.Names() {
			tpl, err := reg.Resolve(name)
			if err != nil {
				// Fragments with dangling references still get listed;
				// --lint explains what is wrong with them.
				t.AppendRow(table.Row{name, "-", "-"})
				rt.log.Debug("template does not resolve", "name", name, "err", err)
				continue
			}
			entries := registry.Flatten(tpl)
			variables := registry.Variables(entries)
			t.AppendRow(table.Row{name, strings.Join(variables, ", "), len(entries)})
		}
		t.Render()
		return nil
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesLint, "lint", false,
		"Check templates for grammar problems instead of listing them")
	rootCmd.AddCommand(templatesCmd)
}
