package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/journal"
	"github.com/efestolab/ade/internal/parse"
	"github.com/efestolab/ade/internal/registry"
)

var (
	parsePath   string
	parseOutput string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an existing directory against a template",
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

		target := parsePath
		if target == "" {
			if target, err = os.Getwd(); err != nil {
				return err
			}
		}
		target, err = filepath.Abs(target)
		if err != nil {
			return err
		}

		started := time.Now()
		results, err := runParse(rt, reg, target)

		rt.record(journal.Run{
			Mode:     "parse",
			Template: rt.cfg.DefaultTemplate,
			Root:     target,
			Bindings: results,
		}, err, started)
		if err != nil {
			return err
		}

		return printBindings(cmd, results)
	},
}

func runParse(rt *runtime, reg *registry.Registry, target string) ([]parse.Bindings, error) {
	segments, err := rt.mount.Relative(target)
	if err != nil {
		return nil, err
	}

	p, err := parse.Compile(reg, rt.cfg.DefaultTemplate, rt.cfg.Patterns())
	if err != nil {
		return nil, err
	}

	// Parsing the mount point itself means: walk everything below it.
	if len(segments) == 0 {
		return p.ParseTree(osfs.New("/"), rt.mount.Mount())
	}
	return p.ParsePath(segments)
}

func printBindings(cmd *cobra.Command, results []parse.Bindings) error {
	out := cmd.OutOrStdout()

	switch parseOutput {
	case "json":
		fmt.Fprintln(out, oj.JSON(results, 2))
		return nil
	case "text", "":
		for i, bindings := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			names := make([]string, 0, len(bindings))
			for name := range bindings {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s = %s\n", name, bindings[name])
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid --output %q: want text or json", parseOutput)
	}
}

func init() {
	parseCmd.Flags().StringVar(&parsePath, "path", "",
		"Target path to parse (default: current directory)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "text",
		"Output format: text or json")
	rootCmd.AddCommand(parseCmd)
}
