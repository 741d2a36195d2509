package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/config"
	"github.com/efestolab/ade/internal/journal"
	"github.com/efestolab/ade/internal/logging"
	"github.com/efestolab/ade/internal/mountpoint"
	"github.com/efestolab/ade/internal/registry"
)

var (
	configPath     string
	mountFlag      string
	templateFlag   string
	templateFolder string
	verboseFlag    string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to ade.hcl (default $ADE_CONFIG, then ~/.ade/ade.hcl)")
	pf.StringVar(&mountFlag, "mount_point", "", "Path below which structure is created or parsed (default /tmp)")
	pf.StringVar(&templateFlag, "template", "", "Template name (default "+config.DefaultTemplate+")")
	pf.StringVar(&templateFolder, "template_folder", "", "Folder containing one subfolder per template")
	pf.StringVar(&verboseFlag, "verbose", "", "Log verbosity: debug, info, warning or error")
}

var rootCmd = &cobra.Command{
	Use:   "ade",
	Short: "ade: template driven directory structure engine",
	Long: `ade creates directory trees from templates and parses existing
trees back into the variables that produced them. Templates are plain
directories: subfolders of the template folder, with @fragment@
references and +variable+ segments in their entry names.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// runtime bundles the resolved configuration every subcommand starts from.
type runtime struct {
	cfg   config.Config
	log   *log.Logger
	mount mountpoint.Resolver
}

// newRuntime resolves config file and flags (flags win) and builds the
// logger. Heavier collaborators (registry, journal) are opened on
// demand by the commands that need them.
func newRuntime() (*runtime, error) {
	path := configPath
	if path == "" {
		path = config.Locate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if mountFlag != "" {
		cfg.MountPoint = mountFlag
	}
	if templateFolder != "" {
		cfg.TemplateSearchPath = templateFolder
	}
	if templateFlag != "" {
		cfg.DefaultTemplate = templateFlag
	}
	if verboseFlag != "" {
		cfg.Verbosity = verboseFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:   cfg,
		log:   logger,
		mount: mountpoint.New(cfg.MountPoint),
	}, nil
}

// openRegistry opens the template registry against the real filesystem.
func (rt *runtime) openRegistry() (*registry.Registry, error) {
	folder, err := filepath.Abs(rt.cfg.TemplateSearchPath)
	if err != nil {
		return nil, err
	}
	rt.log.Debug("using template folder", "path", folder)
	return registry.Open(osfs.New("/"), folder)
}

// record writes a run to the journal, best effort: an unwritable
// journal is logged and never fails the run itself.
func (rt *runtime) record(run journal.Run, runErr error, started time.Time) {
	run.StartedAt = started
	run.FinishedAt = time.Now()
	if runErr != nil {
		run.Status = journal.StatusFailed
		run.Error = runErr.Error()
	} else {
		run.Status = journal.StatusOK
	}

	j, err := journal.Open(rt.cfg.JournalPath)
	if err != nil {
		rt.log.Warn("journal unavailable", "err", err)
		return
	}
	defer func() { _ = j.Close() }() // safe to ignore

	if _, err := j.Record(run); err != nil {
		rt.log.Warn("journal write failed", "err", err)
	}
}

// parseDataFlags turns repeated name=value flags into a data map.
func parseDataFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --data %q: want name=value", pair)
		}
		data[name] = value
	}
	return data, nil
}
