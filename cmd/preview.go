package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/efestolab/ade/internal/previewfs"
)

var (
	previewData []string
	previewAt   string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve a template's tree read-only over NFS, without touching disk",
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
		data, err := parseDataFlags(previewData)
		if err != nil {
			return err
		}

		fsys, err := previewfs.Materialize(reg, rt.cfg.DefaultTemplate, data)
		if err != nil {
			return err
		}

		srv, err := previewfs.NewServer(fsys)
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }() // safe to ignore

		rt.log.Info("preview server listening",
			"template", rt.cfg.DefaultTemplate, "port", srv.Port())

		if previewAt != "" {
			if err := previewfs.Mount(srv.Port(), previewAt); err != nil {
				return err
			}
			defer func() {
				if err := previewfs.Unmount(previewAt); err != nil {
					rt.log.Warn("unmount failed", "err", err)
				}
			}()
			rt.log.Info("preview mounted", "at", previewAt)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		rt.log.Info("preview shutting down")
		return nil
	},
}

func init() {
	previewCmd.Flags().StringArrayVar(&previewData, "data", nil,
		"Variable value as name=value (repeatable)")
	previewCmd.Flags().StringVar(&previewAt, "mount-at", "",
		"Mount the preview at this directory (needs the system mount command)")
	rootCmd.AddCommand(previewCmd)
}
