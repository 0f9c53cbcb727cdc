package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-package-statistics/internal/fetch"
	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
	"github.com/deploymenttheory/go-package-statistics/internal/processor"
	"github.com/deploymenttheory/go-package-statistics/internal/report"
	"github.com/deploymenttheory/go-package-statistics/internal/types"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <architecture>...",
		Short: "List the packages with the most files for each architecture",
		Example: `  package-statistics list amd64
  package-statistics list -n 20 --format markdown amd64 arm64
  package-statistics list --file ./Contents-amd64.gz amd64`,
		RunE: runList,
	}

	cmd.Flags().IntP("top", "n", 10, "number of packages to show")
	cmd.Flags().StringP("format", "f", report.FormatText, "output format (text, json, markdown)")
	cmd.Flags().IntP("workers", "w", 2, "number of architectures processed at once")
	cmd.Flags().String("temp-dir", os.TempDir(), "temporary directory for downloads")
	cmd.Flags().String("file", "", "analyze a local contents file instead of downloading")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	localFile, _ := cmd.Flags().GetString("file")
	if len(args) == 0 && localFile == "" {
		return fmt.Errorf("requires at least one architecture (amd64, arm64, etc.)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("error parsing configuration: %w", err)
	}

	writer, err := report.NewWriter(cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	resolver := mirror.New(cfg.Mirror, cfg.Timeout)
	proc := processor.New(cfg.Workers, cfg.Top, cfg.TempDir, resolver, fetch.New(cfg.Timeout))

	var results []types.ArchitectureStats
	if localFile != "" {
		arch := "local"
		if len(args) > 0 {
			arch = args[0]
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Processing package statistics for '%s' from %s\n", arch, localFile)

		stats, err := proc.ProcessFile(arch, localFile)
		if err != nil {
			return err
		}
		results = append(results, stats)
	} else {
		for _, arch := range args {
			fmt.Fprintf(cmd.ErrOrStderr(), "Processing package statistics for '%s' from %s\n", arch, cfg.Mirror)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		results, err = proc.Run(ctx, args)
		if err != nil {
			if ctx.Err() == context.Canceled {
				logger.Infof("Received interrupt, shutting down")
			}
			return err
		}
	}

	logger.Infof("Processed %d architecture(s) in %v", proc.Stats().FilesProcessed, proc.Duration())
	return writer.Write(results)
}
