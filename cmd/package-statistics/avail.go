package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
)

func newAvailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avail",
		Short: "List the architectures available on the mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("error parsing configuration: %w", err)
			}

			archs, err := mirror.New(cfg.Mirror, cfg.Timeout).Architectures(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available architectures at %s are:\n", cfg.Mirror)
			for _, arch := range archs {
				fmt.Fprintln(out, arch)
			}
			return nil
		},
	}
}
