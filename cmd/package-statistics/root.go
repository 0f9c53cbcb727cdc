package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-package-statistics/internal/config"
	"github.com/deploymenttheory/go-package-statistics/internal/fetch"
	"github.com/deploymenttheory/go-package-statistics/internal/logger"
	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "package-statistics",
		Short: "Rank Debian packages by the number of files they own",
		Long: `Downloads the contents index of a Debian mirror for one or more
architectures (amd64, arm64, etc.) and prints the packages that have the
most files associated with them.`,
		PersistentPreRunE: setupLogging,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/"+config.ConfigFile+")")
	rootCmd.PersistentFlags().StringP("mirror", "m", mirror.DefaultMirror, "Debian mirror distribution directory")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "network timeout")

	// Logging flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debugging output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-file", "", "log to file instead of stderr")

	rootCmd.AddCommand(newListCmd(), newAvailCmd())
	return rootCmd
}

// setupLogging configures the logger based on command line flags
func setupLogging(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	switch {
	case debug:
		logger.SetLevel(logger.LevelDebug)
		logger.Debugf("Debug logging enabled")
	case verbose:
		logger.SetLevel(logger.LevelInfo)
	default:
		logger.SetLevel(logger.LevelWarning)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		logger.DisableColors()
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger.DisableColors()
		logger.SetOutput(file)
		logger.Infof("Logging to file: %s", logFile)
	}
	return nil
}

// loadConfig layers defaults, the config file, the environment and finally
// any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.FindConfigFile(explicit)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		logger.Debugf("Loading configuration from %s", path)
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("mirror") {
		cfg.Mirror, _ = flags.GetString("mirror")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if f := flags.Lookup("top"); f != nil && f.Changed {
		cfg.Top, _ = flags.GetInt("top")
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		cfg.Format, _ = flags.GetString("format")
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if f := flags.Lookup("temp-dir"); f != nil && f.Changed {
		cfg.TempDir, _ = flags.GetString("temp-dir")
	}

	return cfg, cfg.Validate()
}

// errorHint suggests the likely cause of an acquisition failure.
func errorHint(err error) string {
	switch {
	case errors.Is(err, fetch.ErrArchitectureNotFound):
		return "Is the architecture valid? Run 'package-statistics avail' to list them."
	case errors.Is(err, mirror.ErrMirrorNotFound):
		return "Is the mirror URL correct?"
	case errors.Is(err, fetch.ErrSourceUnreachable):
		return "Is your internet connection active?"
	}
	return ""
}
