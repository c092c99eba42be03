package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurpkg/pypup/internal/common/logger"
	"github.com/aurpkg/pypup/internal/common/output"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	dryRun  bool
	noPush  bool
	workdir string
)

var rootCmd = &cobra.Command{
	Use:   "pypup [config]",
	Short: "Keep AUR python packages in sync with PyPI",
	Long: `pypup reconciles the python packages of an AUR maintainer against
the releases published on PyPI. For every owned package with a newer
upstream release it rewrites the PKGBUILD (pkgver, pkgrel, md5sums),
rebuilds it and pushes the update.

The configuration file defaults to $XDG_CONFIG_HOME/pypup/config.yaml;
a single positional argument selects a different path. On first run a
template is created for editing.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
	Run: runSync,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report updates without touching recipes or building")
	rootCmd.Flags().BoolVar(&noPush, "no-push", false, "Build and commit but do not push")
	rootCmd.Flags().StringVar(&workdir, "workdir", "", "Package checkout directory (default: XDG cache)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
