package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurpkg/pypup/internal/artifact"
	"github.com/aurpkg/pypup/internal/common/config"
	"github.com/aurpkg/pypup/internal/common/logger"
	"github.com/aurpkg/pypup/internal/common/output"
	"github.com/aurpkg/pypup/internal/common/run"
	"github.com/aurpkg/pypup/internal/listing"
	"github.com/aurpkg/pypup/internal/pipeline"
	"github.com/aurpkg/pypup/internal/pypi"
	"github.com/aurpkg/pypup/internal/reconcile"
	"github.com/aurpkg/pypup/internal/resolve"
	"github.com/aurpkg/pypup/internal/workspace"
)

// Exit codes, part of the CLI contract
const (
	exitConfigMissing   = 1 // template created, missing user, other config trouble
	exitConfigMalformed = 2 // config file is not valid YAML
	exitListingFailed   = 3 // maintainer listing could not be fetched
)

func runSync(cmd *cobra.Command, args []string) {
	if len(args) == 1 && isHelpArg(args[0]) {
		cmd.Usage()
		os.Exit(1)
	}

	configPath, err := pickConfigPath(args)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(exitConfigMissing)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrTemplateCreated) {
			output.Box("First run", fmt.Sprintf("Template written to %s. Fill in your AUR user and run again.", configPath))
			os.Exit(exitConfigMissing)
		}
		logger.Error("%v", err)
		if errors.Is(err, config.ErrMalformed) {
			os.Exit(exitConfigMalformed)
		}
		os.Exit(exitConfigMissing)
	}

	overrides, err := resolve.LoadOverrides(config.OverridesPath(configPath))
	if err != nil {
		logger.Error("%v", err)
		os.Exit(exitConfigMissing)
	}

	root := workdir
	if root == "" {
		root = cfg.Workdir
	}
	if root == "" {
		root, err = config.DefaultWorkdir()
		if err != nil {
			logger.Error("failed to determine workdir: %v", err)
			os.Exit(exitConfigMissing)
		}
	}

	if err := logger.Default().EnableFileLogging(); err != nil {
		logger.Debug("file logging unavailable: %v", err)
	}
	defer logger.Default().Close()

	runner := run.NewExecRunner()
	pipe := pipeline.NewMakepkg(runner)
	pipe.Push = !noPush

	sums := artifact.NewChecksummer(nil)
	sums.Progress = output.IsTerminal() && !quiet

	loop := &reconcile.Loop{
		Listing:   listing.NewAURSource("", cfg.User),
		Resolver:  resolve.NewResolver(cfg.Lowercase, overrides),
		Index:     pypi.NewIndex(""),
		Sums:      sums,
		Workspace: workspace.New(root, runner),
		Pipeline:  pipe,
		Compare:   reconcile.TokenComparer{},
		DryRun:    dryRun,
	}

	outcome, err := loop.Run(context.Background())
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(exitListingFailed)
	}

	displayOutcome(outcome)
}

// pickConfigPath resolves the config file location from the CLI args
func pickConfigPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return config.DefaultPath()
}

// isHelpArg reports whether a positional argument asks for usage
func isHelpArg(arg string) bool {
	return arg == "help" || arg == "-h" || strings.HasSuffix(arg, "-help")
}

// displayOutcome prints the run summary and the failure digest
func displayOutcome(o *reconcile.Outcome) {
	if quiet {
		return
	}

	fmt.Println()
	output.Header.Println("Reconciliation Summary")
	fmt.Println()
	fmt.Printf("  Packages seen:       %d\n", o.Seen)
	fmt.Printf("  Matched on index:    %d\n", o.Matched)
	fmt.Printf("  Rolling skipped:     %d\n", o.RollingSkipped)
	fmt.Printf("  Other skipped:       %d\n", o.OtherSkipped)
	fmt.Println()

	if len(o.Failures) == 0 {
		output.PrintSuccess("no failed updates")
		return
	}

	output.Warning.Printf("%d package(s) failed to update\n\n", len(o.Failures))
	for _, f := range o.Failures {
		version := f.Version
		if version == "" {
			version = "?"
		}
		output.Package.Printf("  %s", f.Package)
		fmt.Printf(" (%s)\n", version)
		output.Error.Printf("    %v\n", f.Err)
		if f.Log != "" {
			for _, line := range strings.Split(strings.TrimSpace(f.Log), "\n") {
				output.Dim.Printf("    %s\n", line)
			}
		}
		fmt.Println()
	}
}
