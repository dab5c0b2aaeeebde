package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fphash/internal/config"
	"fphash/internal/version"
)

// settings is the configuration resolved for the running command.
var settings config.Config

// finishTrace ends the command span and closes the tracer; set by setupTracing.
var finishTrace func(err error)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fphash",
		Short:         "Content fingerprints for cache keys",
		Long:          `fphash computes stable XXH3-64 digests of bytes, string lists and files, and tracks file changes against a recorded manifest.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadSettings(cmd); err != nil {
				return err
			}
			if err := setupColor(cmd); err != nil {
				return err
			}
			return setupTracing(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("jobs", -1, "parallel file hashing workers (0 = GOMAXPROCS, default from config)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "", "trace format (auto|text|ndjson)")

	rootCmd.AddCommand(newBytesCmd())
	rootCmd.AddCommand(newArrayCmd())
	rootCmd.AddCommand(newFileCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// main builds the command tree and exits with status 1 on any error.
func main() {
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	endTrace(err)
	if err != nil {
		rootCmd.PrintErrln("fphash:", err)
		os.Exit(1)
	}
}

// endTrace runs finishTrace once, whether or not the command succeeded.
func endTrace(err error) {
	if finishTrace != nil {
		finishTrace(err)
		finishTrace = nil
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
