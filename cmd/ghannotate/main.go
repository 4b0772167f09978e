package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"ghannotate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cargo ghannotate [flags] check|clippy|build [cargo args]",
	Short: "Turn cargo diagnostics into GitHub Actions annotations",
	Long: `ghannotate runs cargo with JSON message output and prints every diagnostic as a
GitHub Actions workflow command, once, in a stable order. A markdown summary is
appended to $GITHUB_STEP_SUMMARY.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var errorColor = color.New(color.FgRed, color.Bold)

// main wires the subcommands and runs the root command. Errors other than a
// failed threshold are printed to stderr; the process exits with the code
// carried by the error, or 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(clippyCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(versionCmd)

	registerToolFlags(rootCmd.PersistentFlags())
	invocation = cargoSubcommandArgs(os.Args[1:])
	rootCmd.SetArgs(invocation)

	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				errorColor.Fprintf(os.Stderr, "error: %v\n", exit.err)
			}
			os.Exit(exit.code)
		}
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// registerToolFlags declares the flags ghannotate itself understands. They
// must precede the cargo subcommand.
func registerToolFlags(fs *pflag.FlagSet) {
	fs.String("cargo", "", "cargo executable (default $CARGO, then cargo)")
	fs.Bool("allow-warnings", false, "fail only when an error is annotated")
	fs.String("summary", "", "append the markdown summary to this file (default $GITHUB_STEP_SUMMARY)")
	fs.StringSlice("exclude", nil, "glob of source files to leave unannotated (repeatable)")
	fs.String("state", "", "file carrying reported annotations across runs")
	fs.String("config", "", "path to ghannotate.toml (default: search from the working directory upwards)")
	fs.String("ui", "auto", "progress view on stderr (auto|on|off)")
	fs.Bool("timings", false, "show timing information")
	fs.String("trace", "", "trace output file, - for stderr")
	fs.String("trace-level", "off", "trace level (off|error|stage|detail|debug)")
	fs.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	fs.Int("trace-ring-size", 1024, "events kept in ring mode")
}

// cargoSubcommandArgs drops the subcommand name cargo passes when invoked
// as `cargo ghannotate`.
func cargoSubcommandArgs(args []string) []string {
	if len(args) > 0 && args[0] == "ghannotate" {
		return args[1:]
	}
	return args
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
