package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"ghannotate/internal/driver"
	"ghannotate/internal/trace"
)

// invocation holds the arguments given to the root command. Cargo
// subcommands disable cobra's flag parsing, so tool flags are split off
// from these.
var invocation []string

var (
	checkCmd  = newCargoCommand("check", "Annotate the diagnostics of cargo check")
	clippyCmd = newCargoCommand("clippy", "Annotate the diagnostics of cargo clippy")
	buildCmd  = newCargoCommand("build", "Annotate the diagnostics of cargo build")
)

func newCargoCommand(sub, short string) *cobra.Command {
	return &cobra.Command{
		Use:   sub + " [cargo args]",
		Short: short,
		Long: short + `.

Flags for ghannotate go before the subcommand; everything after it is passed
to cargo unchanged, followed by --message-format=json.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cargoArgs := args
			if invocation != nil {
				var err error
				cargoArgs, err = splitToolArgs(cmd.Root().PersistentFlags(), invocation, sub)
				if err != nil {
					return err
				}
			}
			return runSession(cmd, "cargo "+sub, "cargo", func(ctx context.Context, s settings, run *driver.Run, stderr io.Writer) (int, error) {
				return runCargo(ctx, s.cargo, sub, cargoArgs, run, stderr)
			})
		},
	}
}

// splitToolArgs applies the tool flags that precede sub in args to fs and
// returns the arguments following sub.
func splitToolArgs(fs *pflag.FlagSet, args []string, sub string) ([]string, error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == sub {
			return args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "--") || arg == "--" {
			return nil, fmt.Errorf("unexpected argument %q before %s", arg, sub)
		}
		name, value, hasValue := strings.Cut(arg[2:], "=")
		flag := fs.Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("unknown flag --%s (cargo flags go after %s)", name, sub)
		}
		if !hasValue {
			if flag.NoOptDefVal != "" {
				value = flag.NoOptDefVal
			} else {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag needs an argument: --%s", name)
				}
				i++
				value = args[i]
			}
		}
		if err := fs.Set(name, value); err != nil {
			return nil, fmt.Errorf("invalid argument %q for --%s: %w", value, name, err)
		}
	}
	return nil, fmt.Errorf("missing %s subcommand", sub)
}

// runCargo runs cargo with JSON diagnostics and feeds its stdout into run.
// Stderr is copied to stderr. The result is cargo's exit status.
func runCargo(ctx context.Context, cargo, sub string, args []string, run *driver.Run, stderr io.Writer) (int, error) {
	tracer := trace.FromContext(ctx)
	cmdArgs := make([]string, 0, len(args)+2)
	cmdArgs = append(cmdArgs, sub)
	cmdArgs = append(cmdArgs, args...)
	cmdArgs = append(cmdArgs, "--message-format=json")

	span := trace.Begin(tracer, trace.ScopeStage, "cargo", run.Span())
	c := exec.CommandContext(ctx, cargo, cmdArgs...)
	// nil Stdin reads from the null device
	c.Stdin = nil
	stdout, err := c.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to open cargo stdout: %w", err)
	}
	errPipe, err := c.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to open cargo stderr: %w", err)
	}
	if err := c.Start(); err != nil {
		span.End(err.Error())
		return 0, fmt.Errorf("failed to start %s: %w", cargo, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := run.Consume(ctx, stdout); err != nil {
			// stop cargo and keep draining so it and its children never
			// block on a full pipe
			_ = c.Process.Kill()
			_, _ = io.Copy(io.Discard, stdout)
			return err
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(stderr, errPipe); err != nil {
			_, _ = io.Copy(io.Discard, errPipe)
			return fmt.Errorf("forward cargo stderr: %w", err)
		}
		return nil
	})
	pumpErr := g.Wait()
	waitErr := c.Wait()

	code := 0
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		code = exitErr.ExitCode()
	case pumpErr == nil:
		pumpErr = fmt.Errorf("wait for cargo: %w", waitErr)
	}
	span.WithExtra("exit", fmt.Sprint(code)).End(strings.Join(cmdArgs, " "))
	if pumpErr != nil {
		return code, pumpErr
	}
	return code, nil
}
