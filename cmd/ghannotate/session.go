package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ghannotate/internal/driver"
	"ghannotate/internal/observ"
	"ghannotate/internal/summary"
	"ghannotate/internal/trace"
)

// producer feeds a message stream into run. The returned code is the exit
// status of the build tool, 0 when there is none.
type producer func(ctx context.Context, s settings, run *driver.Run, stderr io.Writer) (int, error)

// runSession performs one annotated run: it resolves settings, restores the
// dedup state, lets produce feed the driver and then writes the summary,
// the state file and the report. A run whose annotations reach the threshold
// ends with an exitError.
func runSession(cmd *cobra.Command, title, phase string, produce producer) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRun, title, 0)
	defer func() {
		var exit *exitError
		if err != nil && (!errors.As(err, &exit) || exit.err != nil) {
			dumpTrace(tracer, cmd.ErrOrStderr())
			span.End(err.Error())
			return
		}
		span.End("")
	}()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	s, err := resolveSettings(cmd.Root().PersistentFlags(), os.Getenv, cwd)
	if err != nil {
		return err
	}
	filter, err := driver.NewPathFilter(s.exclude)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()

	var state *driver.StateFile
	if s.statePath != "" {
		state = driver.OpenStateFile(s.statePath)
	}
	preloaded, err := state.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	opts := driver.Options{
		Threshold:  driver.ThresholdFor(s.allowWarnings),
		Exclude:    filter,
		Tracer:     tracer,
		ParentSpan: span.ID(),
	}
	useUI := shouldUseTUI(s.ui)
	var events chan driver.Event
	if useUI {
		events = make(chan driver.Event, 256)
		opts.Progress = driver.ChannelSink{Ch: events}
	}
	run := driver.NewRun(cmd.OutOrStdout(), opts)
	run.Preload(preloaded)

	idx := timer.Begin(phase)
	var code int
	if useUI {
		code, err = runWithUI(title, events, func(stderr io.Writer) (int, error) {
			return produce(ctx, s, run, stderr)
		})
	} else {
		code, err = produce(ctx, s, run, cmd.ErrOrStderr())
	}
	outcome := run.Outcome()
	timer.End(idx, strconv.Itoa(outcome.Stats.Lines)+" lines")
	if err != nil {
		return err
	}
	if code != 0 && outcome.Stats.Errors == 0 {
		return fmt.Errorf("%s exited with status %d without reporting an error", title, code)
	}

	idx = timer.Begin("summary")
	stage := trace.Begin(tracer, trace.ScopeStage, "summary", span.ID())
	err = summary.WriteFile(s.summaryPath, run.Summaries())
	stage.End(s.summaryPath)
	timer.End(idx, s.summaryPath)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if state != nil {
		idx = timer.Begin("state")
		stage = trace.Begin(tracer, trace.ScopeStage, "state", span.ID())
		err = state.Save(run.Annotations())
		stage.End(state.Path())
		timer.End(idx, strconv.Itoa(run.Annotations().Len())+" annotations")
		if err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
	}

	if err := writeReport(cmd.ErrOrStderr(), outcome); err != nil {
		return err
	}
	if s.timings {
		if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if outcome.Failed() {
		return &exitError{code: 1}
	}
	return nil
}
