package driver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ghannotate/internal/annotation"
	"ghannotate/internal/cargo"
	"ghannotate/internal/summary"
	"ghannotate/internal/trace"
)

// ThresholdFor returns the least annotation kind that fails a run: warnings
// fail it unless they are explicitly allowed.
func ThresholdFor(allowWarnings bool) annotation.Kind {
	if allowWarnings {
		return annotation.KindError
	}
	return annotation.KindWarning
}

// Options configures a Run.
type Options struct {
	// Threshold is the least kind that fails the run, see ThresholdFor.
	Threshold annotation.Kind
	// Exclude drops annotations for matching files. May be nil.
	Exclude *PathFilter
	// Progress receives artifact, annotation and build-finished events. May be nil.
	Progress Sink
	// Tracer defaults to trace.Nop.
	Tracer trace.Tracer
	// ParentSpan is the trace span the run's events hang under.
	ParentSpan uint64
}

// Stats counts what happened to the input.
type Stats struct {
	Lines       int // input lines read
	Skipped     int // lines that were not a known cargo message
	Diagnostics int // compiler messages decoded
	Errors      int // error-level diagnostics, whether emitted or not
	NoPrimary   int // diagnostics without a primary span
	Invalid     int // diagnostics with unusable span coordinates
	Excluded    int // annotations dropped by the path filter
	Duplicates  int // annotations already seen
	Emitted     int // annotations written
	Preloaded   int // annotations restored from a state file
}

// Outcome is the result of a finished run.
type Outcome struct {
	MaxKind   annotation.Kind
	Threshold annotation.Kind
	Counts    summary.Counts
	Stats     Stats
}

// Failed reports whether the most severe emitted annotation reached the
// threshold. A run that emitted nothing never fails.
func (o Outcome) Failed() bool {
	return o.Stats.Emitted > 0 && o.MaxKind >= o.Threshold
}

// Run threads cargo output through decoding, annotation, deduplication and
// summarising. It owns all run state and is not safe for concurrent use.
type Run struct {
	out       io.Writer
	opts      Options
	seen      *annotation.Set
	summaries *summary.Aggregator
	maxKind   annotation.Kind
	stats     Stats
}

// NewRun returns a run that writes workflow commands to out.
func NewRun(out io.Writer, opts Options) *Run {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Run{
		out:       out,
		opts:      opts,
		seen:      annotation.NewSet(),
		summaries: summary.NewAggregator(),
		maxKind:   annotation.KindNotice,
	}
}

// Preload marks annotations as already reported. They are never emitted or
// summarised by this run and do not count towards the threshold.
func (r *Run) Preload(items []annotation.Annotation) {
	for _, a := range items {
		if r.seen.Insert(a) {
			r.stats.Preloaded++
		}
	}
}

// Feed processes one line of cargo output. Lines that are not cargo
// messages, and diagnostics that cannot be annotated, are dropped; the only
// error is a failed write of an annotation.
func (r *Run) Feed(line []byte) error {
	r.stats.Lines++
	msg, ok := cargo.Decode(line)
	if !ok {
		r.stats.Skipped++
		trace.Point(r.opts.Tracer, trace.ScopeLine, "skip", r.opts.ParentSpan, "line "+strconv.Itoa(r.stats.Lines))
		return nil
	}

	switch msg.Reason {
	case cargo.ReasonCompilerMessage:
		return r.diagnostic(msg.Diagnostic)
	case cargo.ReasonCompilerArtifact:
		r.notify(Event{Kind: EventArtifact, Name: msg.Artifact.Target.Name, Fresh: msg.Artifact.Fresh})
	case cargo.ReasonBuildFinished:
		r.notify(Event{Kind: EventFinished, Success: msg.BuildFinished.Success})
	}
	return nil
}

func (r *Run) diagnostic(d *cargo.Diagnostic) error {
	r.stats.Diagnostics++
	sum := summary.FromDiagnostic(d)
	if sum.Kind() == annotation.KindError {
		r.stats.Errors++
	}

	a, err := annotation.FromDiagnostic(d)
	if err != nil {
		if errors.Is(err, annotation.ErrMissingPrimarySpan) {
			r.stats.NoPrimary++
		} else {
			r.stats.Invalid++
		}
		r.point("drop", err.Error())
		return nil
	}
	if r.opts.Exclude.Match(a.File) {
		r.stats.Excluded++
		r.point("exclude", a.File)
		return nil
	}
	if !r.seen.Insert(a) {
		r.stats.Duplicates++
		r.point("duplicate", location(a))
		return nil
	}

	if _, err := io.WriteString(r.out, a.String()+"\n"); err != nil {
		return fmt.Errorf("write annotation: %w", err)
	}
	r.stats.Emitted++
	r.maxKind = max(r.maxKind, a.Kind)
	r.summaries.Add(sum)
	r.point("emit", location(a))
	r.notify(Event{Kind: EventAnnotation, Name: a.File, Annotation: a.Kind})
	return nil
}

// Consume feeds every line of rd until EOF. It stops early when ctx is done
// or a read or write fails.
func (r *Run) Consume(ctx context.Context, rd io.Reader) error {
	span := trace.Begin(r.opts.Tracer, trace.ScopeStage, "consume", r.opts.ParentSpan)
	parent := r.opts.ParentSpan
	r.opts.ParentSpan = span.ID()
	defer func() {
		r.opts.ParentSpan = parent
		span.WithExtra("lines", strconv.Itoa(r.stats.Lines)).
			WithExtra("emitted", strconv.Itoa(r.stats.Emitted)).
			WithExtra("duplicates", strconv.Itoa(r.stats.Duplicates)).
			End("")
	}()

	br := bufio.NewReaderSize(rd, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimRight(line, "\r\n")
			if err := r.Feed(line); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read cargo output: %w", readErr)
		}
	}
}

// Span returns the trace span the run's events hang under.
func (r *Run) Span() uint64 {
	return r.opts.ParentSpan
}

// Annotations returns the dedup set, including preloaded annotations.
func (r *Run) Annotations() *annotation.Set {
	return r.seen
}

// Summaries returns the summaries of every emitted annotation.
func (r *Run) Summaries() *summary.Aggregator {
	return r.summaries
}

// Outcome returns the threshold decision for the input consumed so far.
func (r *Run) Outcome() Outcome {
	return Outcome{
		MaxKind:   r.maxKind,
		Threshold: r.opts.Threshold,
		Counts:    r.summaries.Counts(),
		Stats:     r.stats,
	}
}

func (r *Run) point(name, detail string) {
	trace.Point(r.opts.Tracer, trace.ScopeDiagnostic, name, r.opts.ParentSpan, detail)
}

func (r *Run) notify(ev Event) {
	if r.opts.Progress != nil {
		r.opts.Progress.OnEvent(ev)
	}
}

func location(a annotation.Annotation) string {
	return a.File + ":" + strconv.FormatUint(uint64(a.Line), 10)
}
