package driver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ghannotate/internal/annotation"
	"ghannotate/internal/driver"
	"ghannotate/internal/summary"
)

const (
	unusedVariable = `{"reason":"compiler-message","package_id":"demo 0.1.0","message":{"message":"unused variable","level":"warning","spans":[{"file_name":"src/lib.rs","line_start":10,"line_end":10,"column_start":5,"column_end":8,"is_primary":true}],"rendered":null}}`
	mismatchedType = `{"reason":"compiler-message","message":{"message":"mismatched types","level":"error","spans":[{"file_name":"src/main.rs","line_start":3,"line_end":3,"column_start":9,"column_end":12,"is_primary":true}],"rendered":null}}`
	helpNote       = `{"reason":"compiler-message","message":{"message":"consider borrowing","level":"help","spans":[{"file_name":"src/main.rs","line_start":4,"line_end":4,"column_start":1,"column_end":2,"is_primary":true}],"rendered":null}}`
	noPrimary      = `{"reason":"compiler-message","message":{"message":"aborting due to previous error","level":"error","spans":[],"rendered":null}}`
	vendored       = `{"reason":"compiler-message","message":{"message":"unused import","level":"warning","spans":[{"file_name":"vendor/dep/src/lib.rs","line_start":1,"line_end":1,"column_start":5,"column_end":9,"is_primary":true}],"rendered":null}}`
	artifact       = `{"reason":"compiler-artifact","package_id":"demo 0.1.0","target":{"name":"demo","kind":["lib"]},"fresh":true}`
	finished       = `{"reason":"build-finished","success":false}`
)

func consume(t *testing.T, r *driver.Run, lines ...string) {
	t.Helper()
	if err := r.Consume(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n")); err != nil {
		t.Fatalf("Consume: %v", err)
	}
}

func TestRun_DuplicateWarning(t *testing.T) {
	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{Threshold: driver.ThresholdFor(false)})
	consume(t, r, unusedVariable, unusedVariable)

	want := "::warning file=src/lib.rs,line=10,endLine=10,col=5,endColumn=8::unused variable\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
	if got := r.Summaries().Len(); got != 1 {
		t.Fatalf("summaries = %d, want 1", got)
	}
	o := r.Outcome()
	if got := o.Counts.TotalsLine(); got != "0 Errors, 1 Warning, 0 Notices" {
		t.Errorf("totals = %q", got)
	}
	if !o.Failed() {
		t.Error("expected warning to fail the run under the default threshold")
	}
	if o.Stats.Duplicates != 1 || o.Stats.Emitted != 1 {
		t.Errorf("stats = %+v", o.Stats)
	}
}

func TestRun_Threshold(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		allowWarnings bool
		failed        bool
	}{
		{"empty", nil, false, false},
		{"notice only", []string{helpNote}, false, false},
		{"warning", []string{unusedVariable}, false, true},
		{"warning allowed", []string{unusedVariable}, true, false},
		{"error allowed warnings", []string{unusedVariable, mismatchedType}, true, true},
		{"noise", []string{"Compiling demo v0.1.0", artifact, finished}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			r := driver.NewRun(&out, driver.Options{Threshold: driver.ThresholdFor(tt.allowWarnings)})
			consume(t, r, tt.lines...)
			if got := r.Outcome().Failed(); got != tt.failed {
				t.Errorf("Failed() = %v, want %v", got, tt.failed)
			}
		})
	}
}

func TestRun_MissingPrimarySpan(t *testing.T) {
	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{Threshold: annotation.KindWarning})
	consume(t, r, noPrimary)

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
	if r.Summaries().Len() != 0 {
		t.Error("diagnostic without primary span must not be summarised")
	}
	o := r.Outcome()
	if o.Failed() {
		t.Error("dropped diagnostic must not fail the run")
	}
	if o.Stats.NoPrimary != 1 || o.Stats.Errors != 1 {
		t.Errorf("stats = %+v", o.Stats)
	}
}

func TestRun_SkipsNonMessages(t *testing.T) {
	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{})
	consume(t, r, "", "not json", `{"reason":"build-script-executed"}`, unusedVariable)

	o := r.Outcome()
	if o.Stats.Lines != 4 || o.Stats.Skipped != 3 || o.Stats.Emitted != 1 {
		t.Errorf("stats = %+v", o.Stats)
	}
}

func TestRun_Exclude(t *testing.T) {
	filter, err := driver.NewPathFilter([]string{"vendor/**"})
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{Threshold: annotation.KindWarning, Exclude: filter})
	consume(t, r, vendored, unusedVariable)

	if strings.Contains(out.String(), "vendor/") {
		t.Errorf("excluded file annotated: %q", out.String())
	}
	o := r.Outcome()
	if o.Stats.Excluded != 1 || o.Stats.Emitted != 1 {
		t.Errorf("stats = %+v", o.Stats)
	}
	if r.Annotations().Len() != 1 {
		t.Errorf("excluded annotation entered the dedup set")
	}
}

func TestRun_Preload(t *testing.T) {
	prev := driver.NewRun(new(strings.Builder), driver.Options{})
	consume(t, prev, unusedVariable)
	var seen []annotation.Annotation
	for a := range prev.Annotations().All() {
		seen = append(seen, a)
	}

	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{Threshold: annotation.KindWarning})
	r.Preload(seen)
	consume(t, r, unusedVariable, mismatchedType)

	want := "::error file=src/main.rs,line=3,endLine=3,col=9,endColumn=12::mismatched types\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	o := r.Outcome()
	if diff := cmp.Diff(summary.Counts{Errors: 1}, o.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if o.Stats.Preloaded != 1 || o.Stats.Duplicates != 1 {
		t.Errorf("stats = %+v", o.Stats)
	}
	if r.Annotations().Len() != 2 {
		t.Errorf("set len = %d, want 2", r.Annotations().Len())
	}
}

func TestRun_ProgressEvents(t *testing.T) {
	var events []driver.Event
	r := driver.NewRun(new(strings.Builder), driver.Options{
		Progress: driver.SinkFunc(func(ev driver.Event) { events = append(events, ev) }),
	})
	consume(t, r, artifact, unusedVariable, unusedVariable, finished)

	want := []driver.Event{
		{Kind: driver.EventArtifact, Name: "demo", Fresh: true},
		{Kind: driver.EventAnnotation, Name: "src/lib.rs", Annotation: annotation.KindWarning},
		{Kind: driver.EventFinished, Success: false},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ConsumeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := driver.NewRun(new(strings.Builder), driver.Options{})
	if err := r.Consume(ctx, strings.NewReader(unusedVariable+"\n")); err != context.Canceled {
		t.Fatalf("Consume = %v, want context.Canceled", err)
	}
}

func TestRun_CRLF(t *testing.T) {
	var out strings.Builder
	r := driver.NewRun(&out, driver.Options{})
	if err := r.Consume(context.Background(), strings.NewReader(unusedVariable+"\r\n"+mismatchedType)); err != nil {
		t.Fatal(err)
	}
	if r.Outcome().Stats.Emitted != 2 {
		t.Errorf("emitted = %d, want 2", r.Outcome().Stats.Emitted)
	}
}
