// Package trace records what a ghannotate run did without touching stdout,
// which is reserved for workflow commands.
//
// # Usage
//
//	cargo ghannotate --trace=- --trace-level=detail check
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory, dumped on fatal errors
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope: ScopeRun for the whole invocation, ScopeStage for
// the cargo process, input consumption and summary writing, ScopeDiagnostic
// for the fate of each decoded diagnostic (emitted, duplicate, excluded,
// dropped) and ScopeLine for raw input lines that were skipped. LevelStage
// emits run and stage events, LevelDetail adds diagnostics, LevelDebug emits
// everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStage, "cargo", parentID)
//	defer span.End("")
package trace
