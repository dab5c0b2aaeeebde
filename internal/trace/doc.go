// Package trace provides the diagnostic tracing subsystem for fphash.
//
// Hashing itself never reports errors for unreadable files; it returns an
// absent digest. The reasons behind those absences (open failures, read
// failures) and the shape of batch runs are surfaced here instead, for
// operators only.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	fphash file --trace=- --trace-level=detail a.txt b.txt
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures, including unreadable files
//   - LevelPhase: Command and batch boundaries
//   - LevelDetail: Per-file events, including unreadable files
//   - LevelDebug: Everything
//
// # Scopes
//
//   - ScopeCommand: One CLI invocation
//   - ScopeBatch: A multi-file hashing run
//   - ScopeFile: A single file
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeBatch, "hash-files", parentID)
//	defer span.End("")
package trace
