// Package trace provides structured tracing for projection runs.
//
// A run is traced as nested spans: the driver span covers a whole command,
// one span per projected type sits under it, and member-level point events
// are emitted at the most verbose level.
//
// # Usage
//
//	projector decl --trace=- --trace-level=detail System.Collections.Generic.List`1
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans events out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: nothing is streamed; the ring is dumped on failure
//   - LevelPhase: driver spans
//   - LevelDetail: per-type spans
//   - LevelDebug: per-member events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	ctx, span := trace.Enter(ctx, trace.ScopeType, "declare type")
//	defer span.End("ok")
//
// Parallel projection tags each goroutine's context with a worker slot
// (trace.WithWorker); spans opened below it carry the slot, and end
// events carry the span duration.
package trace
