package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"projector/internal/model"
	"projector/internal/syntax"
	"projector/internal/trace"
)

// TypeResult is the projection of one type.
type TypeResult struct {
	Type model.TypeID
	Name string // full metadata name
	Decl syntax.Decl
	Err  error
}

// ProjectAll declares every type in ids concurrently. Results keep the
// order of ids. Per-type failures land in TypeResult.Err; the returned
// error is only set when ctx is cancelled.
func (s *Session) ProjectAll(ctx context.Context, ids []model.TypeID) ([]TypeResult, error) {
	results := make([]TypeResult, len(ids))
	if len(ids) == 0 {
		return results, nil
	}
	jobs := s.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx = trace.WithTracer(ctx, s.tracer)
	ctx, span := trace.Enter(ctx, trace.ScopeDriver, "project all")
	defer span.End(strconv.Itoa(len(ids)) + " types")

	limit := min(jobs, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	// Worker slots 1..limit; a goroutine holds one while it runs, so
	// trace events can be grouped by slot.
	slots := make(chan int, limit)
	for w := 1; w <= limit; w++ {
		slots <- w
	}

	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := <-slots
			defer func() { slots <- w }()
			// Each goroutine owns its builder; index i is unique, so
			// results needs no lock.
			decl, err := declareType(trace.WithWorker(gctx, w), s.Builder(), id)
			results[i] = TypeResult{Type: id, Name: s.model.FullName(id), Decl: decl, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
