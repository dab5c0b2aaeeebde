package hasher

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"fphash/internal/trace"
)

// Result is the outcome of hashing one path in a batch.
type Result struct {
	Path   string
	Digest string
	OK     bool // false when the file was unreadable
}

// HashFiles hashes paths concurrently with at most jobs workers
// (jobs <= 0 means GOMAXPROCS). Results keep the order of paths.
// Unreadable files produce results with OK == false; the only error
// returned is the context's.
func HashFiles(ctx context.Context, paths []string, jobs int) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeBatch, "hash-files", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	var unreadable atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// each goroutine owns results[i]
			digest, ok := HashFileContext(gctx, path)
			if !ok {
				unreadable.Add(1)
			}
			results[i] = Result{Path: path, Digest: digest, OK: ok}
			return nil
		})
	}

	err := g.Wait()
	absent := unreadable.Load()
	span.WithExtra("files", strconv.Itoa(len(paths))).
		WithExtra("unreadable", strconv.FormatInt(absent, 10)).
		WithExtra("jobs", strconv.Itoa(jobs))
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.End("")
	return results, nil
}
