package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ferrite/internal/diag"
	"ferrite/internal/liveness"
	"ferrite/internal/mir"
	"ferrite/internal/observ"
	"ferrite/internal/regionck"
	"ferrite/internal/regions"
	"ferrite/internal/tys"
)

// BodyInput is one function body queued for checking, together with the
// environment it is checked under. Types and Table must not be shared
// between inputs; the check mutates both.
type BodyInput struct {
	Body   *mir.Body
	Types  *tys.Interner
	Table  *regions.Table
	Dropck liveness.Dropck
	Init   liveness.InitOracle
}

// BodyResult is one body's check outcome.
type BodyResult struct {
	Name        string
	Bag         *diag.Bag
	Constraints int
	ErrorCount  int
	FromCache   bool
	Timing      observ.Report

	// Check is the full in-memory result; nil on a cache hit.
	Check *regionck.Result
}

// CheckAll checks every body concurrently. The cache may be nil. The result
// slice is index-aligned with inputs regardless of completion order.
func CheckAll(ctx context.Context, inputs []BodyInput, opts Options, cache *DiskCache) ([]BodyResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]BodyResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(inputs), 1)))

	for i := range inputs {
		g.Go(func(i int) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = checkOne(&inputs[i], opts, cache)
				return nil
			}
		}(i))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// checkOne runs one body through the cache-or-check path.
func checkOne(in *BodyInput, opts Options, cache *DiskCache) BodyResult {
	timer := observ.NewTimer()

	hp := timer.Begin("digest")
	key := BodyDigest(in.Body, in.Table)
	timer.End(hp, "")

	if cache != nil {
		var payload CheckPayload
		// Cache read errors degrade to a miss; a stale or corrupt entry
		// must never fail the run.
		if ok, err := cache.Get(key, &payload); err == nil && ok {
			return BodyResult{
				Name:        in.Body.Name,
				Bag:         restoreDiagnostics(payload.Diags, opts.MaxDiags),
				Constraints: payload.Constraints,
				ErrorCount:  payload.ErrorCount,
				FromCache:   true,
				Timing:      timer.Report(),
			}
		}
	}

	cp := timer.Begin("check")
	res := regionck.Check(regionck.Config{
		Body:     in.Body,
		Types:    in.Types,
		Table:    in.Table,
		Dropck:   in.Dropck,
		Init:     in.Init,
		MaxDiags: opts.MaxDiags,
	})
	timer.End(cp, in.Body.Name)

	if cache != nil {
		// Best effort: a write failure only costs the next run a recheck.
		_ = cache.Put(key, &CheckPayload{
			Schema:      DiskCacheSchemaVersion,
			Name:        in.Body.Name,
			Digest:      key,
			Constraints: res.Set.Len(),
			ErrorCount:  len(res.Errors),
			Diags:       cacheDiagnostics(res.Bag.Items()),
		})
	}

	return BodyResult{
		Name:        in.Body.Name,
		Bag:         res.Bag,
		Constraints: res.Set.Len(),
		ErrorCount:  len(res.Errors),
		Timing:      timer.Report(),
		Check:       res,
	}
}
