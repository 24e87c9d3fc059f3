package driver_test

import (
	"context"
	"testing"

	"ferrite/internal/driver"
	"ferrite/internal/testkit"
)

func fixtureInputs() []driver.BodyInput {
	inputs := make([]driver.BodyInput, 0, 4)
	for _, fx := range testkit.AllFixtures() {
		inputs = append(inputs, driver.BodyInput{
			Body:  fx.Body,
			Types: fx.Types,
			Table: fx.Table,
		})
	}
	return inputs
}

func TestCheckAllResultsAligned(t *testing.T) {
	opts := driver.DefaultOptions()
	results, err := driver.CheckAll(context.Background(), fixtureInputs(), opts, nil)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	wantErrors := map[string]int{
		"choose":            1,
		"retain::{closure}": 1,
		"scoped":            0,
		"stash":             1,
	}
	for i, fx := range testkit.AllFixtures() {
		r := results[i]
		if r.Name != fx.Body.Name {
			t.Fatalf("result %d is %q, want %q", i, r.Name, fx.Body.Name)
		}
		if r.FromCache {
			t.Fatalf("%s: cache hit without a cache", r.Name)
		}
		if r.Check == nil {
			t.Fatalf("%s: in-memory result missing on a fresh check", r.Name)
		}
		if got := r.ErrorCount; got != wantErrors[r.Name] {
			t.Fatalf("%s: %d errors, want %d", r.Name, got, wantErrors[r.Name])
		}
		if r.Constraints == 0 {
			t.Fatalf("%s: no constraints collected", r.Name)
		}
	}
}

func TestCheckAllSecondRunHitsCache(t *testing.T) {
	cache := openTestCache(t)
	opts := driver.DefaultOptions()

	first, err := driver.CheckAll(context.Background(), fixtureInputs(), opts, cache)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	// Fresh fixtures: the first run minted inference variables in the shared
	// tables, the digest must not see them.
	second, err := driver.CheckAll(context.Background(), fixtureInputs(), opts, cache)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first {
		if first[i].FromCache {
			t.Fatalf("%s: first run must miss", first[i].Name)
		}
		if !second[i].FromCache {
			t.Fatalf("%s: second run must hit", second[i].Name)
		}
		if second[i].Check != nil {
			t.Fatalf("%s: cache hits carry no in-memory result", second[i].Name)
		}
		if first[i].ErrorCount != second[i].ErrorCount ||
			first[i].Constraints != second[i].Constraints {
			t.Fatalf("%s: cached counts diverge: %+v vs %+v",
				first[i].Name, first[i], second[i])
		}
		if first[i].Bag.Len() != second[i].Bag.Len() {
			t.Fatalf("%s: cached bag has %d diagnostics, want %d",
				second[i].Name, second[i].Bag.Len(), first[i].Bag.Len())
		}
	}
}

func TestCheckAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := driver.CheckAll(ctx, fixtureInputs(), driver.DefaultOptions(), nil); err == nil {
		t.Fatalf("canceled context must surface an error")
	}
}

func TestCheckAllSerialJobs(t *testing.T) {
	opts := driver.DefaultOptions()
	opts.Jobs = 1
	results, err := driver.CheckAll(context.Background(), fixtureInputs(), opts, nil)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if results[0].ErrorCount != 1 {
		t.Fatalf("serial run lost the error: %+v", results[0])
	}
}
