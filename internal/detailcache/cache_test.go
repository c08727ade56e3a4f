package detailcache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/docharbor/docsearch/internal/types"
)

func fetcherFor(t *testing.T, calls *int32, known map[string]types.DocumentDetail) Fetcher {
	t.Helper()
	return func(ctx context.Context, ids []string) ([]types.DocumentDetail, error) {
		atomic.AddInt32(calls, 1)
		var out []types.DocumentDetail
		for _, id := range ids {
			if d, ok := known[id]; ok {
				out = append(out, d)
			}
		}
		return out, nil
	}
}

func TestGetDetails_SecondCallHitsCacheOnly(t *testing.T) {
	t.Parallel()
	var calls int32
	known := map[string]types.DocumentDetail{
		"a": {DocumentKey: "a", DisplayName: "Alpha"},
		"b": {DocumentKey: "b", DisplayName: "Beta"},
	}
	c := New(0, 0, fetcherFor(t, &calls, known))

	first, err := c.GetDetails(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if len(first) != 2 || first["a"].DisplayName != "Alpha" {
		t.Fatalf("first call unexpected: %+v", first)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one batch fetch, got %d", calls)
	}

	second, err := c.GetDetails(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("second call issued a network fetch (%d total)", calls)
	}
	if second["b"].DisplayName != "Beta" {
		t.Fatalf("second call values differ: %+v", second)
	}
}

func TestGetDetails_PartitionsMisses(t *testing.T) {
	t.Parallel()
	var calls int32
	var lastBatch atomic.Value
	fetch := func(ctx context.Context, ids []string) ([]types.DocumentDetail, error) {
		atomic.AddInt32(&calls, 1)
		lastBatch.Store(append([]string(nil), ids...))
		out := make([]types.DocumentDetail, 0, len(ids))
		for _, id := range ids {
			out = append(out, types.DocumentDetail{DocumentKey: id, DisplayName: "doc-" + id})
		}
		return out, nil
	}
	c := New(0, 0, fetch)

	if _, err := c.GetDetails(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetDetails(context.Background(), []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected two fetches, got %d", calls)
	}
	batch := lastBatch.Load().([]string)
	if len(batch) != 2 || batch[0] != "b" || batch[1] != "c" {
		t.Fatalf("expected only misses in batch, got %v", batch)
	}
}

func TestGetDetails_FailedFetchReturnsCachedSubset(t *testing.T) {
	t.Parallel()
	boom := errors.New("backend down")
	healthy := true
	fetch := func(ctx context.Context, ids []string) ([]types.DocumentDetail, error) {
		if !healthy {
			return nil, boom
		}
		out := make([]types.DocumentDetail, 0, len(ids))
		for _, id := range ids {
			out = append(out, types.DocumentDetail{DocumentKey: id, DisplayName: "doc-" + id})
		}
		return out, nil
	}
	c := New(0, 0, fetch)

	if _, err := c.GetDetails(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}

	healthy = false
	got, err := c.GetDetails(context.Background(), []string{"a", "b"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error surfaced, got %v", err)
	}
	if len(got) != 1 || got["a"].DisplayName != "doc-a" {
		t.Fatalf("cached subset not returned: %+v", got)
	}
	if _, ok := got["b"]; ok {
		t.Fatal("uncached id appeared despite failed fetch")
	}
	// Previously cached entries must survive the failure.
	if _, ok := c.Peek("a"); !ok {
		t.Fatal("cached entry lost after failed batch")
	}
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	t.Parallel()
	var calls int32
	c := New(0, 0, fetcherFor(t, &calls, map[string]types.DocumentDetail{
		"a": {DocumentKey: "a", DisplayName: "Alpha"},
	}))

	if _, err := c.GetDetails(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("a")
	if _, err := c.GetDetails(context.Background(), []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("invalidation did not force a refetch (%d fetches)", calls)
	}
}

func TestGetDetails_DeduplicatesInput(t *testing.T) {
	t.Parallel()
	var lastBatch []string
	fetch := func(ctx context.Context, ids []string) ([]types.DocumentDetail, error) {
		lastBatch = append([]string(nil), ids...)
		return []types.DocumentDetail{{DocumentKey: "a"}}, nil
	}
	c := New(0, 0, fetch)

	if _, err := c.GetDetails(context.Background(), []string{"a", "a", "a"}); err != nil {
		t.Fatal(err)
	}
	if len(lastBatch) != 1 {
		t.Fatalf("duplicate ids reached the batch fetch: %v", lastBatch)
	}
}
