package lifecycle

import (
	"errors"
	"io"
	"testing"
)

func TestRelease_Idempotent(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	h := tr.Materialize("doc-1", "http://x/a.pdf", "application/pdf", []byte("payload"))

	if !tr.Release(h) {
		t.Fatal("first release did not revoke")
	}
	if tr.Release(h) {
		t.Fatal("second release revoked again")
	}
	if tr.Live() != 0 {
		t.Fatalf("handles still tracked: %d", tr.Live())
	}
}

func TestOpen_AfterRevokeFails(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	h := tr.Materialize("doc-1", "src", "application/pdf", []byte("payload"))

	r, err := h.Open()
	if err != nil {
		t.Fatalf("open before revoke: %v", err)
	}
	data, _ := io.ReadAll(r)
	if string(data) != "payload" {
		t.Fatalf("unexpected payload: %q", data)
	}

	tr.Release(h)
	if _, err := h.Open(); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
	if h.Size() != 0 {
		t.Fatal("payload retained after revoke")
	}
}

func TestReleaseAll_WithPredicate(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	a := tr.Materialize("doc-a", "src", "application/pdf", []byte("a"))
	b := tr.Materialize("doc-b", "src", "application/pdf", []byte("b"))

	n := tr.ReleaseAll(func(h *Handle) bool { return h.DocumentID() == "doc-a" })
	if n != 1 {
		t.Fatalf("expected 1 release, got %d", n)
	}
	if !a.Revoked() || b.Revoked() {
		t.Fatal("predicate selected the wrong handle")
	}

	if n := tr.ReleaseAll(nil); n != 1 {
		t.Fatalf("expected remaining handle released, got %d", n)
	}
	if tr.Live() != 0 {
		t.Fatalf("handles still tracked: %d", tr.Live())
	}
}

func TestRelease_NilHandle(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	if tr.Release(nil) {
		t.Fatal("releasing nil reported a revoke")
	}
}
