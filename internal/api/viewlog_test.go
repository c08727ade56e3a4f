package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/docharbor/docsearch/internal/logqueue"
	"github.com/docharbor/docsearch/internal/types"
)

func TestLogView_Delivers(t *testing.T) {
	t.Parallel()
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/document_log" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var ev types.ViewLogEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		got.Store(ev)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	q := logqueue.New(logqueue.Config{}, zerolog.Nop())
	defer q.Stop()

	event := types.ViewLogEvent{DocumentID: "doc-1", FileName: "a.pdf", Action: "view", ViewedBy: "pat"}
	if err := LogView(context.Background(), q, srv.Client(), srv.URL, event); err != nil {
		t.Fatalf("LogView: %v", err)
	}
	if err := q.Barrier(context.Background(), "doc-1"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	ev, ok := got.Load().(types.ViewLogEvent)
	if !ok || ev.DocumentID != "doc-1" || ev.Action != "view" {
		t.Fatalf("event not delivered: %+v", got.Load())
	}
}

func TestLogView_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	q := logqueue.New(logqueue.Config{BaseBackoff: time.Millisecond, MaxInterval: 5 * time.Millisecond}, zerolog.Nop())
	defer q.Stop()

	if err := LogView(context.Background(), q, srv.Client(), srv.URL, types.ViewLogEvent{DocumentID: "doc-1"}); err != nil {
		t.Fatalf("LogView: %v", err)
	}
	if err := q.Barrier(context.Background(), "doc-1"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 delivery attempts, got %d", got)
	}
}

func TestLogView_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	q := logqueue.New(logqueue.Config{BaseBackoff: time.Millisecond}, zerolog.Nop())
	defer q.Stop()

	if err := LogView(context.Background(), q, srv.Client(), srv.URL, types.ViewLogEvent{DocumentID: "doc-1"}); err != nil {
		t.Fatalf("LogView: %v", err)
	}
	if err := q.Barrier(context.Background(), "doc-1"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("403 was retried: %d attempts", got)
	}
}

func TestLogView_MissingDocumentID(t *testing.T) {
	t.Parallel()
	q := logqueue.New(logqueue.Config{}, zerolog.Nop())
	defer q.Stop()

	if err := LogView(context.Background(), q, http.DefaultClient, "http://example.com", types.ViewLogEvent{}); err == nil {
		t.Fatal("expected validation error")
	}
}
