package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docharbor/docsearch/internal/types"
)

func TestBatchDetails_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/post_docs/batch-details" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req types.BatchDetailsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.DocumentNames) != 2 {
			t.Errorf("ids not forwarded: %+v", req)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(types.BatchDetailsResponse{
			Success: true,
			Documents: []types.DocumentDetail{
				{DocumentKey: "d1", DisplayName: "Alpha", TypeName: "Invoice"},
			},
		})
	}))
	defer srv.Close()

	details, err := BatchDetails(context.Background(), srv.Client(), srv.URL, []string{"d1", "d2"})
	if err != nil || len(details) != 1 || details[0].DisplayName != "Alpha" {
		t.Fatalf("BatchDetails unexpected: %+v, err=%v", details, err)
	}
}

func TestBatchDetails_BackendFailureFlag(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	if _, err := BatchDetails(context.Background(), srv.Client(), srv.URL, []string{"d1"}); err == nil {
		t.Fatal("expected error when backend reports failure")
	}
}

func TestBatchDetails_EmptyInputRejected(t *testing.T) {
	t.Parallel()
	if _, err := BatchDetails(context.Background(), http.DefaultClient, "http://example.com", nil); err == nil {
		t.Fatal("expected validation error for empty id list")
	}
}
