package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListVersions_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/post_docs/versions/doc-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"versions":[{"versionId":"v1"},{"versionId":"v2"}]}`))
	}))
	defer srv.Close()

	versions, err := ListVersions(context.Background(), srv.Client(), srv.URL, "doc-1")
	if err != nil || len(versions) != 2 || versions[0].VersionID != "v1" {
		t.Fatalf("ListVersions unexpected: %+v, err=%v", versions, err)
	}
}

func TestListVersions_BlankID(t *testing.T) {
	t.Parallel()
	if _, err := ListVersions(context.Background(), http.DefaultClient, "http://example.com", " "); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRestoreVersion_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/archive/restore/doc-1/v2" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	if err := RestoreVersion(context.Background(), srv.Client(), srv.URL, "doc-1", "v2"); err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}
}

func TestRestoreVersion_BackendRefusal(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":false,"message":"version locked"}`))
	}))
	defer srv.Close()

	err := RestoreVersion(context.Background(), srv.Client(), srv.URL, "doc-1", "v2")
	if err == nil {
		t.Fatal("expected error for refused restore")
	}
}
