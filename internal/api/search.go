package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docharbor/docsearch/internal/types"
)

// Search runs a plain facet search against the backend.
func Search(ctx context.Context, httpClient *http.Client, baseURL string, req types.SearchRequest) ([]types.SearchResultRecord, error) {
	return postSearch(ctx, httpClient, baseURL+"/search", "search", req)
}

// SearchByTags runs a tag-filtered search. The backend applies the tag
// selection server-side; the remaining facets travel in the same body.
func SearchByTags(ctx context.Context, httpClient *http.Client, baseURL string, req types.SearchRequest) ([]types.SearchResultRecord, error) {
	return postSearch(ctx, httpClient, baseURL+"/search/by-tags", "search by tags", req)
}

func postSearch(ctx context.Context, httpClient *http.Client, url, op string, req types.SearchRequest) ([]types.SearchResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", op, resp.StatusCode)
	}

	var sr types.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	return sr.Documents, nil
}
