package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docharbor/docsearch/internal/types"
)

// BatchDetails fetches detail records for a set of documents in one call.
func BatchDetails(ctx context.Context, httpClient *http.Client, baseURL string, ids []string) ([]types.DocumentDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDsPresent(ids, "documentNames"); err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.BatchDetailsRequest{DocumentNames: ids})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/post_docs/batch-details", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
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
		return nil, fmt.Errorf("batch details: status %d", resp.StatusCode)
	}

	var br types.BatchDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, err
	}
	if !br.Success {
		return nil, fmt.Errorf("batch details: backend reported failure")
	}
	return br.Documents, nil
}
