package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/docharbor/docsearch/internal/types"
)

// ListVersions retrieves the archived version history of a document.
func ListVersions(ctx context.Context, httpClient *http.Client, baseURL, documentID string) ([]types.VersionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(documentID, "documentId"); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/post_docs/versions/%s", baseURL, url.PathEscape(documentID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list versions: status %d", resp.StatusCode)
	}

	var vr types.VersionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, err
	}
	if !vr.Success {
		return nil, fmt.Errorf("list versions: backend reported failure")
	}
	return vr.Versions, nil
}

// RestoreVersion promotes an archived version back to current.
func RestoreVersion(ctx context.Context, httpClient *http.Client, baseURL, documentID, versionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(documentID, "documentId"); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(versionID, "versionId"); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/api/archive/restore/%s/%s", baseURL, url.PathEscape(documentID), url.PathEscape(versionID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("restore version: status %d", resp.StatusCode)
	}

	var rr types.RestoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return err
	}
	if !rr.Success {
		return fmt.Errorf("restore version: %s", rr.Message)
	}
	return nil
}
