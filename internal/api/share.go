package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docharbor/docsearch/internal/types"
)

// ShareDocument grants access to a document for the users in grants.
// Grants are submitted whole: the backend replaces the document's grant
// set rather than patching it.
func ShareDocument(ctx context.Context, httpClient *http.Client, baseURL, documentID string, grants types.GrantSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(documentID, "documentId"); err != nil {
		return err
	}
	if len(grants) == 0 {
		return fmt.Errorf("grants must not be empty")
	}
	body, err := json.Marshal(types.ShareRequest{DocumentID: documentID, Grants: grants})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/post_docs/share", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("share document: status %d", resp.StatusCode)
	}

	var sr types.ShareResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return err
	}
	if !sr.Success {
		return fmt.Errorf("share document: %s", sr.Message)
	}
	return nil
}
