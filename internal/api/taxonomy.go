package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docharbor/docsearch/internal/types"
)

// Auxiliary read endpoints: tag vocabulary, document types, keyword
// vocabulary, and the user directory. All simple GETs with no hard logic.

// ListTags retrieves the tag vocabulary.
func ListTags(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.Tag, error) {
	var out []types.Tag
	if err := getJSON(ctx, httpClient, baseURL+"/tags", "list tags", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDocumentTypes retrieves the document type taxonomy.
func ListDocumentTypes(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.DocumentType, error) {
	var out []types.DocumentType
	if err := getJSON(ctx, httpClient, baseURL+"/document_types", "list document types", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListKeywords retrieves the keyword vocabulary.
func ListKeywords(ctx context.Context, httpClient *http.Client, baseURL string) ([]string, error) {
	var out []string
	if err := getJSON(ctx, httpClient, baseURL+"/keywords", "list keywords", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers retrieves the user directory used for sharing.
func ListUsers(ctx context.Context, httpClient *http.Client, baseURL string) ([]types.UserInfo, error) {
	var out []types.UserInfo
	if err := getJSON(ctx, httpClient, baseURL+"/users", "list users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getJSON(ctx context.Context, httpClient *http.Client, url, op string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", op, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
