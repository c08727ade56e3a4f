package types

import (
	"encoding/json"
	"fmt"
)

// ------------------------------
// Response Types
// ------------------------------

// SearchResponse wraps the search endpoints' result set. Depending on the
// endpoint era the body is either a bare array of records or an object
// with a "documents" field; both decode into Documents.
type SearchResponse struct {
	Documents []SearchResultRecord
}

// UnmarshalJSON accepts both historical response shapes.
func (r *SearchResponse) UnmarshalJSON(data []byte) error {
	var bare []SearchResultRecord
	if err := json.Unmarshal(data, &bare); err == nil {
		r.Documents = bare
		return nil
	}
	var wrapped struct {
		Documents []SearchResultRecord `json:"documents"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("search response: unrecognized shape: %w", err)
	}
	r.Documents = wrapped.Documents
	return nil
}

// BatchDetailsResponse wraps the batch-details endpoint result.
type BatchDetailsResponse struct {
	Success   bool             `json:"success"`
	Documents []DocumentDetail `json:"documents"`
}

// VersionsResponse wraps the version-history endpoint result.
type VersionsResponse struct {
	Success  bool          `json:"success"`
	Versions []VersionInfo `json:"versions"`
}

// RestoreResponse acknowledges a version restore.
type RestoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ShareResponse acknowledges a share request.
type ShareResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
