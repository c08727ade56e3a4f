package types

import "time"

// ------------------------------
// Request Types
// ------------------------------

// SearchRequest is the wire form of a Query sent to the search endpoints.
type SearchRequest struct {
	Name      string     `json:"name,omitempty"`
	TypeID    string     `json:"typeId,omitempty"`
	Keywords  []string   `json:"keywords,omitempty"`
	Author    string     `json:"author,omitempty"`
	DateStart *time.Time `json:"dateStart,omitempty"`
	DateEnd   *time.Time `json:"dateEnd,omitempty"`
	TagIDs    []int      `json:"tagIds,omitempty"`
}

// NewSearchRequest flattens a Query into its wire form.
func NewSearchRequest(q Query) SearchRequest {
	return SearchRequest{
		Name:      q.Name,
		TypeID:    q.TypeID,
		Keywords:  q.Keywords,
		Author:    q.Author,
		DateStart: q.DateRange.Start,
		DateEnd:   q.DateRange.End,
		TagIDs:    q.TagIDs,
	}
}

// BatchDetailsRequest asks for detail records for a set of documents.
// The backend keys details by document name, hence the field name.
type BatchDetailsRequest struct {
	DocumentNames []string `json:"documentNames"`
}

// ShareRequest grants access to a document for a set of users.
type ShareRequest struct {
	DocumentID string   `json:"documentId"`
	Grants     GrantSet `json:"grants"`
}

// ViewLogEvent records that a user opened a document. Delivery is
// fire-and-forget; the portal never blocks on it.
type ViewLogEvent struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName,omitempty"`
	Action     string    `json:"action"`
	ViewedBy   string    `json:"viewedBy,omitempty"`
	ViewedAt   time.Time `json:"viewedAt"`
}
