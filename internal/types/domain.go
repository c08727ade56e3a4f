package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Tag is a label attached to a document. Tags are referenced by ID for
// selection state and by Name for display; raw payloads may carry either.
type Tag struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	IsPredefined bool       `json:"isPredefined"`
	AddedBy      string     `json:"addedBy,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`
}

// DateRange bounds a search by upload time. Either side may be open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Query describes one search invocation across every filter facet.
// It is immutable once handed to the coordinator; field equality defines
// whether two queries are the same request for dedup purposes.
type Query struct {
	Name      string    `json:"name,omitempty"`
	TypeID    string    `json:"typeId,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	Author    string    `json:"author,omitempty"`
	DateRange DateRange `json:"dateRange,omitzero"`
	TagIDs    []int     `json:"tagIds,omitempty"`
}

// HasTags reports whether the query filters by tag selection, which routes
// it to the by-tags search endpoint.
func (q Query) HasTags() bool { return len(q.TagIDs) > 0 }

// Fingerprint returns a stable key identifying the query for request
// dedup. Tag IDs are sorted so selection order does not change identity;
// keyword order is significant and preserved.
func (q Query) Fingerprint() string {
	tags := make([]int, len(q.TagIDs))
	copy(tags, q.TagIDs)
	sort.Ints(tags)

	var b strings.Builder
	b.WriteString(q.Name)
	b.WriteByte('|')
	b.WriteString(q.TypeID)
	b.WriteByte('|')
	b.WriteString(q.Author)
	b.WriteByte('|')
	if q.DateRange.Start != nil {
		b.WriteString(q.DateRange.Start.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if q.DateRange.End != nil {
		b.WriteString(q.DateRange.End.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(q.Keywords, ","))
	b.WriteByte('|')
	for i, id := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}

// SearchResultRecord is the minimal per-document shape returned by the
// listing/search endpoints. It is server-origin and untrusted: the tags
// field may be a JSON array or a string-encoded payload, and any of the
// name fields may be blank.
type SearchResultRecord struct {
	ID           string          `json:"id"`
	FilePath     string          `json:"file_path"`
	FileName     string          `json:"file_name"`
	OriginalName string          `json:"original_name"`
	DocType      string          `json:"doc_type"`
	RawTags      json.RawMessage `json:"tags,omitempty"`
	Keyword1     string          `json:"keyword1,omitempty"`
	Keyword2     string          `json:"keyword2,omitempty"`
	Keyword3     string          `json:"keyword3,omitempty"`
	Keyword4     string          `json:"keyword4,omitempty"`
	Keyword5     string          `json:"keyword5,omitempty"`
	UploadedAt   time.Time       `json:"uploaded_at"`
	UploadedBy   string          `json:"uploaded_by"`
}

// PositionalKeywords returns the up-to-five keyword slots in order,
// dropping blank and whitespace-only entries.
func (r SearchResultRecord) PositionalKeywords() []string {
	slots := []string{r.Keyword1, r.Keyword2, r.Keyword3, r.Keyword4, r.Keyword5}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// DocumentDetail is the richer per-document metadata held by the detail
// cache. Entries are immutable once stored; a refetch replaces the whole
// value.
type DocumentDetail struct {
	DocumentKey string    `json:"documentKey"`
	DisplayName string    `json:"displayName"`
	TypeName    string    `json:"typeName"`
	Comment     string    `json:"comment,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt,omitempty"`
}

// Document is the canonical view model: a SearchResultRecord merged with
// its cached DocumentDetail. It is the only type the embedding UI and the
// pagination engine consume. DisplayName and TypeName are never empty.
type Document struct {
	ID          string             `json:"id"`
	DisplayName string             `json:"displayName"`
	TypeName    string             `json:"typeName"`
	Tags        []Tag              `json:"tags,omitempty"`
	Keywords    []string           `json:"keywords,omitempty"`
	Comment     string             `json:"comment,omitempty"`
	UploadedAt  time.Time          `json:"uploadedAt"`
	Uploader    string             `json:"uploader"`
	Record      SearchResultRecord `json:"-"`
}

// VersionInfo describes one archived version of a document.
type VersionInfo struct {
	VersionID  string    `json:"versionId"`
	Label      string    `json:"label,omitempty"`
	ArchivedAt time.Time `json:"archivedAt"`
	ArchivedBy string    `json:"archivedBy,omitempty"`
	SizeBytes  int64     `json:"sizeBytes,omitempty"`
}

// DocumentType is an auxiliary taxonomy entry.
type DocumentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserInfo is a directory entry used when sharing documents.
type UserInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Permissions records what a grantee may do with a shared document.
type Permissions struct {
	CanView     bool `json:"canView"`
	CanDownload bool `json:"canDownload"`
	CanRestore  bool `json:"canRestore"`
}

// GrantSet maps user IDs to their permissions. It is treated as an
// immutable value: With returns a copy with one grant replaced rather than
// mutating in place.
type GrantSet map[string]Permissions

// With returns a new GrantSet with the grant for userID set to p.
func (g GrantSet) With(userID string, p Permissions) GrantSet {
	out := make(GrantSet, len(g)+1)
	for k, v := range g {
		out[k] = v
	}
	out[userID] = p
	return out
}

// Without returns a new GrantSet with userID removed.
func (g GrantSet) Without(userID string) GrantSet {
	out := make(GrantSet, len(g))
	for k, v := range g {
		if k != userID {
			out[k] = v
		}
	}
	return out
}
