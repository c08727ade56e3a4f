package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docharbor/docsearch/internal/types"
)

// rawTag accepts the alias field names seen across upload eras. A tag may
// arrive as {id, name} or {tag_id, tag_name}; either spelling wins when
// the canonical one is absent.
type rawTag struct {
	ID           *int       `json:"id"`
	TagID        *int       `json:"tag_id"`
	Name         string     `json:"name"`
	TagName      string     `json:"tag_name"`
	IsPredefined bool       `json:"is_predefined"`
	AddedBy      string     `json:"added_by"`
	AddedAt      *time.Time `json:"added_date"`
}

// ParseTags decodes a raw tag payload, which may be a JSON array of tag
// objects or a string-encoded copy of the same. A nil/null payload yields
// no tags and no error.
func ParseTags(raw json.RawMessage) ([]types.Tag, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	// String-encoded payload: unwrap, then parse the inner document.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("tag payload: %w", err)
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return nil, nil
		}
	}

	var raws []rawTag
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("tag payload: %w", err)
	}

	out := make([]types.Tag, 0, len(raws))
	for _, rt := range raws {
		t := types.Tag{
			Name:         firstNonEmpty(rt.Name, rt.TagName),
			IsPredefined: rt.IsPredefined,
			AddedBy:      rt.AddedBy,
			AddedAt:      rt.AddedAt,
		}
		switch {
		case rt.ID != nil:
			t.ID = *rt.ID
		case rt.TagID != nil:
			t.ID = *rt.TagID
		}
		out = append(out, t)
	}
	return out, nil
}
