// Package normalize merges raw search-result records with cached detail
// records into the canonical Document view model. Malformed server
// payloads degrade display fidelity; they never fail a search.
package normalize

import (
	"github.com/rs/zerolog"

	"github.com/docharbor/docsearch/internal/types"
)

// UnknownLabel terminates the display-name and type-name fallback chains
// so neither field is ever empty.
const UnknownLabel = "Unknown"

// Documents merges each record with its detail (if present) into a
// Document. Output order matches input order. Missing details are not an
// error: the record-derived fallback fields are used instead.
func Documents(records []types.SearchResultRecord, details map[string]types.DocumentDetail, log zerolog.Logger) []types.Document {
	out := make([]types.Document, 0, len(records))
	for _, r := range records {
		detail, hasDetail := details[r.ID]

		tags := detail.Tags
		if len(tags) == 0 {
			parsed, err := ParseTags(r.RawTags)
			if err != nil {
				log.Warn().Err(err).Str("document_id", r.ID).Msg("malformed tag payload, using empty tag list")
				parsed = nil
			}
			tags = parsed
		}
		if tags == nil {
			tags = []types.Tag{}
		}

		keywords := detail.Keywords
		if len(keywords) == 0 {
			keywords = r.PositionalKeywords()
		}

		doc := types.Document{
			ID:          r.ID,
			DisplayName: firstNonEmpty(detail.DisplayName, r.OriginalName, r.FileName, UnknownLabel),
			TypeName:    firstNonEmpty(detail.TypeName, r.DocType, UnknownLabel),
			Tags:        tags,
			Keywords:    keywords,
			UploadedAt:  r.UploadedAt,
			Uploader:    r.UploadedBy,
			Record:      r,
		}
		if hasDetail {
			doc.Comment = detail.Comment
		}
		out = append(out, doc)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
