package docsearch

// DefaultPageSize is the documents-per-page default.
const DefaultPageSize = 9

// Page is one slice of a normalized result set.
type Page struct {
	Items      []Document
	Number     int
	PageSize   int
	TotalItems int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Paginate slices items into the requested page. It is a pure function:
// no state, no network. page clamps to [1, TotalPages]; an empty result
// set yields an empty page 1. A non-positive pageSize selects
// DefaultPageSize.
func Paginate(items []Document, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		return Page{Items: []Document{}, Number: 1, PageSize: pageSize}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page{
		Items:      items[start:end],
		Number:     page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}
