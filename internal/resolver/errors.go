package resolver

import (
	"fmt"
	"strings"
)

// Attempt records one probed candidate location for diagnostics.
type Attempt struct {
	URL    string
	Status int    // 0 when the request never completed
	Reason string // why the candidate was rejected
}

// NotFoundError is returned when every candidate location is exhausted.
type NotFoundError struct {
	DocumentID string
	Attempts   []Attempt
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("content not found for document %q: no candidate locations", e.DocumentID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "content not found for document %q after %d candidates:", e.DocumentID, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " %s (%d)", a.URL, a.Status)
	}
	return b.String()
}
