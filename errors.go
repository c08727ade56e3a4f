package docsearch

import (
	"errors"

	interrors "github.com/docharbor/docsearch/internal/errors"
	"github.com/docharbor/docsearch/internal/lifecycle"
	"github.com/docharbor/docsearch/internal/resolver"
)

// ErrCancelled marks an intentionally cancelled operation: a superseded
// search, a closed preview, or coordinator teardown. Callers treat it as
// silence, never as a user-visible error.
var ErrCancelled = interrors.ErrCancelled

// ErrPermissionDenied is returned when the embedding view's configuration
// forbids the requested operation.
var ErrPermissionDenied = errors.New("operation not permitted for this view")

// ErrHandleRevoked is returned when a content handle is dereferenced
// after release.
var ErrHandleRevoked = lifecycle.ErrRevoked

// ContentNotFoundError is returned by OpenPreview when every candidate
// location was exhausted; it carries the attempted locations and their
// HTTP statuses for diagnostics.
type ContentNotFoundError = resolver.NotFoundError

// IsContentNotFound reports whether err means the fallback chain was
// exhausted, and returns the attempts if so.
func IsContentNotFound(err error) (*ContentNotFoundError, bool) {
	var nf *ContentNotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}
