// Package lifecycle ties every materialized content handle to an explicit
// release. The tracker owns the only strong reference to a handle's
// payload; revocation nulls it so the bytes can never be read afterwards.
package lifecycle

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRevoked is returned when a handle is dereferenced after release.
var ErrRevoked = errors.New("content handle revoked")

// Handle is a revocable local reference to fetched document content, the
// in-process analogue of a blob object URL. Handles are created by a
// Tracker and must be released through it.
type Handle struct {
	id         string
	documentID string
	source     string
	mimeType   string
	createdAt  time.Time

	mu      sync.Mutex
	payload []byte
	revoked bool
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() string { return h.id }

// DocumentID returns the document the content belongs to.
func (h *Handle) DocumentID() string { return h.documentID }

// Source returns the candidate location that produced the content.
func (h *Handle) Source() string { return h.source }

// ContentType returns the validated media type of the payload.
func (h *Handle) ContentType() string { return h.mimeType }

// CreatedAt returns when the handle was materialized.
func (h *Handle) CreatedAt() time.Time { return h.createdAt }

// Open returns a reader over the payload, or ErrRevoked after release.
func (h *Handle) Open() (io.Reader, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return nil, ErrRevoked
	}
	return bytes.NewReader(h.payload), nil
}

// Size returns the payload length in bytes, zero once revoked.
func (h *Handle) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payload)
}

// Revoked reports whether the handle has been released.
func (h *Handle) Revoked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revoked
}

// revoke drops the payload. Idempotent; reports whether this call did the
// revocation.
func (h *Handle) revoke() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return false
	}
	h.revoked = true
	h.payload = nil
	return true
}

func newHandle(documentID, source, mimeType string, payload []byte) *Handle {
	return &Handle{
		id:         uuid.NewString(),
		documentID: documentID,
		source:     source,
		mimeType:   mimeType,
		createdAt:  time.Now(),
		payload:    payload,
	}
}
