// Package resolver fetches the renderable bytes of a document by probing
// an ordered list of candidate locations. The backing storage layout is
// not uniform across upload eras, so resolution probes structurally:
// most-specific location first, one shared deadline across the chain.
package resolver

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAccept is the media type expected from every candidate.
const DefaultAccept = "application/pdf"

// DefaultDeadline bounds the whole fallback chain, not one candidate.
const DefaultDeadline = 20 * time.Second

// maxPayloadBytes caps a single fetched document.
const maxPayloadBytes = 256 << 20

// Transform post-processes fetched content before it is handed to the
// caller. The watermarking hook plugs in here; the default is identity.
type Transform func(data []byte) ([]byte, error)

// Ref identifies a document and the location fragments candidates are
// derived from.
type Ref struct {
	ID       string
	FilePath string // stored directory fragment, may be blank
	FileName string // stored filename
	Name     string // original display name for the by-name lookup
}

// Payload is validated binary content plus where it came from.
type Payload struct {
	Data        []byte
	ContentType string
	Source      string
}

// Resolver probes candidate locations for document content.
type Resolver struct {
	http      *http.Client
	baseURL   string
	accept    string
	deadline  time.Duration
	transform Transform
	log       zerolog.Logger
}

// New constructs a Resolver. Zero-value accept and deadline select the
// defaults; a nil transform means identity.
func New(httpClient *http.Client, baseURL, accept string, deadline time.Duration, transform Transform, log zerolog.Logger) *Resolver {
	if accept == "" {
		accept = DefaultAccept
	}
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Resolver{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		accept:    accept,
		deadline:  deadline,
		transform: transform,
		log:       log,
	}
}

// Candidates derives the ordered location list for ref: the direct stored
// path, the generic uploads path, the by-name lookup, and the generic
// download endpoint. Fragments that cannot be derived are omitted.
func (r *Resolver) Candidates(ref Ref) []string {
	var out []string
	if ref.FilePath != "" {
		out = append(out, r.baseURL+"/"+strings.TrimLeft(ref.FilePath, "/"))
	}
	if ref.FileName != "" {
		out = append(out, r.baseURL+"/uploads/"+url.PathEscape(ref.FileName))
	}
	if ref.Name != "" {
		out = append(out, r.baseURL+"/post_docs/by-name/"+url.PathEscape(ref.Name))
	}
	if ref.ID != "" {
		out = append(out, r.baseURL+"/post_docs/download/"+url.PathEscape(ref.ID))
	}
	return out
}

// Resolve walks the candidate chain and returns the first payload whose
// response is successful and whose declared content type matches the
// expected one. A 200 with the wrong content type is a non-match and the
// chain continues. On exhaustion it fails with *NotFoundError carrying
// every attempt and its status.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (*Payload, error) {
	candidates := r.Candidates(ref)
	if len(candidates) == 0 {
		return nil, &NotFoundError{DocumentID: ref.ID}
	}

	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	attempts := make([]Attempt, 0, len(candidates))
	for _, loc := range candidates {
		probesTotal.Inc()
		payload, attempt := r.probe(ctx, loc)
		attempts = append(attempts, attempt)
		if payload == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}
		r.log.Debug().Str("document_id", ref.ID).Str("source", loc).Int("attempts", len(attempts)).Msg("content resolved")
		return payload, nil
	}
	exhaustedTotal.Inc()
	return nil, &NotFoundError{DocumentID: ref.ID, Attempts: attempts}
}

func (r *Resolver) probe(ctx context.Context, loc string) (*Payload, Attempt) {
	attempt := Attempt{URL: loc}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		attempt.Reason = err.Error()
		return nil, attempt
	}
	req.Header.Set("Accept", r.accept)

	resp, err := r.http.Do(req)
	if err != nil {
		attempt.Reason = err.Error()
		return nil, attempt
	}
	defer func() { _ = resp.Body.Close() }()
	attempt.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		attempt.Reason = resp.Status
		return nil, attempt
	}

	declared, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(declared, r.accept) {
		attempt.Reason = fmt.Sprintf("content type %q, want %q", resp.Header.Get("Content-Type"), r.accept)
		return nil, attempt
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		attempt.Reason = err.Error()
		return nil, attempt
	}

	if r.transform != nil {
		data, err = r.transform(data)
		if err != nil {
			attempt.Reason = fmt.Sprintf("content transform: %v", err)
			return nil, attempt
		}
	}
	return &Payload{Data: data, ContentType: declared, Source: loc}, attempt
}
