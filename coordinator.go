// Package docsearch is the search and document-retrieval coordinator for
// the portal. An embedding view (admin screen, general screen, CLI) owns
// one Coordinator scoped to its lifetime; the coordinator turns filter
// state into deduplicated, cancellable backend queries, normalizes the
// results into one canonical view model, caches per-document details,
// resolves document content through a fallback chain of candidate
// locations, and ties every materialized content handle to an explicit
// release.
package docsearch

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docharbor/docsearch/internal/api"
	"github.com/docharbor/docsearch/internal/debounce"
	"github.com/docharbor/docsearch/internal/detailcache"
	interrors "github.com/docharbor/docsearch/internal/errors"
	"github.com/docharbor/docsearch/internal/flight"
	"github.com/docharbor/docsearch/internal/lifecycle"
	"github.com/docharbor/docsearch/internal/logqueue"
	"github.com/docharbor/docsearch/internal/normalize"
	"github.com/docharbor/docsearch/internal/resolver"
	"github.com/docharbor/docsearch/internal/types"
)

// Debounce channels. Each runs an independent trailing timer, so a tag
// toggle never resets a pending name-search.
const (
	ChannelSearch    = "search"
	ChannelTagSearch = "tag-search"
)

// Flight key prefixes. Preview-scoped calls share a prefix so closing the
// preview cancels all of them at once.
const (
	searchKeyPrefix  = "search:"
	previewKeyPrefix = "preview:"
)

type previewState int

const (
	stateIdle previewState = iota
	stateResolving
	stateViewing
	stateClosing
)

// previewSession tracks the single live preview. At most one content
// handle exists per session; opening a second document implicitly closes
// the first.
type previewSession struct {
	state      previewState
	id         string
	documentID string
	handle     *lifecycle.Handle
}

// Coordinator drives search, detail caching, content resolution and
// resource lifecycle for one embedding view. Construct with New; always
// Close when the view unmounts.
type Coordinator struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	flights   *flight.Manager
	scheduler *debounce.Scheduler
	details   *detailcache.Cache
	resolver  *resolver.Resolver
	tracker   *lifecycle.Tracker
	queue     *logqueue.Queue

	pageSize   int
	viewer     string
	canRestore bool
	canShare   bool

	// construction knobs consumed in New after options are applied
	requestTimeout   time.Duration
	debounceInterval time.Duration
	resolveDeadline  time.Duration
	accept           string
	cacheSize        int
	cacheTTL         time.Duration
	transform        resolver.Transform

	mu      sync.Mutex
	results []Document
	page    int
	session previewSession

	closedOnce uint32
}

// New constructs a Coordinator for the backend at baseURL. Additional
// options can be provided via functional arguments.
func New(baseURL string, opts ...Option) *Coordinator {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Coordinator{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
		pageSize:   DefaultPageSize,
		canRestore: true,
		canShare:   true,
		page:       1,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	c.flights = flight.NewManager(c.requestTimeout)
	c.scheduler = debounce.NewScheduler(c.debounceInterval)
	c.details = detailcache.New(c.cacheSize, c.cacheTTL, func(ctx context.Context, ids []string) ([]types.DocumentDetail, error) {
		return api.BatchDetails(ctx, c.http, c.baseURL, ids)
	})
	c.resolver = resolver.New(c.http, c.baseURL, c.accept, c.resolveDeadline, c.transform, c.log)
	c.tracker = lifecycle.NewTracker()
	c.queue = logqueue.New(logqueue.Config{}, c.log)

	return c
}

// Close stops the debounce timers, aborts every in-flight call, releases
// every live handle and drains the view-log queue. Safe to call multiple
// times; the coordinator must not be used afterwards.
func (c *Coordinator) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.scheduler.Stop()
	c.flights.CancelAll("")
	c.mu.Lock()
	c.session = previewSession{}
	c.mu.Unlock()
	if n := c.tracker.ReleaseAll(nil); n > 0 {
		c.log.Debug().Int("released", n).Msg("released handles on close")
	}
	c.queue.Stop()
	return nil
}

// --------------------------------------------------------------------
// Search
// --------------------------------------------------------------------

// Search executes q immediately: one deduplicated backend call, detail
// cache fill, normalization, and a page reset to 1. Concurrent calls with
// an equal query share a single network request. A query superseded by a
// newer one settles with an error satisfying IsCancelled; treat that as
// silence, not failure.
func (c *Coordinator) Search(ctx context.Context, q Query) ([]Document, error) {
	key := searchKeyPrefix + q.Fingerprint()

	// A different query supersedes any live search; an equal one attaches.
	if !c.flights.InFlight(key) {
		c.flights.CancelAll(searchKeyPrefix)
	}

	docs, err := flight.Do(c.flights, ctx, key, func(opCtx context.Context) ([]Document, error) {
		return c.runSearch(opCtx, q)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.results = docs
	c.page = 1
	c.mu.Unlock()
	return docs, nil
}

func (c *Coordinator) runSearch(ctx context.Context, q Query) ([]Document, error) {
	req := types.NewSearchRequest(q)

	var (
		records []types.SearchResultRecord
		err     error
	)
	if q.HasTags() {
		records, err = api.SearchByTags(ctx, c.http, c.baseURL, req)
	} else {
		records, err = api.Search(ctx, c.http, c.baseURL, req)
	}
	if err != nil {
		return nil, err
	}
	searchesTotal.Inc()

	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}

	// Block the visible update until both record and detail batches
	// settle. A failed detail batch degrades to record-derived fields.
	var details map[string]types.DocumentDetail
	if len(ids) > 0 {
		details, err = c.details.GetDetails(ctx, ids)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Int("documents", len(ids)).Msg("batch detail fetch failed, using record-derived fields")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return normalize.Documents(records, details, c.log), nil
}

// ScheduleSearch coalesces rapid filter mutations: it records q as the
// latest query for its channel (tag-filtered queries debounce on
// ChannelTagSearch, the rest on ChannelSearch) and, when the trailing
// timer elapses, runs exactly one Search with the most recent query. The
// sink receives the outcome; it may be nil. Queries superseded before the
// timer fires are never executed.
func (c *Coordinator) ScheduleSearch(q Query, sink func([]Document, error)) {
	channel := ChannelSearch
	if q.HasTags() {
		channel = ChannelTagSearch
	}
	c.scheduler.Schedule(channel, func() {
		docs, err := c.Search(context.Background(), q)
		if err != nil && IsCancelled(err) {
			return
		}
		if sink != nil {
			sink(docs, err)
		}
	})
}

// FlushPending fires any pending debounced search immediately.
func (c *Coordinator) FlushPending() {
	c.scheduler.Flush(ChannelSearch)
	c.scheduler.Flush(ChannelTagSearch)
}

// Results returns the current normalized result set.
func (c *Coordinator) Results() []Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}

// SetPage moves to page n (clamped) and returns it.
func (c *Coordinator) SetPage(n int) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := Paginate(c.results, c.pageSize, n)
	c.page = p.Number
	return p
}

// CurrentPage returns the active page of the current result set.
func (c *Coordinator) CurrentPage() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Paginate(c.results, c.pageSize, c.page)
}

// --------------------------------------------------------------------
// Preview
// --------------------------------------------------------------------

// OpenPreview resolves the content of doc through the candidate chain and
// returns a tracked handle over the validated payload. Any handle from a
// previous preview is revoked first, so at most one handle is live per
// view. A view event is dispatched fire-and-forget on success.
func (c *Coordinator) OpenPreview(ctx context.Context, doc Document) (*Handle, error) {
	c.mu.Lock()
	if prev := c.session.handle; prev != nil {
		// Implicit close of the prior document.
		c.session.state = stateClosing
		c.session.handle = nil
		c.mu.Unlock()
		c.tracker.Release(prev)
		c.mu.Lock()
	}
	sessionID := uuid.NewString()
	c.session = previewSession{state: stateResolving, id: sessionID, documentID: doc.ID}
	c.mu.Unlock()

	name := doc.Record.OriginalName
	if name == "" {
		name = doc.DisplayName
	}
	ref := resolver.Ref{
		ID:       doc.ID,
		FilePath: doc.Record.FilePath,
		FileName: doc.Record.FileName,
		Name:     name,
	}

	payload, err := flight.Do(c.flights, ctx, previewKeyPrefix+"content:"+doc.ID, func(opCtx context.Context) (*resolver.Payload, error) {
		return c.resolver.Resolve(opCtx, ref)
	})
	if err != nil {
		c.mu.Lock()
		if c.session.id == sessionID {
			c.session = previewSession{}
		}
		c.mu.Unlock()
		if !IsCancelled(err) {
			previewsFailedTotal.Inc()
		}
		return nil, err
	}

	handle := c.tracker.Materialize(doc.ID, payload.Source, payload.ContentType, payload.Data)

	c.mu.Lock()
	if c.session.id != sessionID {
		// Superseded while resolving; never publish the handle.
		c.mu.Unlock()
		c.tracker.Release(handle)
		return nil, ErrCancelled
	}
	c.session.state = stateViewing
	c.session.handle = handle
	c.mu.Unlock()
	previewsResolvedTotal.Inc()

	event := types.ViewLogEvent{
		DocumentID: doc.ID,
		FileName:   doc.Record.FileName,
		Action:     "view",
		ViewedBy:   c.viewer,
		ViewedAt:   time.Now(),
	}
	if err := api.LogView(ctx, c.queue, c.http, c.baseURL, event); err != nil {
		c.log.Debug().Err(err).Str("document_id", doc.ID).Msg("view log enqueue failed")
	}

	return handle, nil
}

// ClosePreview releases the live handle (if any) and aborts every
// preview-scoped call. Idempotent; safe to combine with unmount teardown.
func (c *Coordinator) ClosePreview() {
	c.flights.CancelAll(previewKeyPrefix)
	c.mu.Lock()
	h := c.session.handle
	c.session = previewSession{}
	c.mu.Unlock()
	if h != nil {
		c.tracker.Release(h)
	}
}

// PreviewDocumentID returns the document in the live preview, or "".
func (c *Coordinator) PreviewDocumentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.state != stateViewing {
		return ""
	}
	return c.session.documentID
}

// --------------------------------------------------------------------
// Details
// --------------------------------------------------------------------

// Details returns cached detail records for ids, batch-fetching misses.
// Missing keys in the result mean the backend could not provide a detail;
// callers fall back to record-derived fields.
func (c *Coordinator) Details(ctx context.Context, ids []string) (map[string]DocumentDetail, error) {
	return c.details.GetDetails(ctx, ids)
}

// RefreshDetails drops the cached entries for ids and refetches them.
// This is the manual refresh path; the cache otherwise lives for the
// session.
func (c *Coordinator) RefreshDetails(ctx context.Context, ids []string) (map[string]DocumentDetail, error) {
	c.details.Invalidate(ids...)
	return c.details.GetDetails(ctx, ids)
}

// --------------------------------------------------------------------
// Versions
// --------------------------------------------------------------------

// Versions retrieves the archived version history of a document. The call
// is preview-scoped: closing the preview aborts it.
func (c *Coordinator) Versions(ctx context.Context, documentID string) ([]VersionInfo, error) {
	return flight.Do(c.flights, ctx, previewKeyPrefix+"versions:"+documentID, func(opCtx context.Context) ([]VersionInfo, error) {
		return api.ListVersions(opCtx, c.http, c.baseURL, documentID)
	})
}

// RestoreVersion promotes an archived version back to current.
func (c *Coordinator) RestoreVersion(ctx context.Context, documentID, versionID string) error {
	if !c.canRestore {
		return ErrPermissionDenied
	}
	return api.RestoreVersion(ctx, c.http, c.baseURL, documentID, versionID)
}

// --------------------------------------------------------------------
// Sharing
// --------------------------------------------------------------------

// ShareDocument submits the full grant set for a document. Build grant
// sets with GrantSet.With / Without; they are replaced whole, never
// patched in place.
func (c *Coordinator) ShareDocument(ctx context.Context, documentID string, grants GrantSet) error {
	if !c.canShare {
		return ErrPermissionDenied
	}
	return api.ShareDocument(ctx, c.http, c.baseURL, documentID, grants)
}

// --------------------------------------------------------------------
// Auxiliary lookups
// --------------------------------------------------------------------

// Tags retrieves the tag vocabulary.
func (c *Coordinator) Tags(ctx context.Context) ([]Tag, error) {
	return api.ListTags(ctx, c.http, c.baseURL)
}

// DocumentTypes retrieves the document type taxonomy.
func (c *Coordinator) DocumentTypes(ctx context.Context) ([]DocumentType, error) {
	return api.ListDocumentTypes(ctx, c.http, c.baseURL)
}

// Keywords retrieves the keyword vocabulary.
func (c *Coordinator) Keywords(ctx context.Context) ([]string, error) {
	return api.ListKeywords(ctx, c.http, c.baseURL)
}

// Users retrieves the user directory used for sharing.
func (c *Coordinator) Users(ctx context.Context) ([]UserInfo, error) {
	return api.ListUsers(ctx, c.http, c.baseURL)
}

// AwaitViewLogs blocks until every view event submitted for documentID
// has been dispatched. Intended for tests and graceful shutdown.
func (c *Coordinator) AwaitViewLogs(ctx context.Context, documentID string) error {
	return c.queue.Barrier(ctx, documentID)
}

// IsCancelled reports whether err represents intentional cancellation
// (superseded query, closed preview, teardown) rather than a failure.
func IsCancelled(err error) bool {
	return interrors.IsCancellation(err)
}
