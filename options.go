package docsearch

// Functional options applied by New during construction. Keeping them in
// a standalone file makes it easy to discover all available knobs at a
// glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/docharbor/docsearch/internal/resolver"
)

// Option configures a Coordinator during construction in New.
// Options run before the sub-components are built, so sizing and timing
// knobs take effect everywhere. Options must be deterministic and
// side-effect free.
type Option func(*Coordinator) error

// WithHTTPClient replaces the underlying HTTP client. The client must
// carry the portal's session credentials (cookie jar or transport); every
// backend endpoint requires an authenticated session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Coordinator) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client timeout, a coarse
// safety net bounding one HTTP request end to end. Per-call bounds come
// from WithRequestTimeout. Must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Coordinator) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithRequestTimeout bounds each tracked operation in the request
// manager. Operations exceeding it are aborted and fail with a timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Coordinator) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be > 0")
		}
		c.requestTimeout = d
		return nil
	}
}

// WithDebounceInterval sets the trailing delay applied to scheduled
// searches.
func WithDebounceInterval(d time.Duration) Option {
	return func(c *Coordinator) error {
		if d <= 0 {
			return fmt.Errorf("debounce interval must be > 0")
		}
		c.debounceInterval = d
		return nil
	}
}

// WithResolveDeadline bounds the content resolver's whole candidate
// chain, not one candidate.
func WithResolveDeadline(d time.Duration) Option {
	return func(c *Coordinator) error {
		if d <= 0 {
			return fmt.Errorf("resolve deadline must be > 0")
		}
		c.resolveDeadline = d
		return nil
	}
}

// WithPageSize sets how many documents a result page holds.
func WithPageSize(n int) Option {
	return func(c *Coordinator) error {
		if n <= 0 {
			return fmt.Errorf("page size must be > 0")
		}
		c.pageSize = n
		return nil
	}
}

// WithContentType sets the media type the resolver accepts from candidate
// locations (default application/pdf).
func WithContentType(mediaType string) Option {
	return func(c *Coordinator) error {
		if mediaType == "" {
			return fmt.Errorf("content type must not be empty")
		}
		c.accept = mediaType
		return nil
	}
}

// WithContentTransform installs a post-fetch content transform (the
// watermarking extension point). The default is identity.
func WithContentTransform(t resolver.Transform) Option {
	return func(c *Coordinator) error {
		c.transform = t
		return nil
	}
}

// WithDetailCache sizes the detail cache and sets its TTL. A zero TTL
// keeps entries for the whole session.
func WithDetailCache(size int, ttl time.Duration) Option {
	return func(c *Coordinator) error {
		if size < 0 {
			return fmt.Errorf("cache size must be >= 0")
		}
		c.cacheSize = size
		c.cacheTTL = ttl
		return nil
	}
}

// WithViewerIdentity stamps view-log events with the given identity.
func WithViewerIdentity(viewer string) Option {
	return func(c *Coordinator) error {
		c.viewer = viewer
		return nil
	}
}

// WithPermissions restricts what this embedding view may do. The admin
// view keeps the defaults (everything allowed); a general view typically
// disables restore and share.
func WithPermissions(canRestore, canShare bool) Option {
	return func(c *Coordinator) error {
		c.canRestore = canRestore
		c.canShare = canShare
		return nil
	}
}

// WithLogger routes coordinator logging through the given logger. The
// default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) error {
		c.log = log
		return nil
	}
}

// WithDebugLogging wraps the HTTP transport so each request/response is
// dumped when enabled is true. Not for production use.
func WithDebugLogging(enabled bool) Option {
	return func(c *Coordinator) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}
