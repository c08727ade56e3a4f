package docsearch

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures the environment-driven settings a deployment tunes
// without code changes. Used by the CLI and by embedders that prefer env
// configuration over functional options.
type Config struct {
	BaseURL          string        `envconfig:"BASE_URL" required:"true"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	DebounceInterval time.Duration `envconfig:"DEBOUNCE_INTERVAL" default:"400ms"`
	ResolveDeadline  time.Duration `envconfig:"RESOLVE_DEADLINE" default:"20s"`
	PageSize         int           `envconfig:"PAGE_SIZE" default:"9"`
	CacheSize        int           `envconfig:"CACHE_SIZE" default:"2048"`
	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"0s"`
	ContentType      string        `envconfig:"CONTENT_TYPE" default:"application/pdf"`
	Viewer           string        `envconfig:"VIEWER"`
	Debug            bool          `envconfig:"DEBUG"`
}

// ConfigFromEnv reads DOCSEARCH_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("docsearch", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig constructs a Coordinator from cfg. Extra options are
// applied after the config-derived ones and win on conflict.
func NewFromConfig(cfg Config, opts ...Option) *Coordinator {
	base := []Option{
		WithHTTPTimeout(cfg.HTTPTimeout),
		WithRequestTimeout(cfg.RequestTimeout),
		WithDebounceInterval(cfg.DebounceInterval),
		WithResolveDeadline(cfg.ResolveDeadline),
		WithPageSize(cfg.PageSize),
		WithDetailCache(cfg.CacheSize, cfg.CacheTTL),
		WithContentType(cfg.ContentType),
		WithViewerIdentity(cfg.Viewer),
		WithDebugLogging(cfg.Debug),
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}
