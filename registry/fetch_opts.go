package registry

// FetchOption configures a Fetch operation.
type FetchOption func(*fetchConfig)

// fetchConfig controls how Fetch uses the client's archive cache.
// Both flags are ignored when no cache is configured.
type fetchConfig struct {
	readCache  bool
	writeCache bool
}

func newFetchConfig(opts []FetchOption) fetchConfig {
	cfg := fetchConfig{readCache: true, writeCache: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSkipCache always downloads the archive blob, even when an archive
// with the layer digest is already cached. The verified download replaces
// the cached copy.
func WithSkipCache() FetchOption {
	return func(cfg *fetchConfig) {
		cfg.readCache = false
	}
}

// WithNoStore keeps a downloaded archive out of the cache.
func WithNoStore() FetchOption {
	return func(cfg *fetchConfig) {
		cfg.writeCache = false
	}
}
