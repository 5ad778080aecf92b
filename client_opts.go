package storezip

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meigma/storezip/cache"
	"github.com/meigma/storezip/cache/disk"
	ziphttp "github.com/meigma/storezip/http"
	"github.com/meigma/storezip/registry"
)

// Option configures a Client.
type Option func(*Client) error

// DefaultCacheSize is the size limit of the cache created by WithCacheDir.
const DefaultCacheSize int64 = 512 << 20 // 512 MB

// --- Authentication Options ---

// WithDockerConfig enables reading credentials from ~/.docker/config.json.
// This is the recommended way to authenticate with registries.
func WithDockerConfig() Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithDockerConfig())
		return nil
	}
}

// WithStaticCredentials sets static username/password credentials for a registry.
// The registry parameter should be the registry host (e.g., "ghcr.io").
func WithStaticCredentials(host, username, password string) Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithStaticCredentials(host, username, password))
		return nil
	}
}

// WithStaticToken sets a static bearer token for a registry.
func WithStaticToken(host, token string) Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithStaticToken(host, token))
		return nil
	}
}

// WithAnonymous forces anonymous access, ignoring any configured credentials.
func WithAnonymous() Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithAnonymous())
		return nil
	}
}

// --- Transport Options ---

// WithPlainHTTP enables plain HTTP (no TLS) for registries.
// Use for local development registries.
func WithPlainHTTP(enabled bool) Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithPlainHTTP(enabled))
		return nil
	}
}

// WithUserAgent sets the User-Agent header for registry requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, registry.WithUserAgent(ua))
		return nil
	}
}

// WithRegistryOptions passes options through to the registry client.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(c *Client) error {
		c.registryOpts = append(c.registryOpts, opts...)
		return nil
	}
}

// WithUploadEndpoint sets the import endpoint used by Upload.
func WithUploadEndpoint(endpoint string) Option {
	return func(c *Client) error {
		if endpoint == "" {
			return errEmptyEndpoint
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for uploads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		c.uploaderOpts = append(c.uploaderOpts, ziphttp.WithClient(client))
		return nil
	}
}

// WithUploaderOptions passes options through to the uploader.
func WithUploaderOptions(opts ...ziphttp.UploaderOption) Option {
	return func(c *Client) error {
		c.uploaderOpts = append(c.uploaderOpts, opts...)
		return nil
	}
}

// --- Cache Options ---

// WithCache sets the cache for fetched archives.
func WithCache(c cache.Cache) Option {
	return func(cl *Client) error {
		cl.registryOpts = append(cl.registryOpts, registry.WithCache(c))
		return nil
	}
}

// WithCacheDir caches fetched archives on disk under dir, limited to
// DefaultCacheSize.
func WithCacheDir(dir string) Option {
	return func(cl *Client) error {
		c, err := disk.New(dir, disk.WithMaxBytes(DefaultCacheSize))
		if err != nil {
			return fmt.Errorf("create archive cache: %w", err)
		}
		cl.registryOpts = append(cl.registryOpts, registry.WithCache(c))
		return nil
	}
}

// --- Build Options ---

// WithBuildOptions sets the options every archive is built with.
func WithBuildOptions(opts ...BuildOption) Option {
	return func(c *Client) error {
		c.buildOpts = append(c.buildOpts, opts...)
		return nil
	}
}

// WithProgress sets a callback that receives build and delivery progress.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) error {
		c.progress = fn
		return nil
	}
}

// WithMetrics registers download and upload collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) error {
		if reg == nil {
			return errors.New("storezip: metrics registerer is nil")
		}
		c.metrics = ziphttp.NewMetrics(reg)
		return nil
	}
}

// WithLogger sets the logger shared by building, pushing, and uploading.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}
