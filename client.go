package storezip

import (
	"context"
	"errors"
	"log/slog"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	zipcore "github.com/meigma/storezip/core"
	ziphttp "github.com/meigma/storezip/http"
	"github.com/meigma/storezip/registry"
)

// Re-export delivery types.
type (
	// PushOption configures a Push operation.
	PushOption = registry.PushOption

	// FetchOption configures a Fetch operation.
	FetchOption = registry.FetchOption

	// InspectResult describes a pushed archive without its content.
	InspectResult = registry.InspectResult

	// BundleSource returns the bundle and download name for a request.
	BundleSource = ziphttp.BundleSource
)

// Re-export push and fetch options.
var (
	PushWithTags        = registry.PushWithTags
	PushWithAnnotations = registry.PushWithAnnotations
	PushWithFilename    = registry.PushWithFilename
	WithSkipCache       = registry.WithSkipCache
	WithNoStore         = registry.WithNoStore
)

// Client builds archives and delivers them to registries, import
// endpoints, and HTTP clients.
//
// Every delivery path builds through core.Build with the same options, so
// a bundle produces identical bytes whichever way it leaves the process.
type Client struct {
	registryOpts []registry.Option
	uploaderOpts []ziphttp.UploaderOption
	buildOpts    []zipcore.BuildOption
	endpoint     string
	logger       *slog.Logger
	progress     ProgressFunc
	metrics      *ziphttp.Metrics

	registry *registry.Client
	uploader *ziphttp.Uploader
}

// NewClient creates a new client with the given options.
//
// If no authentication is configured, anonymous registry access is used.
// Use [WithDockerConfig] to read credentials from ~/.docker/config.json.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	regOpts := c.registryOpts
	upOpts := c.uploaderOpts
	if c.metrics != nil {
		upOpts = append(upOpts, ziphttp.WithUploaderMetrics(c.metrics))
	}
	if c.logger != nil {
		regOpts = append([]registry.Option{registry.WithLogger(c.logger)}, regOpts...)
		upOpts = append([]ziphttp.UploaderOption{ziphttp.WithUploaderLogger(c.logger)}, upOpts...)
	}
	c.registry = registry.New(regOpts...)
	if c.endpoint != "" {
		c.uploader = ziphttp.NewUploader(c.endpoint, upOpts...)
	}
	return c, nil
}

// buildOptions returns the options passed to core.Build.
func (c *Client) buildOptions() []zipcore.BuildOption {
	opts := make([]zipcore.BuildOption, 0, len(c.buildOpts)+2)
	if c.logger != nil {
		opts = append(opts, zipcore.BuildWithLogger(c.logger))
	}
	if c.progress != nil {
		opts = append(opts, zipcore.BuildWithProgress(c.progress))
	}
	return append(opts, c.buildOpts...)
}

func (c *Client) reportProgress(stage ProgressStage, a *ZipArchive, done bool) {
	if c.progress == nil {
		return
	}
	ev := ProgressEvent{
		Stage:      stage,
		FilesDone:  a.Len(),
		FilesTotal: a.Len(),
	}
	if done {
		ev.BytesDone = uint64(a.Size())
	}
	c.progress(ev)
}

// Archive builds bundle with the client's build options.
func (c *Client) Archive(bundle Bundle) (*ZipArchive, error) {
	return zipcore.Build(bundle, c.buildOptions()...)
}

// Push builds bundle and pushes the archive to ref, which must carry a tag.
//
// The returned descriptor is the manifest's.
func (c *Client) Push(ctx context.Context, ref string, bundle Bundle, opts ...PushOption) (ocispec.Descriptor, error) {
	a, err := c.Archive(bundle)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	return c.PushArchive(ctx, ref, a, opts...)
}

// PushArchive pushes an already built archive to ref.
func (c *Client) PushArchive(ctx context.Context, ref string, a *ZipArchive, opts ...PushOption) (ocispec.Descriptor, error) {
	c.reportProgress(StagePushing, a, false)
	desc, err := c.registry.Push(ctx, ref, a, opts...)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	c.reportProgress(StagePushing, a, true)
	return desc, nil
}

// Fetch returns the archive bytes stored at ref after verifying their digest.
func (c *Client) Fetch(ctx context.Context, ref string, opts ...FetchOption) ([]byte, error) {
	return c.registry.Fetch(ctx, ref, opts...)
}

// Inspect returns the manifest and layer metadata stored at ref.
func (c *Client) Inspect(ctx context.Context, ref string) (*InspectResult, error) {
	return c.registry.Inspect(ctx, ref)
}

// Tag points the tag in ref at the manifest src resolves to.
func (c *Client) Tag(ctx context.Context, ref, src string) error {
	return c.registry.Tag(ctx, ref, src)
}

// Upload builds bundle and submits it to the configured import endpoint
// as filename.
func (c *Client) Upload(ctx context.Context, filename string, bundle Bundle) error {
	if c.uploader == nil {
		return ErrNoUploadEndpoint
	}
	a, err := c.Archive(bundle)
	if err != nil {
		return err
	}
	return c.UploadArchive(ctx, filename, a)
}

// UploadArchive submits an already built archive to the import endpoint.
func (c *Client) UploadArchive(ctx context.Context, filename string, a *ZipArchive) error {
	if c.uploader == nil {
		return ErrNoUploadEndpoint
	}
	c.reportProgress(StageUploading, a, false)
	if err := c.uploader.Upload(ctx, filename, a); err != nil {
		return err
	}
	c.reportProgress(StageUploading, a, true)
	return nil
}

// Handler returns an http.Handler that serves the bundles returned by
// source as ZIP downloads. A progress callback set on the client is called
// from concurrent requests.
func (c *Client) Handler(source BundleSource) *ziphttp.Handler {
	opts := []ziphttp.HandlerOption{ziphttp.WithBuildOptions(c.buildOptions()...)}
	if c.logger != nil {
		opts = append(opts, ziphttp.WithHandlerLogger(c.logger))
	}
	if c.metrics != nil {
		opts = append(opts, ziphttp.WithMetrics(c.metrics))
	}
	return ziphttp.NewHandler(source, opts...)
}

// errEmptyEndpoint is returned by WithUploadEndpoint for an empty URL.
var errEmptyEndpoint = errors.New("storezip: upload endpoint must not be empty")
