package http

import (
	"errors"
	"log/slog"
	"mime"
	nethttp "net/http"
	"time"

	storezip "github.com/meigma/storezip/core"
)

// BundleSource returns the bundle to serve for r and the download name,
// without the .zip extension.
type BundleSource func(r *nethttp.Request) (name string, bundle storezip.Bundle, err error)

// Handler serves bundles as ZIP downloads.
type Handler struct {
	source    BundleSource
	buildOpts []storezip.BuildOption
	logger    *slog.Logger
	metrics   *Metrics
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBuildOptions sets the options passed to storezip.Build.
func WithBuildOptions(opts ...storezip.BuildOption) HandlerOption {
	return func(h *Handler) {
		h.buildOpts = append(h.buildOpts, opts...)
	}
}

// WithHandlerLogger sets the logger for request diagnostics.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics records downloads in m.
func WithMetrics(m *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler creates a Handler that serves the bundles returned by source.
func NewHandler(source BundleSource, opts ...HandlerOption) *Handler {
	h := &Handler{source: source}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// log returns the logger, falling back to a discard logger if nil.
func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.logger
}

// ServeHTTP implements http.Handler.
//
// Responses carry the archive digest as a strong ETag, so conditional and
// range requests are answered by http.ServeContent.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	rec := &statusRecorder{ResponseWriter: w}
	defer func() { h.metrics.observeDownload(rec.status()) }()
	h.serve(rec, r)
}

func (h *Handler) serve(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet && r.Method != nethttp.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}

	name, bundle, err := h.source(r)
	if err != nil {
		if errors.Is(err, ErrNoBundle) {
			nethttp.NotFound(w, r)
			return
		}
		h.log().Error("resolve bundle", "path", r.URL.Path, "error", err)
		nethttp.Error(w, "internal server error", nethttp.StatusInternalServerError)
		return
	}

	a, err := storezip.Build(bundle, h.buildOpts...)
	if err != nil {
		status := nethttp.StatusInternalServerError
		if errors.Is(err, storezip.ErrCapacityExceeded) || errors.Is(err, storezip.ErrDuplicateName) {
			status = nethttp.StatusUnprocessableEntity
		}
		h.log().Warn("build archive", "name", name, "error", err)
		nethttp.Error(w, err.Error(), status)
		return
	}

	if name == "" {
		name = "bundle"
	}
	w.Header().Set("Content-Type", storezip.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name + ".zip"}))
	w.Header().Set("ETag", `"`+a.Digest().String()+`"`)
	h.metrics.observeArchive(a.Size())
	h.log().Debug("serving archive", "name", name, "entries", a.Len(), "size", a.Size())
	nethttp.ServeContent(w, r, "", time.Time{}, a.NewReader())
}
