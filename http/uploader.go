package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	nethttp "net/http"
	"net/textproto"
	"strings"

	storezip "github.com/meigma/storezip/core"
)

// DefaultFieldName is the multipart field that carries the archive.
const DefaultFieldName = "file"

// maxErrorBody bounds how much of a rejection body is kept in the error.
const maxErrorBody = 512

// Uploader submits archives to an import endpoint.
type Uploader struct {
	endpoint string
	client   *nethttp.Client
	headers  nethttp.Header
	field    string
	logger   *slog.Logger
	metrics  *Metrics
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) UploaderOption {
	return func(u *Uploader) {
		u.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) UploaderOption {
	return func(u *Uploader) {
		if headers == nil {
			return
		}
		u.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) UploaderOption {
	return func(u *Uploader) {
		if u.headers == nil {
			u.headers = make(nethttp.Header)
		}
		u.headers.Set(key, value)
	}
}

// WithFieldName sets the multipart field name. The default is DefaultFieldName.
func WithFieldName(name string) UploaderOption {
	return func(u *Uploader) {
		u.field = name
	}
}

// WithUploaderLogger sets the logger for upload diagnostics.
func WithUploaderLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) {
		u.logger = logger
	}
}

// WithUploaderMetrics records uploads in m.
func WithUploaderMetrics(m *Metrics) UploaderOption {
	return func(u *Uploader) {
		u.metrics = m
	}
}

// NewUploader creates an Uploader that posts to endpoint.
func NewUploader(endpoint string, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		endpoint: endpoint,
		client:   nethttp.DefaultClient,
		field:    DefaultFieldName,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = nethttp.DefaultClient
	}
	return u
}

// log returns the logger, falling back to a discard logger if nil.
func (u *Uploader) log() *slog.Logger {
	if u.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return u.logger
}

// Upload posts a as a multipart/form-data file named filename.
// A non-2xx response returns ErrImportRejected with the status and the
// start of the response body.
func (u *Uploader) Upload(ctx context.Context, filename string, a *storezip.Archive) error {
	if a == nil {
		return errors.New("upload: archive is nil")
	}

	body, contentType, err := u.encodeForm(filename, a)
	if err != nil {
		return err
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, u.endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range u.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentType)

	u.metrics.observeArchive(a.Size())
	resp, err := u.client.Do(req)
	if err != nil {
		u.metrics.observeUpload(uploadError)
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.metrics.observeUpload(uploadRejected)
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", ErrImportRejected, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	u.metrics.observeUpload(uploadOK)

	u.log().Info("uploaded archive", "endpoint", u.endpoint, "filename", filename, "size", a.Size(), "digest", a.Digest().String())
	return nil
}

// encodeForm writes a into a single-part multipart body.
func (u *Uploader) encodeForm(filename string, a *storezip.Archive) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     u.field,
		"filename": filename,
	}))
	header.Set("Content-Type", storezip.MediaType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := a.WriteTo(part); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}
