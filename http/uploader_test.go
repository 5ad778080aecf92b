package http

import (
	"bytes"
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storezip "github.com/meigma/storezip/core"
)

// importServer records the single uploaded file of each request.
type importServer struct {
	mu       sync.Mutex
	filename string
	ctype    string
	auth     string
	data     []byte
}

func (s *importServer) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		nethttp.Error(w, "missing file", nethttp.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.filename = header.Filename
	s.ctype = header.Header.Get("Content-Type")
	s.auth = r.Header.Get("Authorization")
	s.data = data
	s.mu.Unlock()
	w.WriteHeader(nethttp.StatusCreated)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	recv := &importServer{}
	srv := httptest.NewServer(recv)
	defer srv.Close()

	a, err := storezip.Build(storezip.Bundle{{Path: "a.txt", Content: "hello"}})
	require.NoError(t, err)

	u := NewUploader(srv.URL, WithClient(srv.Client()), WithHeader("Authorization", "Bearer t0k"))
	require.NoError(t, u.Upload(context.Background(), "project.zip", a))

	recv.mu.Lock()
	defer recv.mu.Unlock()
	assert.Equal(t, "project.zip", recv.filename)
	assert.Equal(t, "application/zip", recv.ctype)
	assert.Equal(t, "Bearer t0k", recv.auth)
	assert.Equal(t, a.Bytes(), recv.data)

	zr, err := zip.NewReader(bytes.NewReader(recv.data), int64(len(recv.data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.txt", zr.File[0].Name)
}

func TestUploadFieldName(t *testing.T) {
	t.Parallel()

	var field string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for name := range r.MultipartForm.File {
			field = name
		}
	}))
	defer srv.Close()

	a, err := storezip.Build(nil)
	require.NoError(t, err)
	u := NewUploader(srv.URL, WithFieldName("archive"))
	require.NoError(t, u.Upload(context.Background(), "empty.zip", a))
	assert.Equal(t, "archive", field)
}

func TestUploadRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		nethttp.Error(w, "archive is not a valid project", nethttp.StatusBadRequest)
	}))
	defer srv.Close()

	a, err := storezip.Build(nil)
	require.NoError(t, err)

	err = NewUploader(srv.URL).Upload(context.Background(), "x.zip", a)
	require.ErrorIs(t, err, ErrImportRejected)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "archive is not a valid project")
}

func TestUploadNilArchive(t *testing.T) {
	t.Parallel()

	err := NewUploader("http://127.0.0.1:0").Upload(context.Background(), "x.zip", nil)
	require.Error(t, err)
}

func TestUploadCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, err := storezip.Build(nil)
	require.NoError(t, err)

	err = NewUploader(srv.URL).Upload(ctx, "x.zip", a)
	require.ErrorIs(t, err, context.Canceled)
}
