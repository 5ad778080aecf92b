package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/memory"

	"github.com/meigma/storezip"
	"github.com/meigma/storezip/registry"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, a *app, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func zipNames(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	src := writeTree(t, map[string]string{
		"index.html":   "<h1>hi</h1>",
		"css/site.css": "body{}",
	})
	manifest := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("files:\n  NOTES.md: \"# Notes\"\n"), 0o644))
	out := filepath.Join(t.TempDir(), "site.zip")

	_, stderr, err := run(t, &app{}, "build", src, "-m", manifest, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "3 entries")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"css/site.css": "body{}",
		"index.html":   "<h1>hi</h1>",
		"NOTES.md":     "# Notes",
	}, zipNames(t, data))
}

func TestBuildCommandStdout(t *testing.T) {
	t.Parallel()

	src := writeTree(t, map[string]string{"a.txt": "hello"})

	stdout, _, err := run(t, &app{}, "build", src, "-o", "-")
	require.NoError(t, err)

	want, err := storezip.Archive(storezip.Bundle{{Path: "a.txt", Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, want.Bytes(), []byte(stdout))
}

func TestBuildCommandSingleFile(t *testing.T) {
	t.Parallel()

	src := writeTree(t, map[string]string{"nested/readme.txt": "r"})

	stdout, _, err := run(t, &app{}, "build", filepath.Join(src, "nested", "readme.txt"), "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"readme.txt": "r"}, zipNames(t, []byte(stdout)))
}

func TestBuildCommandDuplicates(t *testing.T) {
	t.Parallel()

	manifest := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("files:\n  a.txt: one\n"), 0o644))

	_, _, err := run(t, &app{}, "build", "-m", manifest, "-m", manifest, "-o", "-")
	require.ErrorIs(t, err, storezip.ErrDuplicateName)

	stdout, _, err := run(t, &app{}, "build", "-m", manifest, "-m", manifest, "--allow-duplicates", "-o", "-")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func TestBuildCommandVerbose(t *testing.T) {
	t.Parallel()

	src := writeTree(t, map[string]string{"a.txt": "hello"})

	_, stderr, err := run(t, &app{}, "build", src, "-o", "-", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "archive built")
}

func TestBuildCommandMissingPath(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, &app{}, "build", filepath.Join(t.TempDir(), "missing"), "-o", "-")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPushCommand(t *testing.T) {
	t.Parallel()

	store := memory.New()
	a := &app{clientOpts: []storezip.Option{
		storezip.WithRegistryOptions(registry.WithTarget(func(string) (oras.Target, error) {
			return store, nil
		})),
	}}
	src := writeTree(t, map[string]string{"a.txt": "hello"})

	stdout, _, err := run(t, a, "push", "localhost:5000/demo/session:v1", src, "--anonymous", "-t", "latest")
	require.NoError(t, err)

	desc, err := store.Resolve(context.Background(), "latest")
	require.NoError(t, err)
	assert.Equal(t, desc.Digest.String()+"\n", stdout)
}

func TestPushCommandRequiresRef(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, &app{}, "push")
	require.Error(t, err)
}

func TestUploadCommand(t *testing.T) {
	t.Parallel()

	type upload struct {
		field, filename, token string
		data                   []byte
	}
	got := make(chan upload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("archive")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		got <- upload{field: "archive", filename: hdr.Filename, token: r.Header.Get("X-Token"), data: data}
	}))
	defer srv.Close()

	src := writeTree(t, map[string]string{"a.txt": "hello"})
	_, stderr, err := run(t, &app{}, "upload", srv.URL, src,
		"--field", "archive", "--filename", "project.zip", "-H", "X-Token: s3cret")
	require.NoError(t, err)
	assert.Contains(t, stderr, "uploaded project.zip")

	u := <-got
	assert.Equal(t, "project.zip", u.filename)
	assert.Equal(t, "s3cret", u.token)
	assert.Equal(t, map[string]string{"a.txt": "hello"}, zipNames(t, u.data))
}

func TestUploadCommandBadHeader(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, &app{}, "upload", "http://127.0.0.1:0", "-H", "no-colon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid header")
}

func TestFetchAndInspectCommands(t *testing.T) {
	t.Parallel()

	store := memory.New()
	a := &app{clientOpts: []storezip.Option{
		storezip.WithRegistryOptions(registry.WithTarget(func(string) (oras.Target, error) {
			return store, nil
		})),
	}}
	src := writeTree(t, map[string]string{"a.txt": "hello"})
	const ref = "localhost:5000/demo/session:v1"

	_, _, err := run(t, a, "push", ref, src, "--anonymous", "--filename", "demo.zip")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "fetched.zip")
	_, _, err = run(t, a, "fetch", ref, "--anonymous", "--cache-dir", t.TempDir(), "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.txt": "hello"}, zipNames(t, data))

	stdout, _, err := run(t, a, "inspect", ref, "--anonymous")
	require.NoError(t, err)
	assert.Contains(t, stdout, "filename:  demo.zip")
	assert.Contains(t, stdout, "size:      "+strconv.Itoa(len(data)))
}

func TestTagCommand(t *testing.T) {
	t.Parallel()

	store := memory.New()
	a := &app{clientOpts: []storezip.Option{
		storezip.WithRegistryOptions(registry.WithTarget(func(string) (oras.Target, error) {
			return store, nil
		})),
	}}
	src := writeTree(t, map[string]string{"a.txt": "hello"})

	pushed, _, err := run(t, a, "push", "localhost:5000/demo/session:v1", src, "--anonymous")
	require.NoError(t, err)

	_, stderr, err := run(t, a, "tag", "localhost:5000/demo/session:stable", "v1", "--anonymous")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tagged localhost:5000/demo/session:stable")

	desc, err := store.Resolve(context.Background(), "stable")
	require.NoError(t, err)
	assert.Equal(t, pushed, desc.Digest.String()+"\n")
}

func TestTagCommandErrors(t *testing.T) {
	t.Parallel()

	store := memory.New()
	a := &app{clientOpts: []storezip.Option{
		storezip.WithRegistryOptions(registry.WithTarget(func(string) (oras.Target, error) {
			return store, nil
		})),
	}}

	_, _, err := run(t, a, "tag", "localhost:5000/demo/session:stable")
	require.Error(t, err)

	_, _, err = run(t, a, "tag", "localhost:5000/demo/session:stable", "missing", "--anonymous")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestFetchCommandRefresh(t *testing.T) {
	t.Parallel()

	store := memory.New()
	a := &app{clientOpts: []storezip.Option{
		storezip.WithRegistryOptions(registry.WithTarget(func(string) (oras.Target, error) {
			return store, nil
		})),
	}}
	src := writeTree(t, map[string]string{"a.txt": "hello"})
	const ref = "localhost:5000/demo/session:v1"
	cacheDir := t.TempDir()

	_, _, err := run(t, a, "push", ref, src, "--anonymous")
	require.NoError(t, err)

	for _, extra := range [][]string{nil, {"--refresh"}} {
		out := filepath.Join(t.TempDir(), "fetched.zip")
		args := append([]string{"fetch", ref, "--anonymous", "--cache-dir", cacheDir, "-o", out}, extra...)
		_, _, err = run(t, a, args...)
		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a.txt": "hello"}, zipNames(t, data))
	}
}
