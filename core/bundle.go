package storezip

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// File is a single named text buffer. Path is used verbatim as the entry
// name and is expected to be a forward-slash relative path.
type File struct {
	Path    string
	Content string
}

// Bundle is an ordered list of files. Entries are written in slice order.
type Bundle []File

// BundleFromMap returns a bundle with the entries of m sorted by path,
// giving map input a deterministic archive layout.
func BundleFromMap(m map[string]string) Bundle {
	b := make(Bundle, 0, len(m))
	for path, content := range m {
		b = append(b, File{Path: path, Content: content})
	}
	slices.SortFunc(b, func(x, y File) int {
		return strings.Compare(x.Path, y.Path)
	})
	return b
}

// Add appends a file to the bundle.
func (b *Bundle) Add(path, content string) {
	*b = append(*b, File{Path: path, Content: content})
}

// Paths returns the entry names in archive order.
func (b Bundle) Paths() []string {
	paths := make([]string, len(b))
	for i, f := range b {
		paths[i] = f.Path
	}
	return paths
}

// BundleFromFS collects every regular file in fsys, in lexical path order.
// Directories are walked but not recorded; symlinks and other irregular
// files are skipped.
func BundleFromFS(ctx context.Context, fsys fs.FS) (Bundle, error) {
	var b Bundle
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		b.Add(path, string(content))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
