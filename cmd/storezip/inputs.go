package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
)

// inputFlags select what goes into the bundle and how it is encoded.
type inputFlags struct {
	manifests       []string
	utf8Flag        bool
	allowDuplicates bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.manifests, "manifest", "m", nil, "bundle manifest (YAML) to include; repeatable")
	cmd.Flags().BoolVar(&f.utf8Flag, "utf8-flag", false, "mark non-ASCII entry names as UTF-8")
	cmd.Flags().BoolVar(&f.allowDuplicates, "allow-duplicates", false, "keep repeated paths instead of failing")
}

func (f *inputFlags) buildOptions() []storezip.BuildOption {
	opts := []storezip.BuildOption{storezip.BuildWithUTF8Flag(f.utf8Flag)}
	if f.allowDuplicates {
		opts = append(opts, storezip.BuildWithDuplicatePolicy(storezip.DuplicateAllow))
	}
	return opts
}

// collect assembles the bundle from paths followed by manifests.
//
// Directories contribute their regular files with paths relative to the
// directory. A regular file contributes itself under its base name.
func (f *inputFlags) collect(ctx context.Context, paths []string) (storezip.Bundle, error) {
	var bundle storezip.Bundle
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, err
			}
			bundle.Add(filepath.Base(p), string(data))
			continue
		}
		files, err := storezip.BundleFromFS(ctx, os.DirFS(p))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		bundle = append(bundle, files...)
	}
	for _, m := range f.manifests {
		files, err := loadManifest(m)
		if err != nil {
			return nil, err
		}
		bundle = append(bundle, files...)
	}
	return bundle, nil
}
