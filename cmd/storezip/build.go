package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Write a bundle as a ZIP file",
		Example: `  storezip build ./site -o site.zip
  storezip build -m bundle.yaml -o - > bundle.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := in.collect(cmd.Context(), args)
			if err != nil {
				return err
			}
			c, err := a.client(cmd, &in)
			if err != nil {
				return err
			}
			archive, err := c.Archive(bundle)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = archive.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := writeFile(output, archive); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s: %d entries, %d bytes\n", output, archive.Len(), archive.Size())
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "bundle.zip", `output file, or "-" for stdout`)
	return cmd
}

// writeFile writes w to path through a temporary file in the same directory.
func writeFile(path string, w io.WriterTo) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".storezip-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = w.WriteTo(f); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
