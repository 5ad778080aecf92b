package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
)

// registryFlags configure registry access for commands that only read.
type registryFlags struct {
	plainHTTP bool
	anonymous bool
	cacheDir  string
}

func (f *registryFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.plainHTTP, "plain-http", false, "use HTTP instead of HTTPS")
	cmd.Flags().BoolVar(&f.anonymous, "anonymous", false, "ignore docker credentials")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "cache fetched archives in this directory")
}

func (f *registryFlags) options() []storezip.Option {
	opts := []storezip.Option{storezip.WithPlainHTTP(f.plainHTTP)}
	if f.anonymous {
		opts = append(opts, storezip.WithAnonymous())
	} else {
		opts = append(opts, storezip.WithDockerConfig())
	}
	if f.cacheDir != "" {
		opts = append(opts, storezip.WithCacheDir(f.cacheDir))
	}
	return opts
}

func newFetchCmd(a *app) *cobra.Command {
	var (
		reg     registryFlags
		output  string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:     "fetch <ref>",
		Short:   "Download a pushed archive",
		Example: `  storezip fetch ghcr.io/acme/session:v1 -o session.zip`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd, &inputFlags{}, reg.options()...)
			if err != nil {
				return err
			}
			var opts []storezip.FetchOption
			if refresh {
				opts = append(opts, storezip.WithSkipCache())
			}
			data, err := c.Fetch(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeFile(output, bytes.NewReader(data)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s: %d bytes\n", output, len(data))
			return nil
		},
	}
	reg.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "bundle.zip", `output file, or "-" for stdout`)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "download even when the archive is cached")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var reg registryFlags
	cmd := &cobra.Command{
		Use:   "inspect <ref>",
		Short: "Show metadata of a pushed archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd, &inputFlags{}, reg.options()...)
			if err != nil {
				return err
			}
			res, err := c.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "manifest:  %s\n", res.Manifest.Digest)
			fmt.Fprintf(out, "archive:   %s\n", res.Archive.Digest)
			fmt.Fprintf(out, "size:      %d\n", res.Archive.Size)
			if res.Filename != "" {
				fmt.Fprintf(out, "filename:  %s\n", res.Filename)
			}
			if !res.Created.IsZero() {
				fmt.Fprintf(out, "created:   %s\n", res.Created.Format(time.RFC3339))
			}
			return nil
		},
	}
	reg.register(cmd)
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	var reg registryFlags
	cmd := &cobra.Command{
		Use:   "tag <ref> <source>",
		Short: "Tag a pushed archive",
		Long: `tag points the tag in <ref> at the manifest <source> resolves to.
<source> is an existing tag or manifest digest in the same repository.
No archive content is transferred.`,
		Example: `  storezip tag ghcr.io/acme/session:stable v1`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd, &inputFlags{}, reg.options()...)
			if err != nil {
				return err
			}
			if err := c.Tag(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "tagged %s\n", args[0])
			return nil
		},
	}
	reg.register(cmd)
	return cmd
}
