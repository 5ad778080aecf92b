package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
)

func newPushCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		reg      registryFlags
		tags     []string
		filename string
	)
	cmd := &cobra.Command{
		Use:   "push <ref> [paths...]",
		Short: "Build a bundle and push it to an OCI registry",
		Example: `  storezip push ghcr.io/acme/session:v1 ./out
  storezip push --plain-http localhost:5000/demo:latest -m bundle.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			bundle, err := in.collect(cmd.Context(), args[1:])
			if err != nil {
				return err
			}

			c, err := a.client(cmd, &in, reg.options()...)
			if err != nil {
				return err
			}

			desc, err := c.Push(cmd.Context(), ref, bundle,
				storezip.PushWithTags(tags...),
				storezip.PushWithFilename(filename))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc.Digest)
			return nil
		},
	}
	in.register(cmd)
	reg.register(cmd)
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "additional tag; repeatable")
	cmd.Flags().StringVar(&filename, "filename", "bundle.zip", "title of the archive layer")
	return cmd
}
