package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
	ziphttp "github.com/meigma/storezip/http"
)

func newUploadCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		filename string
		field    string
		headers  []string
	)
	cmd := &cobra.Command{
		Use:     "upload <endpoint> [paths...]",
		Short:   "Build a bundle and upload it to an import endpoint",
		Example: `  storezip upload https://example.com/api/import ./project -H "Authorization: Bearer $TOKEN"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := in.collect(cmd.Context(), args[1:])
			if err != nil {
				return err
			}

			upOpts := []ziphttp.UploaderOption{ziphttp.WithFieldName(field)}
			for _, h := range headers {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q: want \"Key: value\"", h)
				}
				upOpts = append(upOpts, ziphttp.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
			}

			c, err := a.client(cmd, &in,
				storezip.WithUploadEndpoint(args[0]),
				storezip.WithUploaderOptions(upOpts...))
			if err != nil {
				return err
			}
			if err := c.Upload(cmd.Context(), filename, bundle); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "uploaded %s to %s\n", filename, args[0])
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&filename, "filename", "bundle.zip", "file name sent with the upload")
	cmd.Flags().StringVar(&field, "field", ziphttp.DefaultFieldName, "multipart field name")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `extra request header "Key: value"; repeatable`)
	return cmd
}
