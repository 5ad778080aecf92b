package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
)

// app carries state shared by all subcommands.
type app struct {
	verbose bool

	// clientOpts are appended to every client the commands create.
	clientOpts []storezip.Option
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storezip",
		Short: "Build uncompressed ZIP archives from text bundles",
		Long: `storezip packs files and bundle manifests into stored (uncompressed)
ZIP archives that any unzip tool can extract.

Archives can be written to a file, pushed to an OCI registry, or uploaded
to an HTTP import endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log build and delivery details to stderr")

	cmd.AddCommand(newBuildCmd(a), newPushCmd(a), newUploadCmd(a), newFetchCmd(a), newInspectCmd(a), newTagCmd(a), newServeCmd(a))
	return cmd
}

// logger returns a text logger on the command's stderr.
func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// client creates a storezip client with the shared options plus opts.
func (a *app) client(cmd *cobra.Command, in *inputFlags, opts ...storezip.Option) (*storezip.Client, error) {
	all := []storezip.Option{
		storezip.WithLogger(a.logger(cmd)),
		storezip.WithBuildOptions(in.buildOptions()...),
	}
	all = append(all, opts...)
	all = append(all, a.clientOpts...)
	return storezip.NewClient(all...)
}
