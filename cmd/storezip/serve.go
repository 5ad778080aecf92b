package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/meigma/storezip"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		in   inputFlags
		addr string
		name string
	)
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Serve a bundle as a ZIP download",
		Long: `serve rebuilds the bundle from the given paths and manifests on every
request to /<name>.zip, so downloads always reflect the files on disk.
Prometheus metrics are exposed at /metrics.`,
		Example: `  storezip serve ./site --addr :8080 --name site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			c, err := a.client(cmd, &in, storezip.WithMetrics(reg))
			if err != nil {
				return err
			}
			mux := newServeMux(c, reg, name, func(ctx context.Context) (storezip.Bundle, error) {
				return in.collect(ctx, args)
			})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "serving http://%s%s\n", ln.Addr(), downloadPath(name))
			return serve(cmd.Context(), ln, mux)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&name, "name", "bundle", "download name; a trailing .zip is ignored")
	return cmd
}

// downloadPath returns the route for name. A trailing .zip on name is ignored.
func downloadPath(name string) string {
	return "/" + strings.TrimSuffix(name, ".zip") + ".zip"
}

// newServeMux routes /<name>.zip to the archive handler and /metrics to reg.
func newServeMux(c *storezip.Client, reg *prometheus.Registry, name string, load func(context.Context) (storezip.Bundle, error)) *http.ServeMux {
	path := downloadPath(name)
	name = strings.TrimSuffix(name, ".zip")
	mux := http.NewServeMux()
	mux.Handle(path, c.Handler(func(r *http.Request) (string, storezip.Bundle, error) {
		bundle, err := load(r.Context())
		if err != nil {
			return "", nil, err
		}
		return name, bundle, nil
	}))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// serve runs an HTTP server on ln until ctx is canceled.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
