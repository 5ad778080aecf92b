package storezip

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// batchConfig holds configuration for BuildAll.
type batchConfig struct {
	concurrency int
	buildOpts   []BuildOption
}

// BatchOption configures BuildAll.
type BatchOption func(*batchConfig)

// BatchWithConcurrency sets how many bundles are encoded at once.
// Values <= 0 use GOMAXPROCS.
func BatchWithConcurrency(n int) BatchOption {
	return func(cfg *batchConfig) {
		cfg.concurrency = n
	}
}

// BatchWithBuildOptions applies opts to every Build call.
func BatchWithBuildOptions(opts ...BuildOption) BatchOption {
	return func(cfg *batchConfig) {
		cfg.buildOpts = append(cfg.buildOpts, opts...)
	}
}

// BuildAll builds one archive per bundle concurrently. The result has the
// same order as bundles. The first error cancels the remaining work and is
// returned with the index of the failing bundle.
func BuildAll(ctx context.Context, bundles []Bundle, opts ...BatchOption) ([]*Archive, error) {
	cfg := batchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	workers := cfg.concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	archives := make([]*Archive, len(bundles))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, bundle := range bundles {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := Build(bundle, cfg.buildOpts...)
			if err != nil {
				return fmt.Errorf("bundle %d: %w", i, err)
			}
			archives[i] = a
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return archives, nil
}
