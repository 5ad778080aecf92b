package storezip

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAll(t *testing.T) {
	t.Parallel()

	bundles := make([]Bundle, 20)
	for i := range bundles {
		bundles[i] = Bundle{{Path: fmt.Sprintf("bundle-%d.txt", i), Content: fmt.Sprintf("content %d", i)}}
	}

	archives, err := BuildAll(context.Background(), bundles, BatchWithConcurrency(3))
	require.NoError(t, err)
	require.Len(t, archives, len(bundles))

	for i, a := range archives {
		want, err := Build(bundles[i])
		require.NoError(t, err)
		assert.Equal(t, want.Bytes(), a.Bytes(), "archive %d", i)
	}
}

func TestBuildAllAppliesBuildOptions(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	finished := 0
	progress := func(e ProgressEvent) {
		if e.Stage != StageFinished {
			return
		}
		mu.Lock()
		finished++
		mu.Unlock()
	}

	bundles := []Bundle{
		{{Path: "café.txt", Content: "x"}},
		{{Path: "naïve.txt", Content: "y"}},
	}
	archives, err := BuildAll(context.Background(), bundles,
		BatchWithBuildOptions(BuildWithUTF8Flag(true), BuildWithProgress(progress)))
	require.NoError(t, err)

	for _, a := range archives {
		assert.True(t, a.Entries()[0].UTF8)
	}
	assert.Equal(t, 2, finished)
}

func TestBuildAllError(t *testing.T) {
	t.Parallel()

	bundles := []Bundle{
		{{Path: "ok.txt", Content: "fine"}},
		{{Path: "dup.txt"}, {Path: "dup.txt"}},
	}
	archives, err := BuildAll(context.Background(), bundles)
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Contains(t, err.Error(), "bundle 1")
	assert.Nil(t, archives)
}

func TestBuildAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildAll(ctx, []Bundle{{{Path: "a.txt"}}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildAllEmpty(t *testing.T) {
	t.Parallel()

	archives, err := BuildAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, archives)
}
