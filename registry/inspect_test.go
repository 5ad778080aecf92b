package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newMemoryClient(t)
	a := testArchive(t)

	desc, err := c.Push(ctx, testRepo+":v1", a,
		PushWithFilename("session.zip"),
		PushWithAnnotations(map[string]string{"org.example.session": "abc"}))
	require.NoError(t, err)

	res, err := c.Inspect(ctx, testRepo+":v1")
	require.NoError(t, err)
	assert.Equal(t, desc.Digest, res.Manifest.Digest)
	assert.Equal(t, a.Digest(), res.Archive.Digest)
	assert.Equal(t, a.Size(), res.Archive.Size)
	assert.Equal(t, "session.zip", res.Filename)
	assert.Equal(t, "abc", res.Annotations["org.example.session"])
	assert.False(t, res.Created.IsZero())
}

func TestInspectNotFound(t *testing.T) {
	t.Parallel()

	c, _ := newMemoryClient(t)
	_, err := c.Inspect(context.Background(), testRepo+":missing")
	require.ErrorIs(t, err, ErrNotFound)
}
