package knowledge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := OpenRegistry(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func testFile(path, hash string) FileInfo {
	return FileInfo{Path: path, AbsPath: "/data/" + path, Hash: hash, SizeBytes: 10, MtimeUnix: 1700000000}
}

func TestRegistryGetUnknownPath(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Get(context.Background(), "missing.md")
	assert.ErrorIs(t, err, ErrDocNotFound)
}

func TestRegistryMarkIndexedRoundTrip(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.MarkIndexed(ctx, testFile("notes/a.md", "h1"), 3))

	rec, err := r.Get(ctx, "notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, StatusIndexed, rec.Status)
	assert.Equal(t, "h1", rec.Hash)
	assert.Equal(t, 3, rec.ChunkCount)
	assert.NotZero(t, rec.IndexedAt)
	assert.Empty(t, rec.IndexError)
}

func TestRegistryNeedsIngest(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	file := testFile("a.md", "h1")

	needs, err := r.NeedsIngest(ctx, file)
	require.NoError(t, err)
	assert.True(t, needs, "unknown document must be ingested")

	require.NoError(t, r.MarkIndexed(ctx, file, 2))

	needs, err = r.NeedsIngest(ctx, file)
	require.NoError(t, err)
	assert.False(t, needs, "unchanged document must be skipped")

	changed := testFile("a.md", "h2")
	needs, err = r.NeedsIngest(ctx, changed)
	require.NoError(t, err)
	assert.True(t, needs, "changed hash must trigger re-ingest")

	require.NoError(t, r.MarkFailed(ctx, changed, errors.New("boom")))
	needs, err = r.NeedsIngest(ctx, changed)
	require.NoError(t, err)
	assert.True(t, needs, "failed document must be retried")
}

func TestRegistryMarkFailedRecordsError(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.MarkFailed(ctx, testFile("bad.md", "h1"), errors.New("unreadable")))

	rec, err := r.Get(ctx, "bad.md")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "unreadable", rec.IndexError)
}

func TestRegistryDeleteReturnsPriorRecord(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.MarkIndexed(ctx, testFile("a.md", "h1"), 5))

	rec, err := r.Delete(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.ChunkCount)

	_, err = r.Get(ctx, "a.md")
	assert.ErrorIs(t, err, ErrDocNotFound)

	_, err = r.Delete(ctx, "a.md")
	assert.ErrorIs(t, err, ErrDocNotFound)
}

func TestRegistryListOrderedByPath(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.MarkIndexed(ctx, testFile("b.md", "h1"), 1))
	require.NoError(t, r.MarkIndexed(ctx, testFile("a.md", "h2"), 2))

	records, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.md", records[0].Path)
	assert.Equal(t, "b.md", records[1].Path)
}
