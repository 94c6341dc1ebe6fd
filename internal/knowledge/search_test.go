package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedding maps text onto a two-dimensional unit vector keyed on one
// word, so similarity rankings are fully deterministic.
func fakeEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(strings.ToLower(text), "loop") {
		return []float32{1, 0}, nil
	}
	return []float32{0, 1}, nil
}

func testChunks() []Chunk {
	return []Chunk{
		{ID: "go/loops.md#0", DocPath: "go/loops.md", Ordinal: 0, Text: "A for loop repeats a block of statements."},
		{ID: "go/errors.md#0", DocPath: "go/errors.md", Ordinal: 0, Text: "Errors are returned as values and checked explicitly."},
		{ID: "go/recursion.md#0", DocPath: "go/recursion.md", Ordinal: 0, Text: "Recursion means a function calls itself."},
	}
}

func TestSearchKeywordOnly(t *testing.T) {
	keyword, err := NewMemoryKeywordIndex()
	require.NoError(t, err)
	defer keyword.Close()
	require.NoError(t, keyword.IndexChunks(testChunks()))

	s := NewSearcher(keyword, nil, nil)

	docs, err := s.Search(context.Background(), "loop", 4)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "go/loops.md", docs[0].Source)
	assert.Contains(t, docs[0].Text, "for loop")
	assert.Greater(t, docs[0].Score, 0.0)
}

func TestSearchFusesBothBackends(t *testing.T) {
	keyword, err := NewMemoryKeywordIndex()
	require.NoError(t, err)
	defer keyword.Close()
	require.NoError(t, keyword.IndexChunks(testChunks()))

	vector, err := NewMemoryVectorStore(fakeEmbedding)
	require.NoError(t, err)
	require.NoError(t, vector.AddChunks(context.Background(), testChunks()))

	s := NewSearcher(keyword, vector, nil)

	docs, err := s.Search(context.Background(), "loop", 2)
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	// The loops chunk tops both rankings so fusion puts it first, ahead
	// of anything only one backend surfaced.
	assert.Equal(t, "go/loops.md", docs[0].Source)
	if len(docs) > 1 {
		assert.Greater(t, docs[0].Score, docs[1].Score)
	}
	assert.LessOrEqual(t, len(docs), 2)
}

func TestSearchServesKeywordWhenVectorIngestFails(t *testing.T) {
	keyword, err := NewMemoryKeywordIndex()
	require.NoError(t, err)
	defer keyword.Close()
	require.NoError(t, keyword.IndexChunks(testChunks()))

	failing := func(ctx context.Context, text string) ([]float32, error) {
		return nil, assert.AnError
	}
	vector, err := NewMemoryVectorStore(failing)
	require.NoError(t, err)
	// Nothing makes it into the collection, so the vector side is empty.
	require.Error(t, vector.AddChunks(context.Background(), testChunks()[:1]))

	s := NewSearcher(keyword, vector, nil)

	docs, err := s.Search(context.Background(), "recursion", 4)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "go/recursion.md", docs[0].Source)
}

func TestSearchNoBackendsErrors(t *testing.T) {
	s := NewSearcher(nil, nil, nil)

	_, err := s.Search(context.Background(), "anything", 4)
	assert.Error(t, err)
}

func TestSearchDefaultsResultCount(t *testing.T) {
	keyword, err := NewMemoryKeywordIndex()
	require.NoError(t, err)
	defer keyword.Close()
	require.NoError(t, keyword.IndexChunks(testChunks()))

	// k <= 0 falls back to a sane default rather than returning nothing.
	docs, err := NewSearcher(keyword, nil, nil).Search(context.Background(), "errors", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
}
