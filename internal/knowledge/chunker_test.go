package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortDocumentIsOneChunk(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks := c.Split("notes/intro.md", "A short document about loops.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "notes/intro.md#0", chunks[0].ID)
	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.Equal(t, "A short document about loops.", chunks[0].Text)
}

func TestSplitEmptyDocument(t *testing.T) {
	c := NewChunker(1000, 200)

	assert.Nil(t, c.Split("a.md", ""))
	assert.Empty(t, c.Split("a.md", "   \n\t  "))
}

func TestSplitProducesOverlappingWindows(t *testing.T) {
	c := NewChunker(100, 20)
	text := strings.Repeat("x", 250)

	chunks := c.Split("big.txt", text)
	require.True(t, len(chunks) >= 3)

	// With no natural seams every window is full size and each chunk
	// repeats the tail of the previous one.
	assert.Equal(t, 100, len([]rune(chunks[0].Text)))
	assert.True(t, strings.HasPrefix(chunks[1].Text, chunks[0].Text[80:]))
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Ordinal)
		assert.Equal(t, "big.txt", ch.DocPath)
	}
}

func TestSplitPrefersParagraphSeams(t *testing.T) {
	c := NewChunker(100, 20)
	first := strings.Repeat("a", 60)
	second := strings.Repeat("b", 120)
	text := first + "\n\n" + second

	chunks := c.Split("seams.md", text)
	require.True(t, len(chunks) >= 2)
	// The first window (100 runes) contains the blank line at offset 60,
	// past the overlap, so the chunk ends at the paragraph break.
	assert.Equal(t, first, chunks[0].Text)
}

func TestSplitHandlesMultiByteText(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("日本語のテキスト。", 30)

	chunks := c.Split("unicode.txt", text)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.True(t, utf8Valid(ch.Text), "chunk split mid-rune: %q", ch.Text)
		assert.LessOrEqual(t, len([]rune(ch.Text)), 50)
	}
}

func utf8Valid(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}

func TestSplitAlwaysTerminates(t *testing.T) {
	// Pathological seam placement must not stall the window.
	c := NewChunker(10, 5)
	text := strings.Repeat(". ", 100)

	chunks := c.Split("dots.txt", text)
	assert.NotEmpty(t, chunks)
}
