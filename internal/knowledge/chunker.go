package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Chunk is one indexable slice of a source document.
type Chunk struct {
	ID      string // deterministic: <doc path>#<ordinal>
	DocPath string
	Ordinal int
	Text    string
}

// Chunker splits document text into fixed-size overlapping windows.
// Sizes are in runes so multi-byte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Overlap must be smaller than size; config
// validation upstream guarantees it, so this only guards direct misuse.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split chunks the document. Window boundaries prefer the last paragraph
// or sentence break inside the window so chunks end at natural seams when
// one is near.
func (c *Chunker) Split(docPath, text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		window := runes[start:end]
		if end < len(runes) {
			// Prefer ending at a natural seam when one is past the
			// overlap region; cut > overlap keeps start advancing.
			if cut := lastBreak(window); cut > c.overlap {
				window = window[:cut]
				end = start + cut
			}
		}

		chunkText := strings.TrimSpace(string(window))
		if chunkText != "" {
			chunks = append(chunks, Chunk{
				ID:      fmt.Sprintf("%s#%d", docPath, len(chunks)),
				DocPath: docPath,
				Ordinal: len(chunks),
				Text:    chunkText,
			})
		}

		if end == len(runes) {
			break
		}
		start = end - c.overlap
	}
	return chunks
}

// lastBreak finds the best split point inside a window: a blank line,
// then a newline, then a sentence end. 0 means no break found.
func lastBreak(window []rune) int {
	s := string(window)
	for _, sep := range []string{"\n\n", "\n", ". "} {
		if idx := strings.LastIndex(s, sep); idx > 0 {
			return len([]rune(s[:idx+len(sep)]))
		}
	}
	return 0
}

// hashText returns a stable content hash used for change detection.
func hashText(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
