package knowledge

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// KeywordHit is one BM25 result.
type KeywordHit struct {
	ChunkID string
	DocPath string
	Text    string
	Score   float64
}

// KeywordIndex provides BM25 full-text search over knowledge chunks.
type KeywordIndex struct {
	index bleve.Index
	path  string
}

// NewKeywordIndex opens or creates the index at path. A corrupted index is
// deleted and rebuilt; the registry rows flip back to pending on the next
// ingest pass so nothing is lost permanently.
func NewKeywordIndex(path string) (*KeywordIndex, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildChunkMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create keyword index: %w", err)
		}
	} else if err != nil {
		if index != nil {
			index.Close()
		}
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return nil, fmt.Errorf("failed to remove corrupted keyword index: %w", rmErr)
		}
		index, err = bleve.New(path, buildChunkMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate keyword index: %w", err)
		}
	}
	return &KeywordIndex{index: index, path: path}, nil
}

// NewMemoryKeywordIndex builds an in-memory index. Test and ephemeral use.
func NewMemoryKeywordIndex() (*KeywordIndex, error) {
	index, err := bleve.NewMemOnly(buildChunkMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory keyword index: %w", err)
	}
	return &KeywordIndex{index: index}, nil
}

func buildChunkMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	chunkMapping := bleve.NewDocumentMapping()

	docField := bleve.NewTextFieldMapping()
	docField.Analyzer = keyword.Name
	docField.Store = true
	chunkMapping.AddFieldMappingsAt("doc", docField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	chunkMapping.AddFieldMappingsAt("text", textField)

	indexMapping.DefaultMapping = chunkMapping
	return indexMapping
}

type chunkDoc struct {
	Doc  string `json:"doc"`
	Text string `json:"text"`
}

// IndexChunks adds (or replaces) chunks in one batch.
func (k *KeywordIndex) IndexChunks(chunks []Chunk) error {
	batch := k.index.NewBatch()
	for _, chunk := range chunks {
		if err := batch.Index(chunk.ID, chunkDoc{Doc: chunk.DocPath, Text: chunk.Text}); err != nil {
			return fmt.Errorf("failed to batch chunk %s: %w", chunk.ID, err)
		}
	}
	if err := k.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index chunk batch: %w", err)
	}
	return nil
}

// DeleteChunks removes chunk IDs in one batch.
func (k *KeywordIndex) DeleteChunks(ids []string) error {
	batch := k.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := k.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete chunk batch: %w", err)
	}
	return nil
}

// Search runs a BM25 match query and returns up to limit hits with their
// stored text.
func (k *KeywordIndex) Search(queryText string, limit int) ([]KeywordHit, error) {
	query := bleve.NewMatchQuery(queryText)
	query.SetField("text")

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"doc", "text"}

	res, err := k.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	hits := make([]KeywordHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		kh := KeywordHit{ChunkID: hit.ID, Score: hit.Score}
		if doc, ok := hit.Fields["doc"].(string); ok {
			kh.DocPath = doc
		}
		if text, ok := hit.Fields["text"].(string); ok {
			kh.Text = text
		}
		hits = append(hits, kh)
	}
	return hits, nil
}

// Close closes the underlying index.
func (k *KeywordIndex) Close() error {
	return k.index.Close()
}
