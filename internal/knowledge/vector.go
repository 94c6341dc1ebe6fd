package knowledge

import (
	"context"
	"fmt"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"google.golang.org/genai"
)

// Gemini embedding task types. Documents and queries embed into the same
// space but the API wants to know which side it is embedding.
const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
	queryPrefix      = "query: "

	defaultEmbeddingModel = "text-embedding-004"
	collectionName        = "tutor_knowledge"
)

// VectorHit is one similarity result.
type VectorHit struct {
	ChunkID    string
	DocPath    string
	Text       string
	Similarity float64
}

// VectorStore wraps a chromem collection holding one embedded document
// per chunk.
type VectorStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewVectorStore opens a persistent chromem database at path. embed may be
// any chromem embedding function; NewGeminiEmbedding and chromem's own
// OpenAI functions both fit.
func NewVectorStore(path string, embed chromem.EmbeddingFunc) (*VectorStore, error) {
	db, err := chromem.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector collection: %w", err)
	}
	return &VectorStore{db: db, collection: collection}, nil
}

// NewMemoryVectorStore builds an ephemeral store for tests.
func NewMemoryVectorStore(embed chromem.EmbeddingFunc) (*VectorStore, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector collection: %w", err)
	}
	return &VectorStore{db: db, collection: collection}, nil
}

// AddChunks embeds and stores chunks. The doc path rides along as
// metadata so per-document deletion stays possible.
func (v *VectorStore) AddChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:       chunk.ID,
			Content:  chunk.Text,
			Metadata: map[string]string{"doc": chunk.DocPath},
		})
	}
	if err := v.collection.AddDocuments(ctx, docs, 2); err != nil {
		return fmt.Errorf("failed to add chunks to vector store: %w", err)
	}
	return nil
}

// DeleteDoc removes every chunk belonging to docPath.
func (v *VectorStore) DeleteDoc(ctx context.Context, docPath string) error {
	if v.collection.Count() == 0 {
		return nil
	}
	if err := v.collection.Delete(ctx, map[string]string{"doc": docPath}, nil); err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}
	return nil
}

// Query returns up to limit chunks nearest to the query text.
func (v *VectorStore) Query(ctx context.Context, queryText string, limit int) ([]VectorHit, error) {
	// chromem rejects nResults greater than the collection size.
	if count := v.collection.Count(); count < limit {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	results, err := v.collection.Query(ctx, queryPrefix+queryText, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	hits := make([]VectorHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, VectorHit{
			ChunkID:    res.ID,
			DocPath:    res.Metadata["doc"],
			Text:       res.Content,
			Similarity: float64(res.Similarity),
		})
	}
	return hits, nil
}

// NewGeminiEmbedding adapts the Gemini embedding API to chromem's
// embedding function contract. Texts carrying the query prefix embed as
// queries, everything else as documents.
func NewGeminiEmbedding(client *genai.Client, model string) chromem.EmbeddingFunc {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return func(ctx context.Context, text string) ([]float32, error) {
		taskType := taskTypeDocument
		if strings.HasPrefix(text, queryPrefix) {
			taskType = taskTypeQuery
			text = strings.TrimPrefix(text, queryPrefix)
		}

		contents := []*genai.Content{{Parts: []*genai.Part{{Text: text}}}}
		res, err := client.Models.EmbedContent(ctx, model, contents, &genai.EmbedContentConfig{
			TaskType: taskType,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini embedding failed: %w", err)
		}
		if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
			return nil, fmt.Errorf("gemini returned no embedding")
		}
		return res.Embeddings[0].Values, nil
	}
}
