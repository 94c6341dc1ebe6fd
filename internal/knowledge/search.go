package knowledge

import (
	"context"
	"fmt"
	"sort"

	"github.com/skanderbz/tutord/internal/logging"
	"github.com/skanderbz/tutord/internal/provider"
)

// rrfK is the standard reciprocal-rank-fusion damping constant.
const rrfK = 60

// Searcher fuses keyword and vector retrieval into one ranked result set.
// It implements provider.Retriever. Either side may be nil or failing;
// search only errors when no backend produced anything usable.
type Searcher struct {
	keyword *KeywordIndex
	vector  *VectorStore
	log     *logging.Logger
}

// NewSearcher builds a hybrid searcher. Pass a nil vector store to run
// keyword-only (no embedding backend configured).
func NewSearcher(keyword *KeywordIndex, vector *VectorStore, log *logging.Logger) *Searcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Searcher{keyword: keyword, vector: vector, log: log.Component("search")}
}

type fusedHit struct {
	chunkID string
	docPath string
	text    string
	score   float64
}

// Search implements provider.Retriever using reciprocal rank fusion over
// both backends' rankings.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]provider.Document, error) {
	if k <= 0 {
		k = 4
	}

	fused := make(map[string]*fusedHit)
	backends := 0

	if s.keyword != nil {
		hits, err := s.keyword.Search(query, k)
		if err != nil {
			s.log.Warn().Err(err).Msg("keyword search failed, continuing with vector only")
		} else {
			backends++
			for rank, hit := range hits {
				fuse(fused, hit.ChunkID, hit.DocPath, hit.Text, rank)
			}
		}
	}

	if s.vector != nil {
		hits, err := s.vector.Query(ctx, query, k)
		if err != nil {
			s.log.Warn().Err(err).Msg("vector search failed, continuing with keyword only")
		} else {
			backends++
			for rank, hit := range hits {
				fuse(fused, hit.ChunkID, hit.DocPath, hit.Text, rank)
			}
		}
	}

	if backends == 0 {
		return nil, fmt.Errorf("no retrieval backend available")
	}

	ranked := make([]*fusedHit, 0, len(fused))
	for _, hit := range fused {
		ranked = append(ranked, hit)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].chunkID < ranked[j].chunkID
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	docs := make([]provider.Document, 0, len(ranked))
	for _, hit := range ranked {
		docs = append(docs, provider.Document{
			Text:   hit.text,
			Source: hit.docPath,
			Score:  hit.score,
		})
	}
	return docs, nil
}

func fuse(fused map[string]*fusedHit, chunkID, docPath, text string, rank int) {
	contribution := 1.0 / float64(rrfK+rank+1)
	if existing, ok := fused[chunkID]; ok {
		existing.score += contribution
		if existing.text == "" {
			existing.text = text
		}
		return
	}
	fused[chunkID] = &fusedHit{
		chunkID: chunkID,
		docPath: docPath,
		text:    text,
		score:   contribution,
	}
}
