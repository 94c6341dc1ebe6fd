package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/skanderbz/tutord/internal/config"
	"github.com/skanderbz/tutord/internal/logging"
)

// Manager owns the knowledge base: the document registry, both indexes,
// and the ingestion pipeline that keeps them in sync with the data dir.
type Manager struct {
	dataDir  string
	chunker  *Chunker
	registry *Registry
	keyword  *KeywordIndex
	vector   *VectorStore
	searcher *Searcher
	watcher  *Watcher
	log      *logging.Logger
}

// NewManager opens all knowledge state under cfg.StateDir. embed may be
// nil, in which case retrieval runs keyword-only.
func NewManager(ctx context.Context, cfg config.KnowledgeConfig, embed chromem.EmbeddingFunc, log *logging.Logger) (*Manager, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.Component("knowledge")

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	registry, err := OpenRegistry(ctx, filepath.Join(cfg.StateDir, "registry.db"))
	if err != nil {
		return nil, err
	}

	keyword, err := NewKeywordIndex(filepath.Join(cfg.StateDir, "keyword.bleve"))
	if err != nil {
		registry.Close()
		return nil, err
	}

	var vector *VectorStore
	if embed != nil {
		vector, err = NewVectorStore(filepath.Join(cfg.StateDir, "vectors"), embed)
		if err != nil {
			registry.Close()
			keyword.Close()
			return nil, err
		}
	} else {
		log.Warn().Msg("no embedding backend configured, retrieval is keyword-only")
	}

	return &Manager{
		dataDir:  cfg.DataDir,
		chunker:  NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		registry: registry,
		keyword:  keyword,
		vector:   vector,
		searcher: NewSearcher(keyword, vector, log),
		log:      log,
	}, nil
}

// Searcher exposes the retrieval side of the knowledge base.
func (m *Manager) Searcher() *Searcher {
	return m.searcher
}

// Sync walks the data dir and brings the indexes up to date: changed or
// new documents are re-ingested, vanished documents are removed. Per-file
// failures are recorded and skipped, not fatal.
func (m *Manager) Sync(ctx context.Context) (ingested, removed int, err error) {
	files, err := WalkDataDir(m.dataDir)
	if err != nil {
		return 0, 0, err
	}

	present := make(map[string]bool, len(files))
	for _, file := range files {
		present[file.Path] = true

		needs, err := m.registry.NeedsIngest(ctx, file)
		if err != nil {
			return ingested, removed, err
		}
		if !needs {
			continue
		}
		if err := m.ingestFile(ctx, file); err != nil {
			m.log.Error().Str("doc", file.Path).Err(err).Msg("failed to ingest document")
			if markErr := m.registry.MarkFailed(ctx, file, err); markErr != nil {
				return ingested, removed, markErr
			}
			continue
		}
		ingested++
	}

	// Drop registry rows whose source files are gone.
	records, err := m.registry.List(ctx)
	if err != nil {
		return ingested, removed, err
	}
	for _, rec := range records {
		if present[rec.Path] {
			continue
		}
		if err := m.RemoveDoc(ctx, rec.Path); err != nil {
			m.log.Error().Str("doc", rec.Path).Err(err).Msg("failed to remove vanished document")
			continue
		}
		removed++
	}

	m.log.Info().Int("ingested", ingested).Int("removed", removed).
		Int("total", len(files)).Msg("knowledge sync complete")
	return ingested, removed, nil
}

// ingestFile chunks one document and writes it to both indexes, replacing
// any chunks from a previous version.
func (m *Manager) ingestFile(ctx context.Context, file FileInfo) error {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	// Old chunks must go first: a shrinking document would otherwise
	// leave stale tail chunks behind.
	if prev, err := m.registry.Get(ctx, file.Path); err == nil && prev.ChunkCount > 0 {
		if err := m.deleteChunks(ctx, file.Path, prev.ChunkCount); err != nil {
			return err
		}
	} else if err != nil && !errors.Is(err, ErrDocNotFound) {
		return err
	}

	chunks := m.chunker.Split(file.Path, string(data))
	if err := m.keyword.IndexChunks(chunks); err != nil {
		return err
	}
	if m.vector != nil {
		if err := m.vector.AddChunks(ctx, chunks); err != nil {
			return err
		}
	}

	if err := m.registry.MarkIndexed(ctx, file, len(chunks)); err != nil {
		return err
	}
	m.log.Debug().Str("doc", file.Path).Int("chunks", len(chunks)).Msg("ingested document")
	return nil
}

// RemoveDoc deletes a document's chunks from both indexes and its
// registry row.
func (m *Manager) RemoveDoc(ctx context.Context, docPath string) error {
	rec, err := m.registry.Delete(ctx, docPath)
	if errors.Is(err, ErrDocNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.deleteChunks(ctx, docPath, rec.ChunkCount)
}

func (m *Manager) deleteChunks(ctx context.Context, docPath string, count int) error {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s#%d", docPath, i)
	}
	if err := m.keyword.DeleteChunks(ids); err != nil {
		return err
	}
	if m.vector != nil {
		return m.vector.DeleteDoc(ctx, docPath)
	}
	return nil
}

// Documents lists the registry contents.
func (m *Manager) Documents(ctx context.Context) ([]DocRecord, error) {
	return m.registry.List(ctx)
}

// Watch starts re-syncing on data dir changes until ctx is cancelled.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := NewWatcher(m.dataDir, m.log)
	if err != nil {
		return err
	}
	m.watcher = watcher
	watcher.Start(ctx, func() {
		if _, _, err := m.Sync(ctx); err != nil {
			m.log.Error().Err(err).Msg("watch-triggered sync failed")
		}
	})
	return nil
}

// Close releases all knowledge state.
func (m *Manager) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	if err := m.keyword.Close(); err != nil {
		m.log.Warn().Err(err).Msg("failed to close keyword index")
	}
	if err := m.registry.Close(); err != nil {
		m.log.Warn().Err(err).Msg("failed to close registry")
	}
}
