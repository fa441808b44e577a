package services

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github/akash4chandran/docrag/models"
)

// IngestionService orchestrates the write path: load a source, split its
// documents into chunks, embed the chunk texts, and write the batch to
// the vector store. No in-memory state survives a call.
type IngestionService struct {
	loader   *DocumentLoader
	splitter *TokenTextSplitter
	embedder EmbeddingProvider
	store    VectorStore
}

// NewIngestionService wires the pipeline stages together.
func NewIngestionService(loader *DocumentLoader, splitter *TokenTextSplitter, embedder EmbeddingProvider, store VectorStore) *IngestionService {
	return &IngestionService{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// IngestFile runs the pipeline for one source file and returns the number
// of records written. Chunk order is preserved end to end: embeddings are
// requested and written in the order the splitter produced the chunks.
func (s *IngestionService) IngestFile(ctx context.Context, path string) (int, error) {
	docs, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, doc := range docs {
		chunks := s.splitter.Split(doc)
		if len(chunks) == 0 {
			continue
		}

		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return written, err
		}
		if len(vectors) != len(chunks) {
			return written, &models.EmbeddingError{Err: errEmbeddingCount{want: len(chunks), got: len(vectors)}}
		}

		items := make([]ChunkEmbedding, len(chunks))
		for i := range chunks {
			items[i] = ChunkEmbedding{Chunk: chunks[i], Embedding: vectors[i]}
		}

		ids, err := s.store.WriteBatch(ctx, items)
		written += len(ids)
		if err != nil {
			return written, err
		}
	}

	log.Printf("INDEXER: Ingested %s (%d records)", path, written)
	return written, nil
}

// IngestDirectory recursively walks dir, ingesting every regular file
// independently. One bad file does not abort the others; per-file
// outcomes are aggregated into the returned result. Cancellation stops
// the walk and is returned as the error.
func (s *IngestionService) IngestDirectory(ctx context.Context, dir string) (*models.BatchIngestResult, error) {
	result := &models.BatchIngestResult{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		count, ferr := s.IngestFile(ctx, path)
		result.Records += count
		if ferr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("INDEXER ERROR: Failed to process file %s: %v", path, ferr)
			result.Failed++
			result.Failures = append(result.Failures, models.FileFailure{Path: path, Error: ferr.Error()})
			return nil
		}
		result.Succeeded++
		return nil
	})
	if err != nil {
		return result, err
	}

	log.Printf("INDEXER: Directory scan of %s finished: %d succeeded, %d failed, %d records",
		dir, result.Succeeded, result.Failed, result.Records)
	return result, nil
}

// WatchDirectory starts a long-running process that keeps the index in
// sync with file changes. A created or modified file is re-ingested after
// its old records are deleted; a removed or renamed file is deleted from
// the index. Blocks until the context is cancelled.
func (s *IngestionService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				log.Printf("WATCHER EVENT: %s", event)

				// Many editors write by creating a temp file and renaming,
				// which can trigger multiple events. Create and Write are
				// handled the same way.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: File modified/created: %s. Re-ingesting...", event.Name)
					if err := s.store.DeleteBySource(ctx, event.Name); err != nil {
						log.Printf("WATCHER WARN: Could not delete old records for %s: %v", event.Name, err)
					}
					if _, err := s.IngestFile(ctx, event.Name); err != nil {
						log.Printf("WATCHER ERROR: Failed to process file %s: %v", event.Name, err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					log.Printf("WATCHER: File removed/renamed: %s. Removing from index...", event.Name)
					if err := s.store.DeleteBySource(ctx, event.Name); err != nil {
						log.Printf("WATCHER ERROR: Failed to delete records for %s: %v", event.Name, err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}

type errEmbeddingCount struct {
	want, got int
}

func (e errEmbeddingCount) Error() string {
	return fmt.Sprintf("provider returned %d embeddings for %d chunks", e.got, e.want)
}
