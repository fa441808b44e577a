package services

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github/akash4chandran/docrag/models"
)

// DefaultTopK is the number of results a similarity search returns when
// the caller does not ask for a specific count.
const DefaultTopK = 4

// ChunkEmbedding pairs a chunk with its embedding vector for writing.
type ChunkEmbedding struct {
	Chunk     models.Chunk
	Embedding []float32
}

// VectorStore persists (chunk, embedding) tuples and answers
// nearest-neighbor queries. It is the single source of truth for
// persisted records and must support concurrent readers and writers.
type VectorStore interface {
	// WriteBatch durably writes the items and returns their new ids in
	// input order. Every embedding must match the store's configured
	// dimension; a mismatch fails with DimensionMismatchError and leaves
	// no partial record behind.
	WriteBatch(ctx context.Context, items []ChunkEmbedding) ([]string, error)
	// SimilaritySearch returns up to topK records ranked by descending
	// cosine similarity to the query embedding, ties broken by more
	// recent insertion. topK <= 0 selects DefaultTopK.
	SimilaritySearch(ctx context.Context, embedding []float32, topK int) ([]models.SimilarityResult, error)
	// DeleteBySource removes every record whose source metadata matches.
	DeleteBySource(ctx context.Context, source string) error
	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)
	// List returns all stored records, content and metadata only.
	List(ctx context.Context) ([]models.StoredRecord, error)
}

type memoryRecord struct {
	id        string
	content   string
	metadata  map[string]string
	embedding []float32
	seq       uint64
}

// MemoryVectorStore is a brute-force cosine-similarity store guarded by a
// RWMutex, suitable for local use and tests.
type MemoryVectorStore struct {
	mu        sync.RWMutex
	dimension int
	records   []memoryRecord
	nextSeq   uint64
}

// NewMemoryVectorStore creates an empty store configured for the given
// embedding dimension.
func NewMemoryVectorStore(dimension int) *MemoryVectorStore {
	return &MemoryVectorStore{dimension: dimension}
}

// WriteBatch implements VectorStore. The whole batch is validated before
// any insert, so a mismatched batch writes nothing.
func (s *MemoryVectorStore) WriteBatch(ctx context.Context, items []ChunkEmbedding) ([]string, error) {
	for _, item := range items {
		if len(item.Embedding) != s.dimension {
			return nil, &models.DimensionMismatchError{Want: s.dimension, Got: len(item.Embedding)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(items))
	for _, item := range items {
		s.nextSeq++
		rec := memoryRecord{
			id:        uuid.New().String(),
			content:   item.Chunk.Content,
			metadata:  models.CloneMetadata(item.Chunk.Metadata),
			embedding: append([]float32(nil), item.Embedding...),
			seq:       s.nextSeq,
		}
		s.records = append(s.records, rec)
		ids = append(ids, rec.id)
	}
	return ids, nil
}

// SimilaritySearch implements VectorStore.
func (s *MemoryVectorStore) SimilaritySearch(ctx context.Context, embedding []float32, topK int) ([]models.SimilarityResult, error) {
	if len(embedding) != s.dimension {
		return nil, &models.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		rec   *memoryRecord
		score float64
	}
	candidates := make([]scored, 0, len(s.records))
	for i := range s.records {
		rec := &s.records[i]
		candidates = append(candidates, scored{rec: rec, score: cosineSimilarity(embedding, rec.embedding)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.seq > candidates[j].rec.seq
	})
	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	results := make([]models.SimilarityResult, 0, len(candidates))
	for i, c := range candidates {
		results = append(results, models.SimilarityResult{
			ID:       c.rec.id,
			Content:  c.rec.content,
			Metadata: models.CloneMetadata(c.rec.metadata),
			Score:    c.score,
			Rank:     i + 1,
		})
	}
	return results, nil
}

// DeleteBySource implements VectorStore.
func (s *MemoryVectorStore) DeleteBySource(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.metadata["source"] != source {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return nil
}

// Count implements VectorStore.
func (s *MemoryVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// List implements VectorStore.
func (s *MemoryVectorStore) List(ctx context.Context) ([]models.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.StoredRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, models.StoredRecord{
			ID:       rec.id,
			Content:  rec.content,
			Metadata: models.CloneMetadata(rec.metadata),
		})
	}
	return records, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
