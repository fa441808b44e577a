package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/akash4chandran/docrag/models"
)

func writeOne(t *testing.T, store *MemoryVectorStore, content string, embedding []float32, metadata map[string]string) string {
	t.Helper()
	ids, err := store.WriteBatch(context.Background(), []ChunkEmbedding{{
		Chunk:     models.Chunk{Content: content, TokenCount: 1, Metadata: metadata},
		Embedding: embedding,
	}})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	return ids[0]
}

func TestWriteBatchAssignsUniqueIDs(t *testing.T) {
	store := NewMemoryVectorStore(2)

	a := writeOne(t, store, "a", []float32{1, 0}, nil)
	b := writeOne(t, store, "b", []float32{0, 1}, nil)

	assert.NotEqual(t, a, b)
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteBatchRejectsDimensionMismatch(t *testing.T) {
	store := NewMemoryVectorStore(3)

	items := []ChunkEmbedding{
		{Chunk: models.Chunk{Content: "good"}, Embedding: []float32{1, 2, 3}},
		{Chunk: models.Chunk{Content: "bad"}, Embedding: []float32{1, 2}},
	}
	ids, err := store.WriteBatch(context.Background(), items)

	require.Error(t, err)
	var dimErr *models.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)
	assert.Empty(t, ids)

	// No partial record may appear after a rejected write.
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSimilaritySearchRanksByDescendingScore(t *testing.T) {
	store := NewMemoryVectorStore(2)
	writeOne(t, store, "east", []float32{1, 0}, nil)
	writeOne(t, store, "north", []float32{0, 1}, nil)
	writeOne(t, store, "northeast", []float32{1, 1}, nil)

	results, err := store.SimilaritySearch(context.Background(), []float32{1, 0.2}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "east", results[0].Content)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	for i, res := range results {
		assert.Equal(t, i+1, res.Rank)
	}
}

func TestSimilaritySearchBreaksTiesByRecency(t *testing.T) {
	store := NewMemoryVectorStore(2)
	writeOne(t, store, "older", []float32{1, 0}, nil)
	writeOne(t, store, "newer", []float32{2, 0}, nil) // same direction, same cosine

	results, err := store.SimilaritySearch(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Content)
	assert.Equal(t, "older", results[1].Content)
}

func TestSimilaritySearchDefaultsTopK(t *testing.T) {
	store := NewMemoryVectorStore(1)
	for i := 0; i < 10; i++ {
		writeOne(t, store, "doc", []float32{1}, nil)
	}

	results, err := store.SimilaritySearch(context.Background(), []float32{1}, 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestSimilaritySearchTruncatesToTopK(t *testing.T) {
	store := NewMemoryVectorStore(1)
	for i := 0; i < 5; i++ {
		writeOne(t, store, "doc", []float32{1}, nil)
	}

	results, err := store.SimilaritySearch(context.Background(), []float32{1}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSimilaritySearchRejectsMismatchedQuery(t *testing.T) {
	store := NewMemoryVectorStore(4)

	_, err := store.SimilaritySearch(context.Background(), []float32{1, 2}, 3)
	var dimErr *models.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
}

func TestDeleteBySource(t *testing.T) {
	store := NewMemoryVectorStore(1)
	writeOne(t, store, "keep", []float32{1}, map[string]string{"source": "a.txt"})
	writeOne(t, store, "drop", []float32{1}, map[string]string{"source": "b.txt"})
	writeOne(t, store, "drop too", []float32{1}, map[string]string{"source": "b.txt"})

	require.NoError(t, store.DeleteBySource(context.Background(), "b.txt"))

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].Content)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
