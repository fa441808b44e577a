package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"

	"github/akash4chandran/docrag/models"
)

// ChromaVectorStore implements VectorStore on top of a ChromaDB
// collection using the v2 API. Ranking is delegated to Chroma; the
// dimension invariant is enforced client-side before any write.
type ChromaVectorStore struct {
	collection chromago.Collection
	dimension  int
}

// NewChromaVectorStore wraps an existing collection configured for the
// given embedding dimension.
func NewChromaVectorStore(collection chromago.Collection, dimension int) *ChromaVectorStore {
	return &ChromaVectorStore{collection: collection, dimension: dimension}
}

// EnsureCollection gets or creates the named collection. The distance
// space can only be set at creation time and Chroma defaults to l2, so
// the metadata pins it to cosine; scores reported by SimilaritySearch
// are the cosine-distance complement.
func EnsureCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	return client.GetOrCreateCollection(ctx, name,
		chromago.WithCollectionMetadataCreate(collectionCreateMetadata()),
	)
}

func collectionCreateMetadata() chromago.CollectionMetadata {
	return chromago.NewMetadata(
		chromago.NewStringAttribute("hnsw:space", "cosine"),
		chromago.NewStringAttribute("description", "Document RAG collection"),
		chromago.NewStringAttribute("created_by", "docrag"),
	)
}

// WriteBatch implements VectorStore.
func (s *ChromaVectorStore) WriteBatch(ctx context.Context, items []ChunkEmbedding) ([]string, error) {
	for _, item := range items {
		if len(item.Embedding) != s.dimension {
			return nil, &models.DimensionMismatchError{Want: s.dimension, Got: len(item.Embedding)}
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	docIDs := make([]chromago.DocumentID, 0, len(items))
	texts := make([]string, 0, len(items))
	vectors := make([]embeddings.Embedding, 0, len(items))
	metadatas := make([]chromago.DocumentMetadata, 0, len(items))
	for _, item := range items {
		id := uuid.New().String()
		ids = append(ids, id)
		docIDs = append(docIDs, chromago.DocumentID(id))
		texts = append(texts, item.Chunk.Content)
		vectors = append(vectors, embeddings.NewEmbeddingFromFloat32(item.Embedding))
		metadatas = append(metadatas, chunkMetadata(item.Chunk))
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(docIDs...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(vectors...),
		chromago.WithMetadatas(metadatas...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add records to chromadb: %w", err)
	}
	return ids, nil
}

// SimilaritySearch implements VectorStore.
func (s *ChromaVectorStore) SimilaritySearch(ctx context.Context, embedding []float32, topK int) ([]models.SimilarityResult, error) {
	if len(embedding) != s.dimension {
		return nil, &models.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	idGroups := results.GetIDGroups()
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(documentGroups) == 0 {
		return nil, nil
	}

	out := make([]models.SimilarityResult, 0, len(documentGroups[0]))
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		result := models.SimilarityResult{
			Content: doc.ContentString(),
			Rank:    len(out) + 1,
		}
		if len(idGroups) > 0 && i < len(idGroups[0]) {
			result.ID = string(idGroups[0][i])
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			result.Metadata = decodeMetadata(metadataGroups[0][i])
		}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// Chroma reports cosine distance; similarity is its complement.
			result.Score = 1 - float64(distanceGroups[0][i])
		}
		out = append(out, result)
	}
	return out, nil
}

// DeleteBySource implements VectorStore.
func (s *ChromaVectorStore) DeleteBySource(ctx context.Context, source string) error {
	where := chromago.EqString("source", source)
	return s.collection.Delete(ctx, chromago.WithWhereDelete(where))
}

// Count implements VectorStore.
func (s *ChromaVectorStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// List implements VectorStore.
func (s *ChromaVectorStore) List(ctx context.Context) ([]models.StoredRecord, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	ids := results.GetIDs()
	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()

	records := make([]models.StoredRecord, 0, len(documents))
	for i := range documents {
		record := models.StoredRecord{Content: documents[i].ContentString()}
		if i < len(ids) {
			record.ID = string(ids[i])
		}
		if i < len(metadatas) && metadatas[i] != nil {
			record.Metadata = decodeMetadata(metadatas[i])
		}
		records = append(records, record)
	}
	return records, nil
}

func chunkMetadata(chunk models.Chunk) chromago.DocumentMetadata {
	attrs := make([]*chromago.MetaAttribute, 0, len(chunk.Metadata)+1)
	for k, v := range chunk.Metadata {
		attrs = append(attrs, chromago.NewStringAttribute(k, v))
	}
	attrs = append(attrs, chromago.NewIntAttribute("token_count", int64(chunk.TokenCount)))
	return chromago.NewDocumentMetadata(attrs...)
}

// decodeMetadata converts Chroma's DocumentMetadata to a plain string
// map. The struct exposes no value accessor, so the conversion goes
// through a JSON round-trip.
func decodeMetadata(metadata chromago.DocumentMetadata) map[string]string {
	if metadata == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("WARN: could not marshal metadata for document: %v", err)
		return map[string]string{}
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		log.Printf("WARN: could not unmarshal metadata for document: %v", err)
		return map[string]string{}
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}
