package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github/akash4chandran/docrag/models"
)

// CandidateSeparator joins multiple model completions into one answer.
const CandidateSeparator = "\n"

// ContextSeparator joins retrieved chunk contents, in rank order, into
// the context string substituted into the prompt template.
const ContextSeparator = "\n"

// RAGService interface defines the read path: answer a question from the
// most relevant stored chunks.
type RAGService interface {
	Answer(ctx context.Context, query string) (string, error)
	ListRecords(ctx context.Context) (*models.ListRecordsResponse, error)
}

// ragServiceImpl holds the dependencies it needs to do its job.
type ragServiceImpl struct {
	embedder EmbeddingProvider
	store    VectorStore
	chat     ChatClient
	template *PromptTemplate
	topK     int
}

// NewRAGService creates a new RAG service instance. The template has been
// validated at load time; topK <= 0 falls back to the store default.
func NewRAGService(embedder EmbeddingProvider, store VectorStore, chat ChatClient, template *PromptTemplate, topK int) RAGService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ragServiceImpl{
		embedder: embedder,
		store:    store,
		chat:     chat,
		template: template,
		topK:     topK,
	}
}

// Answer implements RAGService. Zero retrieval results are not a failure:
// the template renders with an empty context and the model answers from
// the instruction alone.
func (r *ragServiceImpl) Answer(ctx context.Context, query string) (string, error) {
	log.Printf("SERVICE: Answering query: '%s'", query)

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", err
	}

	results, err := r.store.SimilaritySearch(ctx, queryEmbedding, r.topK)
	if err != nil {
		return "", err
	}
	log.Printf("SERVICE: Retrieved %d documents for context", len(results))

	contents := make([]string, 0, len(results))
	for _, res := range results {
		contents = append(contents, res.Content)
	}
	system := r.template.Render(strings.Join(contents, ContextSeparator))

	candidates, err := r.chat.Generate(ctx, system, query)
	if err != nil {
		return "", &models.GenerationError{Err: err}
	}
	if len(candidates) == 0 {
		return "", &models.GenerationError{Err: errors.New("model returned no candidates")}
	}

	return strings.Join(candidates, CandidateSeparator), nil
}

// ListRecords implements RAGService to expose the stored chunks.
func (r *ragServiceImpl) ListRecords(ctx context.Context) (*models.ListRecordsResponse, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.StoredRecord{}
	}
	return &models.ListRecordsResponse{Count: len(records), Records: records}, nil
}
