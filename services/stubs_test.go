package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"unicode"

	"github/akash4chandran/docrag/models"
)

// hashEmbedder is a deterministic bag-of-words embedder: each word is
// hashed into a fixed-dimension count vector, so texts sharing words get
// high cosine similarity without any external provider.
type hashEmbedder struct {
	dim int
}

func newHashEmbedder(dim int) *hashEmbedder {
	return &hashEmbedder{dim: dim}
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, word := range words {
		h := fnv.New32a()
		h.Write([]byte(word))
		vector[int(h.Sum32())%e.dim]++
	}
	return vector, nil
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// failingEmbedder always fails, standing in for a provider outage.
type failingEmbedder struct{}

func (e *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, &models.EmbeddingError{Err: errProviderDown}
}

func (e *failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, &models.EmbeddingError{Err: errProviderDown}
}

var errProviderDown = errors.New("provider unavailable")

// scriptedChat returns fixed candidates and records every exchange.
type scriptedChat struct {
	candidates []string
	err        error

	calls   int
	systems []string
	users   []string
}

func (c *scriptedChat) Generate(ctx context.Context, system, user string) ([]string, error) {
	c.calls++
	c.systems = append(c.systems, system)
	c.users = append(c.users, user)
	if c.err != nil {
		return nil, c.err
	}
	return c.candidates, nil
}
