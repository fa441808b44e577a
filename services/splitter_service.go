package services

import (
	"regexp"
	"strconv"

	"github/akash4chandran/docrag/models"
)

// DefaultMaxTokens is the default token budget per chunk.
const DefaultMaxTokens = 500

// DefaultOverlapTokens is the default number of tokens repeated at the
// start of the next chunk to preserve context across chunk edges.
const DefaultOverlapTokens = 50

var wordPattern = regexp.MustCompile(`\S+`)

// TokenTextSplitter splits a document into fixed-budget token chunks.
// Tokens are whitespace-delimited words, so a chunk boundary never falls
// mid-word, and every chunk is an exact substring of the source text:
// concatenating the chunks in order (discarding the overlap) reproduces
// the document.
type TokenTextSplitter struct {
	maxTokens     int
	overlapTokens int
}

// NewTokenTextSplitter creates a splitter with the given budgets. Zero or
// negative values fall back to the defaults; an overlap that would not
// let the window advance is clamped to a quarter of the budget.
func NewTokenTextSplitter(maxTokens, overlapTokens int) *TokenTextSplitter {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = DefaultOverlapTokens
	}
	if overlapTokens >= maxTokens {
		overlapTokens = maxTokens / 4
	}
	return &TokenTextSplitter{maxTokens: maxTokens, overlapTokens: overlapTokens}
}

// Split produces the ordered chunks of doc. A document shorter than the
// budget yields exactly one chunk; an empty document yields none.
func (s *TokenTextSplitter) Split(doc models.Document) []models.Chunk {
	matches := wordPattern.FindAllStringIndex(doc.Content, -1)
	if len(matches) == 0 {
		return nil
	}

	// spans[i] covers token i plus any whitespace preceding it, so chunk
	// contents are contiguous substrings of the original text.
	spans := make([][2]int, len(matches))
	prev := 0
	for i, m := range matches {
		spans[i] = [2]int{prev, m[1]}
		prev = m[1]
	}

	var chunks []models.Chunk
	start := 0
	for start < len(spans) {
		end := start + s.maxTokens
		if end > len(spans) {
			end = len(spans)
		}

		// The final chunk also carries any whitespace after the last token,
		// so the chunk contents cover the document exactly.
		contentEnd := spans[end-1][1]
		if end == len(spans) {
			contentEnd = len(doc.Content)
		}

		metadata := models.CloneMetadata(doc.Metadata)
		metadata["chunk_num"] = strconv.Itoa(len(chunks))
		chunks = append(chunks, models.Chunk{
			Content:    doc.Content[spans[start][0]:contentEnd],
			TokenCount: end - start,
			Metadata:   metadata,
		})

		if end == len(spans) {
			break
		}
		start = end - s.overlapTokens
	}
	return chunks
}

// CountTokens reports how many tokens the splitter sees in text.
func (s *TokenTextSplitter) CountTokens(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}
