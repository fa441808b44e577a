package models

// Document is a normalized unit of text produced by a document loader.
// Metadata carries provenance such as the source path, page number, or
// content type. A Document is never mutated after the loader returns it.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Chunk is a bounded-size slice of a document used as the unit of
// embedding and retrieval. It inherits the document's metadata plus its
// own chunk index, so chunks can be reassembled in reading order.
type Chunk struct {
	Content    string            `json:"content"`
	TokenCount int               `json:"token_count"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// StoredRecord is a single record retrieved from the vector store.
type StoredRecord struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SimilarityResult is one entry of a similarity search, ordered by
// descending score. Rank is 1-based. The stored embedding is not carried
// back to callers.
type SimilarityResult struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
	Rank     int               `json:"rank"`
}

// CloneMetadata returns a copy of the given metadata map so derived
// values never alias the original document's map.
func CloneMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
