package services

import (
	"context"
	"path/filepath"
	"strings"

	"github/akash4chandran/docrag/models"
)

// TextExtractor is the capability a format backend implements: turn one
// source file into normalized documents. New formats register a new
// implementation; the loader orchestration never changes.
type TextExtractor interface {
	// Extensions lists the lower-cased file extensions this backend claims.
	Extensions() []string
	// Extract reads the source and returns its documents with metadata.
	Extract(ctx context.Context, path string) ([]models.Document, error)
}

// DocumentLoader routes a source file to the extractor registered for its
// extension, falling back to a generic extractor for everything else.
type DocumentLoader struct {
	extractors map[string]TextExtractor
	fallback   TextExtractor
}

// NewDocumentLoader creates an empty loader registry. Use Register to add
// format backends and SetFallback for the catch-all extractor.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{extractors: make(map[string]TextExtractor)}
}

// NewDefaultDocumentLoader wires the standard backends: page-oriented PDF
// extraction plus the generic whole-resource extractor as fallback.
func NewDefaultDocumentLoader() *DocumentLoader {
	loader := NewDocumentLoader()
	loader.Register(NewPDFExtractor())
	loader.SetFallback(NewGenericExtractor())
	return loader
}

// Register adds a format backend for each extension it claims.
func (l *DocumentLoader) Register(ex TextExtractor) {
	for _, ext := range ex.Extensions() {
		l.extractors[strings.ToLower(ext)] = ex
	}
}

// SetFallback sets the extractor used when no registered backend claims
// the source's extension.
func (l *DocumentLoader) SetFallback(ex TextExtractor) {
	l.fallback = ex
}

// Load produces the sequence of documents for the given source. Calling
// it again with the same source re-reads the file and yields the same
// logical documents. An unparseable source fails with a LoadError; it is
// never silently skipped.
func (l *DocumentLoader) Load(ctx context.Context, path string) ([]models.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := l.extractors[ext]
	if !ok {
		extractor = l.fallback
	}
	if extractor == nil {
		return nil, &models.LoadError{Source: path, Err: errUnsupportedFormat(ext)}
	}

	docs, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, &models.LoadError{Source: path, Err: err}
	}
	return docs, nil
}

type errUnsupportedFormat string

func (e errUnsupportedFormat) Error() string {
	return "no extractor registered for file type " + string(e)
}
