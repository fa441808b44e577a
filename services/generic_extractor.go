package services

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github/akash4chandran/docrag/models"
)

// GenericExtractor treats the whole resource as a single document. It
// delegates the format-specific text extraction to langchaingo's
// document loaders and tags the result with the detected content type.
type GenericExtractor struct{}

// NewGenericExtractor creates the catch-all extractor.
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{}
}

// Extensions implements TextExtractor. The generic extractor is normally
// installed as the loader fallback, so the list only names the formats it
// has dedicated backends for.
func (e *GenericExtractor) Extensions() []string {
	return []string{".txt", ".md", ".csv", ".html", ".htm"}
}

// Extract reads the resource and flattens it into one document.
func (e *GenericExtractor) Extract(ctx context.Context, path string) ([]models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var parts []schema.Document
	switch ext {
	case ".csv":
		parts, err = documentloaders.NewCSV(f).Load(ctx)
	case ".html", ".htm":
		parts, err = documentloaders.NewHTML(f).Load(ctx)
	default:
		parts, err = documentloaders.NewText(f).Load(ctx)
	}
	if err != nil {
		return nil, err
	}

	// The loaders may emit several fragments (e.g. one per CSV row); the
	// generic contract is one document per resource, so join them.
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.PageContent != "" {
			texts = append(texts, p.PageContent)
		}
	}

	doc := models.Document{
		Content: strings.Join(texts, "\n"),
		Metadata: map[string]string{
			"source":       path,
			"content_type": contentTypeFor(ext),
		},
	}
	return []models.Document{doc}, nil
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		if i := strings.IndexByte(ct, ';'); i > 0 {
			return ct[:i]
		}
		return ct
	}
	return "text/plain"
}
