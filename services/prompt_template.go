package services

import (
	"os"
	"strings"

	"github/akash4chandran/docrag/models"
)

// ContextPlaceholder is the named placeholder the chat component fills
// with the retrieved context.
const ContextPlaceholder = "{context}"

// PromptTemplate is a plain-text system prompt containing the context
// placeholder. It is loaded once at startup and validated up front so a
// malformed template never costs an external model call.
type PromptTemplate struct {
	text string
}

// NewPromptTemplate validates the template text.
func NewPromptTemplate(text string) (*PromptTemplate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &models.TemplateError{Reason: "template is empty"}
	}
	if !strings.Contains(text, ContextPlaceholder) {
		return nil, &models.TemplateError{Reason: "missing placeholder " + ContextPlaceholder}
	}
	return &PromptTemplate{text: text}, nil
}

// LoadPromptTemplate reads and validates the template resource at path.
func LoadPromptTemplate(path string) (*PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.TemplateError{Reason: "cannot read template " + path + ": " + err.Error()}
	}
	return NewPromptTemplate(string(data))
}

// Render substitutes the retrieved context into the placeholder. An empty
// context still renders; the template itself tells the model how to
// answer without context.
func (t *PromptTemplate) Render(contextText string) string {
	return strings.ReplaceAll(t.text, ContextPlaceholder, contextText)
}
