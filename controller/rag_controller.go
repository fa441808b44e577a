package controller

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github/akash4chandran/docrag/models"
	"github/akash4chandran/docrag/services"
)

// RAGController handles the HTTP requests for the RAG API. It depends on
// the service layer to perform the actual business logic.
type RAGController struct {
	ragService services.RAGService
	ingestion  *services.IngestionService
}

// NewRAGController is a constructor function that creates a new
// RAGController. This is called from main.go to inject the dependencies.
func NewRAGController(ragService services.RAGService, ingestion *services.IngestionService) *RAGController {
	return &RAGController{
		ragService: ragService,
		ingestion:  ingestion,
	}
}

// Query is the Gin handler for the GET /ai endpoint. It accepts a single
// free-text "message" parameter and returns a plain-text answer. Any
// pipeline failure maps to a distinguishable error status, never to a
// silently empty body.
func (c *RAGController) Query(ctx *gin.Context) {
	message := ctx.Query("message")
	if message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'message'"})
		return
	}

	answer, err := c.ragService.Answer(ctx.Request.Context(), message)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": "Failed to generate AI response: " + err.Error()})
		return
	}

	ctx.String(http.StatusOK, answer)
}

// Ingest is the Gin handler for the POST /api/v1/ingest endpoint. A file
// path is ingested directly; a directory path is walked recursively with
// per-file outcomes aggregated in the response.
func (c *RAGController) Ingest(ctx *gin.Context) {
	var req models.IngestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Path not found: " + req.Path})
		return
	}

	if info.IsDir() {
		result, err := c.ingestion.IngestDirectory(ctx.Request.Context(), req.Path)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest directory: " + err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, result)
		return
	}

	count, err := c.ingestion.IngestFile(ctx.Request.Context(), req.Path)
	if err != nil {
		ctx.JSON(statusForError(err), models.IngestResponse{Records: count, Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, models.IngestResponse{Records: count})
}

// ListRecords is the Gin handler for the GET /api/v1/records endpoint.
func (c *RAGController) ListRecords(ctx *gin.Context) {
	response, err := c.ragService.ListRecords(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// statusForError maps the pipeline error taxonomy onto HTTP statuses so
// callers can tell configuration problems from bad inputs.
func statusForError(err error) int {
	var loadErr *models.LoadError
	if errors.As(err, &loadErr) {
		return http.StatusUnprocessableEntity
	}
	var embedErr *models.EmbeddingError
	if errors.As(err, &embedErr) {
		return http.StatusBadGateway
	}
	var genErr *models.GenerationError
	if errors.As(err, &genErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
