package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github/akash4chandran/docrag/config"
	"github/akash4chandran/docrag/controller"
	"github/akash4chandran/docrag/services"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Pipeline stages.
	loader := services.NewDefaultDocumentLoader()
	splitter := services.NewTokenTextSplitter(cfg.Splitter.MaxTokens, cfg.Splitter.OverlapTokens)
	embedder := services.NewOllamaEmbedder(httpClient, cfg.Ollama.BaseURL, cfg.Ollama.Model)

	store, cleanup, err := buildVectorStore(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to create vector store: %v", err)
	}
	defer cleanup()

	// The template is loaded and validated once at startup, never re-read
	// per request.
	template, err := services.LoadPromptTemplate(cfg.Chat.TemplatePath)
	if err != nil {
		log.Fatalf("FATAL: Invalid prompt template: %v", err)
	}

	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  os.Getenv(cfg.Gemini.APIKeyEnv),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure %s is set.", err, cfg.Gemini.APIKeyEnv)
	}
	log.Println("Successfully connected to Google Gemini.")
	chatClient := services.NewGeminiChatClient(geminiClient, cfg.Gemini.Model)

	ingestionService := services.NewIngestionService(loader, splitter, embedder, store)
	ragService := services.NewRAGService(embedder, store, chatClient, template, cfg.Chat.TopK)
	ragController := controller.NewRAGController(ragService, ingestionService)

	// Ingest the configured resources directory before serving, the same
	// way the original boot sequence primed the store with its sample
	// documents.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Ingest.Path != "" {
		result, err := ingestionService.IngestDirectory(ctx, cfg.Ingest.Path)
		if err != nil {
			log.Fatalf("FATAL: Startup ingestion of %s failed: %v", cfg.Ingest.Path, err)
		}
		log.Printf("Startup ingestion: %d files succeeded, %d failed, %d records written",
			result.Succeeded, result.Failed, result.Records)
		if cfg.Ingest.Watch {
			go ingestionService.WatchDirectory(ctx, cfg.Ingest.Path)
		}
	}

	// Setup Gin router.
	router := gin.Default()

	// Add CORS middleware for testing.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Document RAG API",
			"version": "1.0.0",
		})
	})

	// The query endpoint mirrors the original surface: a single free-text
	// parameter, a single text response body.
	router.GET("/ai", ragController.Query)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/ingest", ragController.Ingest)      // Ingest a file or directory
		apiV1.GET("/records", ragController.ListRecords) // Inspect stored chunks
	}

	port := cfg.Server.Port
	log.Printf("Go Gin backend server starting on http://localhost:%s", port)
	log.Printf("Health check available at: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  GET  http://localhost:%s/ai?message=...", port)
	log.Printf("  POST http://localhost:%s/api/v1/ingest", port)
	log.Printf("  GET  http://localhost:%s/api/v1/records", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// buildVectorStore selects the store implementation from configuration.
func buildVectorStore(cfg *config.Config) (services.VectorStore, func(), error) {
	switch cfg.Store.Type {
	case "", "memory":
		return services.NewMemoryVectorStore(cfg.Store.Dimension), func() {}, nil
	case "chroma":
		chromaClient, err := chromago.NewHTTPClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create chroma client: %w", err)
		}
		log.Printf("Getting or creating collection '%s' using v2 API...", cfg.Store.Chroma.Collection)
		collection, err := services.EnsureCollection(context.Background(), chromaClient, cfg.Store.Chroma.Collection)
		if err != nil {
			_ = chromaClient.Close()
			return nil, nil, fmt.Errorf("failed to get or create collection: %w", err)
		}
		cleanup := func() {
			if err := chromaClient.Close(); err != nil {
				log.Printf("Warning: Failed to close chroma client: %v", err)
			}
		}
		return services.NewChromaVectorStore(collection, cfg.Store.Dimension), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
