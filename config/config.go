package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// OllamaConfig configures the embedding provider endpoint.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// GeminiConfig configures the chat model. The API key itself is read from
// the named environment variable, never stored in the file.
type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ChromaConfig contains connection details for a Chroma-backed store.
type ChromaConfig struct {
	Collection string `yaml:"collection"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	Type      string       `yaml:"type"` // "memory" or "chroma"
	Dimension int          `yaml:"dimension"`
	Chroma    ChromaConfig `yaml:"chroma"`
}

// SplitterConfig configures how documents are split into chunks.
type SplitterConfig struct {
	MaxTokens     int `yaml:"max_tokens"`
	OverlapTokens int `yaml:"overlap_tokens"`
}

// IngestConfig points at the resources directory ingested at startup.
type IngestConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ChatConfig configures retrieval-augmented answering.
type ChatConfig struct {
	TemplatePath string `yaml:"template_path"`
	TopK         int    `yaml:"top_k"`
}

// Config is the root application configuration, passed explicitly at
// construction time so services never reach for ambient state.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Store    StoreConfig    `yaml:"store"`
	Splitter SplitterConfig `yaml:"splitter"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Chat     ChatConfig     `yaml:"chat"`
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. A .env file in the working directory is loaded
// first so the environment overrides below see it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Ollama:   OllamaConfig{BaseURL: "http://localhost:11434", Model: "nomic-embed-text:v1.5"},
		Gemini:   GeminiConfig{Model: "gemini-2.5-flash", APIKeyEnv: "GEMINI_API_KEY"},
		Store:    StoreConfig{Type: "memory", Dimension: 768, Chroma: ChromaConfig{Collection: "documents"}},
		Splitter: SplitterConfig{MaxTokens: 500, OverlapTokens: 50},
		Chat:     ChatConfig{TemplatePath: "prompts/assist.st", TopK: 4},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Server.Port == "" {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = def.Gemini.Model
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = def.Gemini.APIKeyEnv
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = def.Store.Type
	}
	if cfg.Store.Dimension == 0 {
		cfg.Store.Dimension = def.Store.Dimension
	}
	if cfg.Store.Chroma.Collection == "" {
		cfg.Store.Chroma.Collection = def.Store.Chroma.Collection
	}
	if cfg.Splitter.MaxTokens == 0 {
		cfg.Splitter.MaxTokens = def.Splitter.MaxTokens
	}
	if cfg.Splitter.OverlapTokens == 0 {
		cfg.Splitter.OverlapTokens = def.Splitter.OverlapTokens
	}
	if cfg.Chat.TemplatePath == "" {
		cfg.Chat.TemplatePath = def.Chat.TemplatePath
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = def.Chat.TopK
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Ollama.BaseURL = v
	}
	if v := os.Getenv("INGEST_PATH"); v != "" {
		cfg.Ingest.Path = v
	}
	if v := os.Getenv("PROMPT_TEMPLATE"); v != "" {
		cfg.Chat.TemplatePath = v
	}
}
