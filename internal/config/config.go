package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Chat model
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	DefaultChunkSize    int
	DefaultChunkOverlap int

	// Retrieval defaults
	DefaultKChunks int
	MinKChunks     int
	MaxKChunks     int

	// Threshold below which the whole document fits in the system prompt
	// and retrieval is skipped.
	SmallDocumentThreshold int

	// Session state
	SessionTTL time.Duration

	// Optional YAML file overriding stopwords and the synonym table.
	RetrievalLangFile string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCCHAT_API_KEY"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMBaseURL: envOr("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:   envOr("LLM_MODEL", "llama-3.3-70b-versatile"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultChunkSize:    envInt("DEFAULT_CHUNK_SIZE", 4000),
		DefaultChunkOverlap: envInt("DEFAULT_CHUNK_OVERLAP", 400),

		DefaultKChunks: envInt("DEFAULT_K_CHUNKS", 3),
		MinKChunks:     envInt("MIN_K_CHUNKS", 2),
		MaxKChunks:     envInt("MAX_K_CHUNKS", 5),

		SmallDocumentThreshold: envInt("SMALL_DOCUMENT_THRESHOLD", 25000),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		RetrievalLangFile: os.Getenv("RETRIEVAL_LANG_FILE"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 4000
	}
	if cfg.DefaultChunkOverlap <= 0 {
		cfg.DefaultChunkOverlap = 400
	}
	if cfg.DefaultKChunks <= 0 {
		cfg.DefaultKChunks = 3
	}
	if cfg.MinKChunks <= 0 {
		cfg.MinKChunks = 2
	}
	if cfg.MaxKChunks < cfg.MinKChunks {
		cfg.MaxKChunks = cfg.MinKChunks
	}
	if cfg.SmallDocumentThreshold <= 0 {
		cfg.SmallDocumentThreshold = 25000
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCCHAT_API_KEY is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.DefaultChunkOverlap >= c.DefaultChunkSize {
		return fmt.Errorf("DEFAULT_CHUNK_OVERLAP (%d) must be smaller than DEFAULT_CHUNK_SIZE (%d)",
			c.DefaultChunkOverlap, c.DefaultChunkSize)
	}
	return nil
}

// ClampK bounds a requested chunk count to the configured range, falling
// back to the default when the request is absent.
func (c Config) ClampK(k int) int {
	if k <= 0 {
		return c.DefaultKChunks
	}
	if k < c.MinKChunks {
		return c.MinKChunks
	}
	if k > c.MaxKChunks {
		return c.MaxKChunks
	}
	return k
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
