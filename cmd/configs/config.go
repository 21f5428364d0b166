package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configurations
	Server ServerConfig

	// Weaviate configurations
	WeaviateHost   string
	WeaviatePort   string
	WeaviateScheme string

	// Redis configurations
	MemoryDBRedisURL      string
	MemoryDBRedisUsername string
	MemoryDBRedisPassword string

	// OpenAI configurations
	OpenAI OpenAIConfig

	// Ingestion pipeline configurations
	Ingest IngestConfig

	// Query pipeline configurations
	Query QueryConfig

	// Headless browser configurations
	Browser BrowserConfig

	// Application configurations
	AppEnv   string
	LogLevel string
}

// ServerConfig holds server-related configurations
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// OpenAIConfig holds embedding/generation model configurations
type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	EmbedTimeout   time.Duration
	ChatTimeout    time.Duration
}

// IngestConfig holds ingestion worker and chunking configurations
type IngestConfig struct {
	WorkerCount   int
	QueueKey      string
	ChunkSize     int
	ChunkOverlap  int
	BatchSize     int
	MinTextLength int
	FetchTimeout  time.Duration
	RenderTimeout time.Duration
	StoreTimeout  time.Duration
}

// QueryConfig holds retrieval configurations
type QueryConfig struct {
	TopK           int
	MaxQueryLength int
	StoreTimeout   time.Duration
}

// BrowserConfig holds headless Chrome configurations
type BrowserConfig struct {
	ExecPath string // empty means chromedp's default lookup
	Headless bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 300) // query streams are long-lived
	viper.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WEAVIATE_HOST", "localhost")
	viper.SetDefault("WEAVIATE_PORT", "7080")
	viper.SetDefault("WEAVIATE_SCHEME", "http")
	viper.SetDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini")
	viper.SetDefault("OPENAI_EMBED_TIMEOUT", 30)
	viper.SetDefault("OPENAI_CHAT_TIMEOUT", 120)
	viper.SetDefault("INGEST_WORKER_COUNT", 3)
	viper.SetDefault("INGEST_QUEUE_KEY", "ingest:jobs")
	viper.SetDefault("INGEST_CHUNK_SIZE", 1000)
	viper.SetDefault("INGEST_CHUNK_OVERLAP", 200)
	viper.SetDefault("INGEST_BATCH_SIZE", 10)
	viper.SetDefault("INGEST_MIN_TEXT_LENGTH", 50)
	viper.SetDefault("INGEST_FETCH_TIMEOUT", 30)
	viper.SetDefault("INGEST_RENDER_TIMEOUT", 45)
	viper.SetDefault("INGEST_STORE_TIMEOUT", 30)
	viper.SetDefault("QUERY_TOP_K", 3)
	viper.SetDefault("QUERY_MAX_LENGTH", 2000)
	viper.SetDefault("QUERY_STORE_TIMEOUT", 30)
	viper.SetDefault("BROWSER_EXEC_PATH", "")
	viper.SetDefault("BROWSER_HEADLESS", true)

	return &Config{
		// Server configurations
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			ReadTimeout:  viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetInt("SERVER_IDLE_TIMEOUT"),
		},

		// Weaviate configurations
		WeaviateHost:   viper.GetString("WEAVIATE_HOST"),
		WeaviatePort:   viper.GetString("WEAVIATE_PORT"),
		WeaviateScheme: viper.GetString("WEAVIATE_SCHEME"),

		// Redis configurations
		MemoryDBRedisURL:      viper.GetString("REDIS_URL"),
		MemoryDBRedisUsername: viper.GetString("REDIS_USERNAME"),
		MemoryDBRedisPassword: viper.GetString("REDIS_PASSWORD"),

		// OpenAI configurations
		OpenAI: OpenAIConfig{
			APIKey:         viper.GetString("OPENAI_API_KEY"),
			EmbeddingModel: viper.GetString("OPENAI_EMBEDDING_MODEL"),
			ChatModel:      viper.GetString("OPENAI_CHAT_MODEL"),
			EmbedTimeout:   time.Duration(viper.GetInt("OPENAI_EMBED_TIMEOUT")) * time.Second,
			ChatTimeout:    time.Duration(viper.GetInt("OPENAI_CHAT_TIMEOUT")) * time.Second,
		},

		// Ingestion configurations
		Ingest: IngestConfig{
			WorkerCount:   viper.GetInt("INGEST_WORKER_COUNT"),
			QueueKey:      viper.GetString("INGEST_QUEUE_KEY"),
			ChunkSize:     viper.GetInt("INGEST_CHUNK_SIZE"),
			ChunkOverlap:  viper.GetInt("INGEST_CHUNK_OVERLAP"),
			BatchSize:     viper.GetInt("INGEST_BATCH_SIZE"),
			MinTextLength: viper.GetInt("INGEST_MIN_TEXT_LENGTH"),
			FetchTimeout:  time.Duration(viper.GetInt("INGEST_FETCH_TIMEOUT")) * time.Second,
			RenderTimeout: time.Duration(viper.GetInt("INGEST_RENDER_TIMEOUT")) * time.Second,
			StoreTimeout:  time.Duration(viper.GetInt("INGEST_STORE_TIMEOUT")) * time.Second,
		},

		// Query configurations
		Query: QueryConfig{
			TopK:           viper.GetInt("QUERY_TOP_K"),
			MaxQueryLength: viper.GetInt("QUERY_MAX_LENGTH"),
			StoreTimeout:   time.Duration(viper.GetInt("QUERY_STORE_TIMEOUT")) * time.Second,
		},

		// Browser configurations
		Browser: BrowserConfig{
			ExecPath: viper.GetString("BROWSER_EXEC_PATH"),
			Headless: viper.GetBool("BROWSER_HEADLESS"),
		},

		// Application configurations
		AppEnv:   viper.GetString("APP_ENV"),
		LogLevel: viper.GetString("LOG_LEVEL"),
	}
}
