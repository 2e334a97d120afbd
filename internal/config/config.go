package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Keys   APIKeys
	Ai     AIConfig
	Search SearchConfig
	Otel   OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	StaticDir          string
	NatsURL            string
	RedisURL           string
}

type APIKeys struct {
	OpenAI       string
	HuggingFace  string
	GoogleGemini string
	GroundX      string
}

type AIConfig struct {
	LLMProvider   string // "openai", "huggingface", "ollama", "gemini"
	LLMModel      string // e.g. "gpt-4o", "llama3"
	OpenAIBaseURL string
	OllamaBaseURL string
	Timeout       time.Duration
}

type SearchConfig struct {
	Provider         string // "groundx" or "elastic"
	GroundXBaseURL   string
	GroundXBucketID  int
	ElasticAddresses []string
	ElasticUsername  string
	ElasticPassword  string
	ElasticIndex     string
	Timeout          time.Duration
	CacheTTL         time.Duration // 0 disables the cache
	CacheBackend     string        // "memory" or "redis"
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/queries.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:          getEnv("STATIC_DIR", "./static"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GroundX:      getEnv("GROUNDX_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Search: SearchConfig{
			Provider:         getEnv("SEARCH_PROVIDER", "groundx"),
			GroundXBaseURL:   getEnv("GROUNDX_BASE_URL", "https://api.groundx.ai/api/v1"),
			GroundXBucketID:  getEnvAsInt("GROUNDX_BUCKET_ID", 11795),
			ElasticAddresses: getEnvAsList("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			ElasticUsername:  getEnv("ELASTICSEARCH_USERNAME", ""),
			ElasticPassword:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			ElasticIndex:     getEnv("SEARCH_INDEX", "documents"),
			Timeout:          getEnvAsDuration("SEARCH_TIMEOUT", 30*time.Second),
			CacheTTL:         getEnvAsDuration("SEARCH_CACHE_TTL", 0),
			CacheBackend:     getEnv("SEARCH_CACHE_BACKEND", "memory"),
		},
		Otel: OtelConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "doctech-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
