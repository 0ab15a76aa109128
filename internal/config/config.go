package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkSize    = 2000
	ChunkOverlap = 200

	//retrieval
	TopK         = 5
	SummaryTopK  = 30
	QuestionTopK = 30

	//embeddings
	EmbeddingOutputDimensionality int32 = 1536
	GoogleEmbeddingModel                = "gemini-embedding-001"
	EmbeddingCallTimeout                = 30 * time.Second
	EmbeddingBatchSize                  = 100

	//llm generation
	GenerationModel       = "gemma2-9b-it"
	GenerationCallTimeout = 30 * time.Second
	GenerationRetryCount  = 1
	GenerationRetryDelay  = 2 * time.Second
	ModelTemperature      = 0.7
	ModelContext          = "You are a helpful assistant that answers questions about uploaded documents. Answer only from the provided context when possible. If the context does not contain the answer, say so."

	//translation
	TranslationCallTimeout = 20 * time.Second

	//languages
	FallbackLanguage = "en"
	//a summary prompt is capped so one generation call fits the model context
	SummaryCharLimit = 3200

	//worker pool (ingestion)
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vector index backend: "memory" (default) or "qdrant"
	DefaultVectorBackend = "memory"

	//qdrant (only when VECTOR_BACKEND=qdrant)
	QdrantCollectionName   = "doctalk-chunks"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""
	RedisJobStore = 0

	RedisJobStoreTTL = 24 * time.Hour

	//outbound http pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//mcp bridge
	MCPServerName     = "doctalk"
	MCPServerVersion  = "0.1.0"
	DefaultAPIBaseURL = "http://localhost:3000"
	MCPCallTimeout    = 90 * time.Second
)

// SupportedLanguages is the closed set of language codes the API accepts,
// keyed to human-readable names for prompt assembly and annotations.
var SupportedLanguages = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"nl":    "Dutch",
	"ru":    "Russian",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"bn":    "Bengali",
	"ur":    "Urdu",
	"te":    "Telugu",
	"ta":    "Tamil",
	"mr":    "Marathi",
	"gu":    "Gujarati",
}

func LanguageName(code string) string {
	if name, ok := SupportedLanguages[code]; ok {
		return name
	}
	return "Unknown (" + code + ")"
}

func IsSupportedLanguage(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}

// env overrides: constants above are the dev defaults, deployment
// reads these at startup

func EnvOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func EnvIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func VectorBackend() string {
	return EnvOr("VECTOR_BACKEND", DefaultVectorBackend)
}

func GenerationAPIKey() string {
	return os.Getenv("GENERATION_API_KEY")
}

// GenerationBaseURL points the openai client at any OpenAI-compatible
// endpoint (Groq by default, matching the generation model above).
func GenerationBaseURL() string {
	return EnvOr("GENERATION_BASE_URL", "https://api.groq.com/openai/v1")
}

func GoogleEmbeddingAPIKey() string {
	return os.Getenv("GOOGLE_EMBEDDING_API_KEY")
}
