package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking - window of ChunkSize chars advanced with stride ChunkSize-ChunkOverlap
	ChunkSize    = 1000
	ChunkOverlap = 100

	//retrieval
	AnswerTopK   = 3
	SummaryTopK  = 5
	SummaryQuery = "main policy highlights and overview"

	//generation
	AnswerMaxTokens    int64 = 500
	SummaryMaxTokens   int64 = 400
	AnswerTemperature        = 0.2
	SummaryTemperature       = 0.3

	//embeddings - dimension must match the model; all query and chunk
	//vectors in one index come from the same model
	EmbeddingModel     = "sentence-transformers/all-MiniLM-L6-v2"
	EmbeddingDimension = 384
	HFRouterBaseURL    = "https://router.huggingface.co/v1"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	//orchestrator boundary strings - the UI decides by prefix inspection
	ErrorPrefix              = "❌"
	RetryPrefix              = "⚠️"
	NoDocumentAnswerMessage  = "Please upload a PDF first."
	NoDocumentSummaryMessage = "No document uploaded."
	ModelLoadingMessage      = "⚠️ The language model is currently loading. Please try again in 30-60 seconds."

	//durable files
	ResponseCacheFile = "llm_cache.json"
	ChatHistoryDir    = "chat_history"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//the remote services set no timeout of their own, so every pipeline
	//call site runs under this
	PipelineCallTimeout = 45 * time.Second

	ServerListenAddr = ":3000"
	BufferLimit      = 100

	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantCollectionName   = "training-doc"
	QdrantConnectTimeout   = 30 * time.Second

	//tts
	SpeechMaxChars       = 1500
	SpeechCommandTimeout = 30 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisJobStore     = 0
	RedisMessageStore = 1

	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour

	RedisPassword = ""
)

// Credentials come from the environment, never from source.
var (
	HFAPIKey     = os.Getenv("HF_API_KEY")
	GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	AuthToken    = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass = os.Getenv("API_AUTH_TOKEN") == ""
)

// Deployment-selectable backends, with the defaults the service ships
// with. A Gemini deployment sets MODEL_BACKEND=google and overrides
// PRIMARY_MODEL/FALLBACK_MODEL with Gemini model names.
var (
	//"memory" or "qdrant"
	VectorIndexBackend = envOr("VECTOR_INDEX_BACKEND", "memory")
	//"hf" or "google"
	ModelBackend = envOr("MODEL_BACKEND", "hf")

	PrimaryModel  = envOr("PRIMARY_MODEL", "meta-llama/Meta-Llama-3-8B-Instruct")
	FallbackModel = envOr("FALLBACK_MODEL", "Qwen/Qwen2.5-7B-Instruct")
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
