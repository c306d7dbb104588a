package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/TrainingBot/internal/cache"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/data/historyStore"
	"github.com/akolanti/TrainingBot/internal/data/store"
	"github.com/akolanti/TrainingBot/internal/domain/jobModel"
	"github.com/akolanti/TrainingBot/internal/handlers"
	"github.com/akolanti/TrainingBot/internal/job"
	"github.com/akolanti/TrainingBot/internal/rag"
	"github.com/akolanti/TrainingBot/internal/rag/embedding"
	"github.com/akolanti/TrainingBot/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/TrainingBot/internal/rag/embedding/hfEmbedding"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/internal/rag/llm/gemini"
	"github.com/akolanti/TrainingBot/internal/rag/llm/hfChat"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex/memoryindex"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex/qdrantIndex"
	"github.com/akolanti/TrainingBot/internal/server"
	"github.com/akolanti/TrainingBot/internal/tts"
	"github.com/akolanti/TrainingBot/internal/worker"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service with redis stores, falling back to local storage
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	if messageStore := store.GetRedisMessageStore(serviceContext); messageStore != nil {
		serviceConfig.MessageStore = messageStore
	} else {
		logger.Error("Redis message store is offline, using file history store")
		fileStore, err := historyStore.GetFileHistoryStore()
		if err != nil {
			logger.Error("Could not initialize file history store. Shutting down.", "error", err)
			return
		}
		serviceConfig.MessageStore = fileStore
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	var index vectorindex.Index
	if config.VectorIndexBackend == "qdrant" {
		if qdrantStore := qdrantIndex.GetQdrantIndex(serviceContext); qdrantStore != nil {
			index = qdrantStore
		} else {
			logger.Error("Qdrant is offline, using the in-memory index")
		}
	}
	if index == nil {
		index = memoryindex.NewStore()
	}

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	if config.ModelBackend == "google" {
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GoogleAPIKey)
	} else {
		embeddingService = hfEmbedding.GetHFEmbeddingClient(config.EmbeddingModel, config.HFAPIKey)
		llmProvider = hfChat.GetHFChatClient(config.HFAPIKey)
	}

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		return
	}

	responseCache := cache.New(config.ResponseCacheFile)
	ragService := rag.NewService(index, llmProvider, embeddingService, responseCache)

	synthesizer := tts.NewSynthesizer(os.TempDir())
	handlers.InitJobHandler(service, ragService, synthesizer)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
