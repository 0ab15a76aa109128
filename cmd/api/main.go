package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/data/store"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/handlers"
	"github.com/doctalk-ai/doctalk/internal/job"
	"github.com/doctalk-ai/doctalk/internal/rag"
	"github.com/doctalk-ai/doctalk/internal/rag/chunker"
	"github.com/doctalk-ai/doctalk/internal/rag/embedding/googleEmbedding"
	"github.com/doctalk-ai/doctalk/internal/rag/ingest"
	"github.com/doctalk-ai/doctalk/internal/rag/language"
	"github.com/doctalk-ai/doctalk/internal/rag/language/linguaDetect"
	"github.com/doctalk-ai/doctalk/internal/rag/llm/openaiLLM"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex/memoryIndex"
	"github.com/doctalk-ai/doctalk/internal/rag/vectorIndex/qdrantIndex"
	"github.com/doctalk-ai/doctalk/internal/registry"
	"github.com/doctalk-ai/doctalk/internal/server"
	"github.com/doctalk-ai/doctalk/internal/worker"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var (
	listenAddr        string
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

	//job store: redis with in-memory fallback
	var jobStore jobModel.JobStore
	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		jobStore = redisJobStore
	} else {
		logger.Warn("redis is offline, job state will not survive restarts")
		jobStore = store.InitInMemoryJobStore()
	}

	jobService := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey())
	llmProvider := openaiLLM.GetOpenAIClient(serviceContext, config.GenerationModel, config.GenerationAPIKey())

	if embeddingService == nil || llmProvider == nil {
		logger.Error("one or more external services failed to initialize, shutting down",
			"embeddingService", embeddingService != nil, "llmProvider", llmProvider != nil)
		return
	}

	index := buildVectorIndex(serviceContext, logger, embeddingService.Dimension())
	if index == nil {
		return
	}

	splitter, err := chunker.New(
		config.EnvIntOr("CHUNK_SIZE", config.ChunkSize),
		config.EnvIntOr("CHUNK_OVERLAP", config.ChunkOverlap),
	)
	if err != nil {
		logger.Error("invalid chunking configuration, shutting down", "error", err)
		return
	}

	catalog := registry.New()
	normalizer := language.NewNormalizer(linguaDetect.GetDetector(), language.NewLLMTranslator(llmProvider))
	pipeline := ingest.NewPipeline(splitter, embeddingService, index, catalog, normalizer)
	ragService := rag.NewService(index, llmProvider, embeddingService, catalog, normalizer, pipeline)

	handlers.InitHandlers(jobService, ragService, catalog)

	//init worker pool
	worker.InitServices(jobService, ragService)
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
	logger.Info("server stopped")
}

func buildVectorIndex(ctx context.Context, logger *logger_i.Logger, dimension int32) vectorIndex.Index {
	switch config.VectorBackend() {
	case "qdrant":
		holder := qdrantIndex.GetQdrantClient(ctx)
		if holder == nil {
			logger.Error("qdrant backend selected but unreachable, shutting down")
			return nil
		}
		logger.Info("using qdrant vector backend")
		return holder
	default:
		index, err := memoryIndex.New(dimension)
		if err != nil {
			logger.Error("invalid index configuration, shutting down", "error", err)
			return nil
		}
		logger.Info("using in-memory vector backend", "dimension", dimension)
		return index
	}
}
