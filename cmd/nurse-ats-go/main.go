package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"nurse-ats-go/internal/agent"
	"nurse-ats-go/internal/api/handler"
	"nurse-ats-go/internal/api/router"
	"nurse-ats-go/internal/config"
	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/parser"
	"nurse-ats-go/internal/processor"
	"nurse-ats-go/internal/storage"
	"nurse-ats-go/internal/tracing"
)

func main() {
	configPath := pflag.String("config", "", "path to config.yaml")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	logger.Logger = logger.Logger.With().Str("app", "nurse-ats-go").Logger()
	hlog.SetLogger(hertzzerolog.From(logger.Logger))

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer storageManager.Close()

	resumeService, err := buildResumeService(ctx, cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build resume pipeline")
	}

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	router.RegisterRoutes(h, handler.NewResumeHandler(resumeService), cfg.Server.APIKeys)

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()
	logger.Info().Str("address", cfg.Server.Address).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("tracing shutdown failed")
	}
	logger.Info().Msg("shutdown complete")
}

// buildResumeService wires the decoder, the hybrid extractor and the storage
// backends into the upload pipeline.
func buildResumeService(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*processor.ResumeService, error) {
	decoder, err := parser.NewDocumentDecoder(ctx)
	if err != nil {
		return nil, err
	}

	var llm processor.LlmExtractor
	if cfg.LLM.APIKey != "" && !cfg.Parser.DisableLLMFallback {
		chatModel, err := agent.NewQwenChatModel(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.APIURL, cfg.LLM.Temperature)
		if err != nil {
			logger.Warn().Err(err).Msg("llm model init failed, fallback disabled")
		} else {
			llm = parser.NewLLMExtractor(chatModel,
				parser.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second))
		}
	} else {
		logger.Info().Msg("llm fallback disabled")
	}

	extractor := processor.NewHybridExtractor(llm, cfg.Parser.ConfidenceThreshold)

	var cache processor.DedupCache
	if storageManager.Redis != nil {
		cache = storageManager.Redis
	}
	var events processor.EventPublisher
	if storageManager.RabbitMQ != nil {
		events = storageManager.RabbitMQ
	}

	return processor.NewResumeService(
		storageManager.MinIO,
		storageManager.MySQL,
		cache,
		events,
		decoder,
		extractor,
	), nil
}
