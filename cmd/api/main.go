package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	// Generation provider
	factory, err := services.NewGeneratorFactory(services.ProviderConfig{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model(),
		BaseURL:  cfg.LLM.BaseURL(),
	})
	if err != nil {
		zlog.Fatal("failed to configure llm provider", zap.Error(err))
	}
	zlog.Info("llm provider configured",
		zap.String("provider", factory.Provider()),
		zap.String("model", factory.Model()),
		zap.Duration("upstream_timeout", cfg.LLM.UpstreamTimeout),
	)

	analyzer := services.NewAnalyzer(factory, services.AnalyzerConfig{
		Timeout: cfg.LLM.UpstreamTimeout,
		Logger:  zlog,
		Metrics: metrics,
	})

	var probe services.ResumeProbe
	if cfg.Resume.ProbeEnabled {
		probe = services.NewResumeProbe()
		zlog.Info("resume probe enabled")
	}

	// Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(
		analyzer,
		services.NewResumeLoader(cfg.Resume.MinFileSize, cfg.Resume.MaxFileSize),
		probe,
		metrics,
		zlog,
	)
	parseHandler := handlers.NewParseHandler()

	app := handlers.NewApp(handlers.AppConfig{
		Analyze:  analyzeHandler,
		Parse:    parseHandler,
		Gatherer: registry,
		Logger:   zlog,
		// base64 inflates the resume by a third, plus room for the other fields
		BodyLimit:    int(cfg.Resume.MaxFileSize*4/3) + 1<<20,
		WriteTimeout: cfg.LLM.UpstreamTimeout + cfg.LLM.UpstreamTimeout/2,
		AccessLog:    !cfg.IsProduction(),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
