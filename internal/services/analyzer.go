package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	AnalysisMaxTokens      = 4000
	AnalysisTemperature    = 0.3
	DefaultUpstreamTimeout = 60 * time.Second

	previewLimit = 200
)

type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisOutcome, error)
}

type AnalyzerConfig struct {
	// Timeout bounds the single generation call. Zero means DefaultUpstreamTimeout.
	Timeout  time.Duration
	Logger   *zap.Logger
	Metrics  *Metrics
	Progress ProgressFunc
}

type analyzer struct {
	factory       GeneratorFactory
	promptBuilder *PromptBuilder
	timeout       time.Duration
	log           *zap.Logger
	metrics       *Metrics
	progress      ProgressFunc
	newID         func() uuid.UUID
}

func NewAnalyzer(factory GeneratorFactory, cfg AnalyzerConfig) Analyzer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &analyzer{
		factory:       factory,
		promptBuilder: NewPromptBuilder(),
		timeout:       timeout,
		log:           logger.OrNop(cfg.Logger),
		metrics:       metrics,
		progress:      cfg.Progress,
		newID:         uuid.New,
	}
}

// Analyze runs one evaluation: validate, prompt, a single provider call, parse.
// Every returned error is an *AnalysisError.
func (a *analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisOutcome, error) {
	id := a.newID()
	log := a.log.With(
		zap.String("analysis_id", id.String()),
		zap.String("provider", a.factory.Provider()),
		zap.String("model", a.factory.Model()),
	)

	jobDescription, err := ValidateRequest(req, a.factory.CredentialPrefix())
	if err != nil {
		return nil, a.fail(log, err)
	}
	a.report(MilestoneValidated)

	prompt := a.promptBuilder.BuildAnalysisPrompt(jobDescription, req.Fallback)
	log.Debug("prompt built",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("resume_bytes", len(req.Resume.Data)),
		zap.Bool("fallback", req.Fallback),
	)

	generator, err := a.factory.NewGenerator(ctx, req.Credential)
	if err != nil {
		return nil, a.fail(log, fmt.Errorf("failed to create generator: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.report(MilestoneRequestSent)
	started := time.Now()
	raw, err := generator.Generate(callCtx, GenerationRequest{
		Prompt:         prompt,
		Attachment:     req.Resume.Data,
		AttachmentType: req.Resume.MediaType,
		MaxTokens:      AnalysisMaxTokens,
		Temperature:    AnalysisTemperature,
	})
	elapsed := time.Since(started)
	a.metrics.UpstreamDuration.WithLabelValues(a.factory.Provider()).Observe(elapsed.Seconds())
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return nil, a.fail(log.With(zap.Duration("duration", elapsed)), err)
	}
	a.report(MilestoneResponseReceived)

	log.Debug("response received",
		zap.Duration("duration", elapsed),
		zap.Int("response_length", len(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, previewLimit)),
	)

	result := Parse(raw)
	a.report(MilestoneParseComplete)

	status := models.ExtractionSuccess
	if req.Fallback {
		status = models.ExtractionFallback
	}

	a.metrics.AnalysesTotal.WithLabelValues(string(status)).Inc()
	log.Info("analysis completed",
		zap.Duration("duration", elapsed),
		zap.String("extraction_status", string(status)),
		zap.Int("total_score", result.TotalScore),
		zap.Int("categories", result.CategoryScores.Len()),
	)

	return &models.AnalysisOutcome{
		ID:               id,
		Analysis:         raw,
		ExtractionStatus: status,
		Result:           result,
	}, nil
}

func (a *analyzer) fail(log *zap.Logger, err error) *AnalysisError {
	analysisErr := ClassifyUpstreamError(err)

	a.metrics.RecordFailure(analysisErr.Kind)

	if analysisErr.Kind == KindValidation {
		log.Info("analysis rejected", zap.String("reason", analysisErr.Message))
	} else {
		log.Error("analysis failed",
			zap.String("kind", string(analysisErr.Kind)),
			zap.Int("status", analysisErr.Status),
			zap.Error(err),
		)
	}

	return analysisErr
}

func (a *analyzer) report(m Milestone) {
	if a.progress != nil {
		a.progress(m)
	}
}
