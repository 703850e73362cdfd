package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	HeaderAPIKey     = "api-key"
	HeaderXAPIKey    = "x-api-key"
	HeaderAnalysisID = "X-Analysis-ID"

	fieldJobDescription = "jobDescription"
	fieldResume         = "resume"
	fieldResumeFile     = "resumeFile"
)

type AnalyzeHandler struct {
	analyzer services.Analyzer
	loader   services.ResumeLoader
	probe    services.ResumeProbe
	metrics  *services.Metrics
	log      *zap.Logger
}

// NewAnalyzeHandler wires the analysis endpoint. probe may be nil, in which
// case every resume is sent as-is.
func NewAnalyzeHandler(
	analyzer services.Analyzer,
	loader services.ResumeLoader,
	probe services.ResumeProbe,
	metrics *services.Metrics,
	log *zap.Logger,
) *AnalyzeHandler {
	if metrics == nil {
		metrics = services.NewMetrics(nil)
	}
	return &AnalyzeHandler{
		analyzer: analyzer,
		loader:   loader,
		probe:    probe,
		metrics:  metrics,
		log:      log,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	credential := strings.TrimSpace(c.Get(HeaderAPIKey))
	if credential == "" {
		credential = strings.TrimSpace(c.Get(HeaderXAPIKey))
	}
	jobDescription := c.FormValue(fieldJobDescription)

	fileHeader, fileErr := c.FormFile(fieldResumeFile)
	encoded := c.FormValue(fieldResume)

	if credential == "" || strings.TrimSpace(jobDescription) == "" || (fileErr != nil && strings.TrimSpace(encoded) == "") {
		return h.reject(services.NewValidationError("Missing required fields"))
	}

	var (
		resume models.ResumeAttachment
		err    error
	)
	if fileErr == nil {
		resume, err = h.loader.FromFileHeader(fileHeader)
	} else {
		resume, err = h.loader.FromEncoded(encoded, "")
	}
	if err != nil {
		if services.IsKind(err, services.KindValidation) {
			return h.reject(err)
		}
		h.log.Error("failed to load resume", zap.Error(err))
		return h.reject(fiber.NewError(fiber.StatusBadRequest, "Failed to read the uploaded resume"))
	}

	fallback, err := services.NeedsFallback(h.probe, resume.Data)
	if err != nil {
		h.log.Warn("resume probe failed, using fallback", zap.String("filename", resume.Filename), zap.Error(err))
	}

	outcome, err := h.analyzer.Analyze(c.UserContext(), models.AnalysisRequest{
		JobDescription: jobDescription,
		Resume:         resume,
		Credential:     credential,
		Fallback:       fallback,
	})
	if err != nil {
		return err
	}

	c.Set(HeaderAnalysisID, outcome.ID.String())
	return c.JSON(models.AnalyzeResponse{
		Analysis:         outcome.Analysis,
		ExtractionStatus: outcome.ExtractionStatus,
		Result:           outcome.Result,
	})
}

// reject counts a request turned away before it reaches the analyzer.
func (h *AnalyzeHandler) reject(err error) error {
	h.metrics.RecordFailure(services.KindValidation)
	return err
}
