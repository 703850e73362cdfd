package models

import (
	"github.com/google/uuid"
)

const MediaTypePDF = "application/pdf"

type ExtractionStatus string

const (
	ExtractionSuccess  ExtractionStatus = "success"
	ExtractionFallback ExtractionStatus = "fallback"
)

type ResumeAttachment struct {
	Data      []byte
	MediaType string
	Filename  string
}

// AnalysisRequest is built once per submission and discarded after the analysis.
type AnalysisRequest struct {
	JobDescription string
	Resume         ResumeAttachment
	Credential     string

	// Fallback marks a resume whose content could not be used; the model is
	// then asked for general guidance instead of resume-specific feedback.
	Fallback bool
}

type AnalysisOutcome struct {
	ID               uuid.UUID
	Analysis         string
	ExtractionStatus ExtractionStatus
	Result           AnalysisResult
}
