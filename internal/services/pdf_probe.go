package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ProbeResult describes what a local read of the resume found.
type ProbeResult struct {
	PageCount int
	HasText   bool
}

// Usable reports whether the resume has content the model can work from.
func (r ProbeResult) Usable() bool {
	return r.PageCount > 0 && r.HasText
}

// ResumeProbe checks a PDF for extractable text before it is sent. It only
// decides whether an analysis runs in fallback mode.
type ResumeProbe interface {
	Probe(data []byte) (*ProbeResult, error)
}

type resumeProbe struct{}

func NewResumeProbe() ResumeProbe {
	return &resumeProbe{}
}

func (p *resumeProbe) Probe(data []byte) (result *ProbeResult, err error) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	result = &ProbeResult{PageCount: r.NumPage()}
	for pageIndex := 1; pageIndex <= result.PageCount; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if strings.TrimSpace(text) != "" {
			result.HasText = true
			break
		}
	}

	return result, nil
}

// NeedsFallback runs the probe and reports whether the resume should be analyzed
// in fallback mode. A nil probe never asks for fallback.
func NeedsFallback(probe ResumeProbe, data []byte) (bool, error) {
	if probe == nil {
		return false, nil
	}
	result, err := probe.Probe(data)
	if err != nil {
		return true, err
	}
	return !result.Usable(), nil
}
