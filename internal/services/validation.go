package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const MinJobDescriptionLength = 50

// Basic Latin (printable), Latin-1 Supplement, Latin Extended-A and -B.
var latinText = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0020, Hi: 0x007E, Stride: 1},
		{Lo: 0x00A0, Hi: 0x024F, Stride: 1},
	},
}

// NormalizeJobDescription strips control and non-Latin characters and collapses
// whitespace. Line breaks become single spaces.
func NormalizeJobDescription(text string) string {
	t := transform.Chain(
		runes.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.In(unicode.Cc)),
		runes.Remove(runes.NotIn(latinText)),
	)

	cleaned, _, err := transform.String(t, text)
	if err != nil {
		// transform only fails on invalid state, fall back to the raw text.
		cleaned = text
	}

	return strings.Join(strings.Fields(cleaned), " ")
}

// ValidateRequest checks the request shape and returns the normalized job
// description to embed in the prompt.
func ValidateRequest(req models.AnalysisRequest, credentialPrefix string) (string, error) {
	if strings.TrimSpace(req.Credential) == "" ||
		strings.TrimSpace(req.JobDescription) == "" ||
		len(req.Resume.Data) == 0 {
		return "", NewValidationError("Missing required fields")
	}

	if credentialPrefix != "" && !strings.HasPrefix(strings.TrimSpace(req.Credential), credentialPrefix) {
		return "", NewValidationError(fmt.Sprintf(
			"Invalid API key format. API keys for this provider should start with '%s'", credentialPrefix))
	}

	if req.Resume.MediaType != models.MediaTypePDF {
		return "", NewValidationError("Please upload a valid PDF file")
	}

	jobDescription := NormalizeJobDescription(req.JobDescription)
	if utf8.RuneCountInString(jobDescription) < MinJobDescriptionLength {
		return "", NewValidationError("Job description is too short. Please provide a more detailed job description.")
	}

	return jobDescription, nil
}
