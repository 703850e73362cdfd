package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

type ErrorKind string

const (
	KindValidation             ErrorKind = "validation"
	KindAuthentication         ErrorKind = "authentication"
	KindRateLimit              ErrorKind = "rate_limit"
	KindRequestTooLarge        ErrorKind = "request_too_large"
	KindInvalidUpstreamRequest ErrorKind = "invalid_request"
	KindUnsupportedCharacters  ErrorKind = "unsupported_characters"
	KindGenericUpstream        ErrorKind = "upstream"
)

// AnalysisError is the error every analysis failure surfaces as. Message is safe
// to show to the caller; Status is the HTTP status it maps to.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AnalysisError {
	return &AnalysisError{
		Kind:    KindValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// IsKind reports whether err is an AnalysisError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var analysisErr *AnalysisError
	return errors.As(err, &analysisErr) && analysisErr.Kind == kind
}

var (
	authStatusPattern      = regexp.MustCompile(`\b401\b`)
	rateStatusPattern      = regexp.MustCompile(`\b429\b`)
	badRequestPattern      = regexp.MustCompile(`\b400\b`)
	tooLargeStatusPattern  = regexp.MustCompile(`\b413\b`)
	authenticationPhrases  = []string{"authentication", "unauthorized", "api key not valid", "api_key_invalid"}
	rateLimitPhrases       = []string{"rate limit", "rate_limit"}
	tooLargePhrases        = []string{"context_length", "too long", "too large", "request_too_large"}
	badRequestPhrases      = []string{"bad request", "invalid_request"}
	unsupportedCharPhrases = []string{"invalid header field", "headers", "iso-8859-1"}
)

// ClassifyUpstreamError maps a failure from the generation provider onto the
// error taxonomy. Checks run in priority order: authentication, rate limit,
// bad request (size first), encoding, then generic.
func ClassifyUpstreamError(err error) *AnalysisError {
	if err == nil {
		return nil
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr
	}

	status := upstreamStatus(err)

	// transport timeouts mention "awaiting headers" and must not read as an encoding failure
	if status == 0 && errors.Is(err, context.DeadlineExceeded) {
		return &AnalysisError{
			Kind:    KindGenericUpstream,
			Message: "Analysis failed: the analysis timed out before the provider responded",
			Status:  http.StatusInternalServerError,
			Err:     err,
		}
	}

	message := strings.ToLower(err.Error())

	switch {
	case status == http.StatusUnauthorized ||
		authStatusPattern.MatchString(message) ||
		containsAny(message, authenticationPhrases):
		return &AnalysisError{
			Kind:    KindAuthentication,
			Message: "Invalid API key. Please check your API key and try again.",
			Status:  http.StatusUnauthorized,
			Err:     err,
		}

	case status == http.StatusTooManyRequests ||
		rateStatusPattern.MatchString(message) ||
		containsAny(message, rateLimitPhrases):
		return &AnalysisError{
			Kind:    KindRateLimit,
			Message: "Rate limit exceeded. Please try again in a few minutes.",
			Status:  http.StatusTooManyRequests,
			Err:     err,
		}

	case status == http.StatusRequestEntityTooLarge ||
		tooLargeStatusPattern.MatchString(message) ||
		containsAny(message, tooLargePhrases):
		return &AnalysisError{
			Kind:    KindRequestTooLarge,
			Message: "The resume or job description is too long. Please try with shorter content.",
			Status:  http.StatusBadRequest,
			Err:     err,
		}

	case status == http.StatusBadRequest ||
		badRequestPattern.MatchString(message) ||
		containsAny(message, badRequestPhrases):
		return &AnalysisError{
			Kind:    KindInvalidUpstreamRequest,
			Message: "Invalid request. Please check your inputs and try again.",
			Status:  http.StatusBadRequest,
			Err:     err,
		}

	case containsAny(message, unsupportedCharPhrases):
		return &AnalysisError{
			Kind:    KindUnsupportedCharacters,
			Message: "Text contains unsupported characters. Please check your job description for special characters.",
			Status:  http.StatusBadRequest,
			Err:     err,
		}
	}

	return &AnalysisError{
		Kind:    KindGenericUpstream,
		Message: fmt.Sprintf("Analysis failed: %s", err.Error()),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// upstreamStatus pulls the HTTP status out of typed provider errors, 0 when unknown.
func upstreamStatus(err error) int {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}

	var geminiErrPtr *genai.APIError
	if errors.As(err, &geminiErrPtr) && geminiErrPtr != nil {
		return geminiErrPtr.Code
	}

	return 0
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
