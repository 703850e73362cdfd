package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const errorSchema = `{
	"type": "object",
	"required": ["error"],
	"additionalProperties": false,
	"properties": {
		"error": {"type": "string", "minLength": 1}
	}
}`

const analyzeSchema = `{
	"type": "object",
	"required": ["analysis", "extractionStatus", "result"],
	"properties": {
		"analysis": {"type": "string"},
		"extractionStatus": {"enum": ["success", "fallback"]},
		"result": {
			"type": "object",
			"required": ["categoryScores", "totalScore", "strengths", "weaknesses", "improvementTips", "atsConsiderations"],
			"properties": {
				"categoryScores": {"type": "object", "additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}},
				"totalScore": {"type": "integer", "minimum": 0, "maximum": 100},
				"strengths": {"type": "array", "items": {"type": "string"}},
				"weaknesses": {"type": "array", "items": {"type": "string"}},
				"improvementTips": {"type": "array", "items": {"type": "string"}},
				"atsConsiderations": {"type": "string"}
			}
		}
	}
}`

const modelAnswer = `<scores>
Relevant Experience: 20/25
Skills Match: 18/25
</scores>
<total_score>
81
</total_score>
<strengths_and_weaknesses>
Strengths:
- Strong Go background
Weaknesses:
- No Kubernetes
</strengths_and_weaknesses>
<improvement_tips>
1. Mention Kubernetes
</improvement_tips>
<ats_considerations>
Clean single-column layout.
</ats_considerations>`

var analysisID = uuid.MustParse("0d6b1f8e-8c1a-4b9e-9a57-5b8f3e2a1c44")

type stubAnalyzer struct {
	err      error
	panics   bool
	requests []models.AnalysisRequest
}

func (a *stubAnalyzer) Analyze(_ context.Context, req models.AnalysisRequest) (*models.AnalysisOutcome, error) {
	a.requests = append(a.requests, req)
	if a.panics {
		panic("boom")
	}
	if a.err != nil {
		return nil, a.err
	}

	status := models.ExtractionSuccess
	if req.Fallback {
		status = models.ExtractionFallback
	}
	return &models.AnalysisOutcome{
		ID:               analysisID,
		Analysis:         modelAnswer,
		ExtractionStatus: status,
		Result:           services.Parse(modelAnswer),
	}, nil
}

type fixedProbe struct {
	result *services.ProbeResult
}

func (p fixedProbe) Probe([]byte) (*services.ProbeResult, error) {
	return p.result, nil
}

func resumePDF() []byte {
	data := bytes.Repeat([]byte("r"), 2048)
	copy(data, "%PDF-1.5\n")
	return data
}

func newTestApp(analyzer services.Analyzer, probe services.ResumeProbe) *fiber.App {
	return newTestAppWithMetrics(analyzer, probe, nil)
}

func newTestAppWithMetrics(analyzer services.Analyzer, probe services.ResumeProbe, metrics *services.Metrics) *fiber.App {
	return NewApp(AppConfig{
		Analyze: NewAnalyzeHandler(
			analyzer,
			services.NewResumeLoader(services.DefaultMinResumeSize, services.DefaultMaxResumeSize),
			probe,
			metrics,
			zap.NewNop(),
		),
		Parse:     NewParseHandler(),
		Gatherer:  prometheus.NewRegistry(),
		BodyLimit: 16 << 20,
	})
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="resumeFile"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func assertSchema(t *testing.T, schema string, body []byte) {
	t.Helper()

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	require.NoError(t, err, string(body))
	assert.True(t, result.Valid(), "body %s violates schema: %v", body, result.Errors())
}

func assertError(t *testing.T, resp *http.Response, body []byte, status int, message string) {
	t.Helper()

	assert.Equal(t, status, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assertSchema(t, errorSchema, body)

	var payload models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, message, payload.Error)
}

func TestAnalyzeWithUploadedFile(t *testing.T) {
	analyzer := &stubAnalyzer{}
	app := newTestApp(analyzer, nil)

	req := multipartRequest(t, map[string]string{
		"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
	}, &formFile{name: "resume.pdf", contentType: "application/pdf", data: resumePDF()})
	req.Header.Set("api-key", "sk-ant-test")

	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, analysisID.String(), resp.Header.Get(HeaderAnalysisID))
	assertSchema(t, analyzeSchema, body)

	var payload models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, modelAnswer, payload.Analysis)
	assert.Equal(t, models.ExtractionSuccess, payload.ExtractionStatus)
	assert.Equal(t, 81, payload.Result.TotalScore)
	assert.Equal(t, []string{"Strong Go background"}, payload.Result.Strengths)

	require.Len(t, analyzer.requests, 1)
	sent := analyzer.requests[0]
	assert.Equal(t, "sk-ant-test", sent.Credential)
	assert.Equal(t, resumePDF(), sent.Resume.Data)
	assert.Equal(t, "resume.pdf", sent.Resume.Filename)
	assert.False(t, sent.Fallback)
}

func TestAnalyzeWithDataURL(t *testing.T) {
	analyzer := &stubAnalyzer{}
	app := newTestApp(analyzer, nil)

	req := multipartRequest(t, map[string]string{
		"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
		"resume":         "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(resumePDF()),
	}, nil)
	req.Header.Set("x-api-key", "sk-ant-test")

	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Len(t, analyzer.requests, 1)
	assert.Equal(t, resumePDF(), analyzer.requests[0].Resume.Data)
}

func TestAnalyzeProbeSelectsFallback(t *testing.T) {
	analyzer := &stubAnalyzer{}
	app := newTestApp(analyzer, fixedProbe{result: &services.ProbeResult{PageCount: 1}})

	req := multipartRequest(t, map[string]string{
		"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
	}, &formFile{name: "scan.pdf", contentType: "application/pdf", data: resumePDF()})
	req.Header.Set("api-key", "sk-ant-test")

	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"extractionStatus":"fallback"`)
	require.Len(t, analyzer.requests, 1)
	assert.True(t, analyzer.requests[0].Fallback)
}

func TestAnalyzeMissingFields(t *testing.T) {
	tests := map[string]struct {
		header string
		fields map[string]string
		file   *formFile
	}{
		"no api key": {
			fields: map[string]string{"jobDescription": "Go engineer"},
			file:   &formFile{name: "r.pdf", contentType: "application/pdf", data: resumePDF()},
		},
		"no job description": {
			header: "sk-ant-test",
			file:   &formFile{name: "r.pdf", contentType: "application/pdf", data: resumePDF()},
		},
		"no resume": {
			header: "sk-ant-test",
			fields: map[string]string{"jobDescription": "Go engineer"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			analyzer := &stubAnalyzer{}
			metrics := services.NewMetrics(prometheus.NewRegistry())
			app := newTestAppWithMetrics(analyzer, nil, metrics)

			req := multipartRequest(t, tt.fields, tt.file)
			if tt.header != "" {
				req.Header.Set("api-key", tt.header)
			}

			resp, body := doRequest(t, app, req)
			assertError(t, resp, body, http.StatusBadRequest, "Missing required fields")
			assert.Empty(t, analyzer.requests)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.UpstreamErrors.WithLabelValues(string(services.KindValidation))))
		})
	}
}

func TestAnalyzeRejectsNonPDF(t *testing.T) {
	analyzer := &stubAnalyzer{}
	metrics := services.NewMetrics(prometheus.NewRegistry())
	app := newTestAppWithMetrics(analyzer, nil, metrics)

	req := multipartRequest(t, map[string]string{
		"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
	}, &formFile{name: "resume.png", contentType: "image/png", data: resumePDF()})
	req.Header.Set("api-key", "sk-ant-test")

	resp, body := doRequest(t, app, req)
	assertError(t, resp, body, http.StatusBadRequest, "Please upload a valid PDF file")
	assert.Empty(t, analyzer.requests)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.UpstreamErrors.WithLabelValues(string(services.KindValidation))))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues("error")))
}

func TestAnalyzeMapsAnalysisErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "generic", err: services.ClassifyUpstreamError(assert.AnError), status: http.StatusInternalServerError},
		{name: "authentication", err: &services.AnalysisError{
			Kind:    services.KindAuthentication,
			Message: "Invalid API key. Please check your API key and try again.",
			Status:  http.StatusUnauthorized,
		}, status: http.StatusUnauthorized},
		{name: "too large", err: &services.AnalysisError{
			Kind:    services.KindRequestTooLarge,
			Message: "The resume or job description is too long. Please try with shorter content.",
			Status:  http.StatusBadRequest,
		}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubAnalyzer{err: tt.err}, nil)

			req := multipartRequest(t, map[string]string{
				"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
			}, &formFile{name: "resume.pdf", contentType: "application/pdf", data: resumePDF()})
			req.Header.Set("api-key", "sk-ant-test")

			resp, body := doRequest(t, app, req)

			var analysisErr *services.AnalysisError
			require.ErrorAs(t, tt.err, &analysisErr)
			assertError(t, resp, body, tt.status, analysisErr.Message)
			assert.Empty(t, resp.Header.Get(HeaderAnalysisID))
		})
	}
}

func TestAnalyzePanicIsJSON(t *testing.T) {
	app := newTestApp(&stubAnalyzer{panics: true}, nil)

	req := multipartRequest(t, map[string]string{
		"jobDescription": "Backend engineer with Go and PostgreSQL experience for a payments team.",
	}, &formFile{name: "resume.pdf", contentType: "application/pdf", data: resumePDF()})
	req.Header.Set("api-key", "sk-ant-test")

	resp, body := doRequest(t, app, req)
	assertError(t, resp, body, http.StatusInternalServerError, "Internal server error")
}

func TestBodyLimitIsJSON(t *testing.T) {
	app := NewApp(AppConfig{
		Analyze:   NewAnalyzeHandler(&stubAnalyzer{}, services.NewResumeLoader(0, 0), nil, nil, zap.NewNop()),
		BodyLimit: 1024,
	})

	req := multipartRequest(t, map[string]string{"jobDescription": strings.Repeat("x", 4096)}, nil)

	resp, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assertSchema(t, errorSchema, body)
}

func TestParseEndpoint(t *testing.T) {
	app := newTestApp(&stubAnalyzer{}, nil)

	payload, err := json.Marshal(models.ParseRequest{Analysis: modelAnswer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var parsed models.ParseResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, 81, parsed.Result.TotalScore)
	assert.Equal(t, models.RatingExcellent, parsed.Rating)
	assert.True(t, parsed.Structured)
	assert.Equal(t, []models.CategoryScore{
		{Name: "Relevant Experience", Score: 80},
		{Name: "Skills Match", Score: 72},
	}, parsed.Result.CategoryScores.Entries())
	assert.True(t, strings.Index(string(body), "Relevant Experience") < strings.Index(string(body), "Skills Match"))
}

func TestParseEndpointErrors(t *testing.T) {
	app := newTestApp(&stubAnalyzer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"analysis":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := doRequest(t, app, req)
	assertError(t, resp, body, http.StatusBadRequest, "analysis is required")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = doRequest(t, app, req)
	assertError(t, resp, body, http.StatusBadRequest, "Invalid request payload")
}

func TestAuxiliaryRoutes(t *testing.T) {
	app := newTestApp(&stubAnalyzer{}, nil)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "POST /api/v1/analyze")

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assertError(t, resp, body, http.StatusNotFound, "Route not found")
}
