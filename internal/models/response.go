package models

type AnalyzeResponse struct {
	Analysis         string           `json:"analysis"`
	ExtractionStatus ExtractionStatus `json:"extractionStatus"`
	Result           AnalysisResult   `json:"result"`
}

type ParseRequest struct {
	Analysis string `json:"analysis"`
}

type ParseResponse struct {
	Result     AnalysisResult `json:"result"`
	Rating     string         `json:"rating"`
	Structured bool           `json:"structured"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
