package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiKeyPrefix    = "AIza"
)

type geminiFactory struct {
	model   string
	baseURL string
}

func NewGeminiFactory(model, baseURL string) GeneratorFactory {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &geminiFactory{
		model:   model,
		baseURL: strings.TrimSpace(baseURL),
	}
}

func (f *geminiFactory) NewGenerator(ctx context.Context, credential string) (Generator, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	}
	if f.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: f.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiGenerator{client: client, modelName: f.model}, nil
}

func (f *geminiFactory) Provider() string         { return ProviderGemini }
func (f *geminiFactory) Model() string            { return f.model }
func (f *geminiFactory) CredentialPrefix() string { return geminiKeyPrefix }

type geminiGenerator struct {
	client    *genai.Client
	modelName string
}

// Generate implements Generator.
func (g *geminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Attachment) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment, req.AttachmentType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	var texts []string
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			texts = append(texts, part.Text)
		}
	}

	output := joinTextParts(texts)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
