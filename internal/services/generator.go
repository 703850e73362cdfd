package services

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// GenerationRequest is one text-plus-attachment call to the generation provider.
type GenerationRequest struct {
	Prompt         string
	Attachment     []byte
	AttachmentType string
	MaxTokens      int
	Temperature    float32
}

type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GeneratorFactory builds a Generator bound to one caller credential.
type GeneratorFactory interface {
	NewGenerator(ctx context.Context, credential string) (Generator, error)
	Provider() string
	Model() string
	CredentialPrefix() string
}

type ProviderConfig struct {
	Provider string
	Model    string
	BaseURL  string
}

func NewGeneratorFactory(cfg ProviderConfig) (GeneratorFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderAnthropic:
		return NewAnthropicFactory(cfg.Model, cfg.BaseURL), nil
	case ProviderGemini:
		return NewGeminiFactory(cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

func joinTextParts(parts []string) string {
	var builder strings.Builder
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}
	return builder.String()
}
