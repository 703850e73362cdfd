package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel  = "claude-3-5-sonnet-20241022"
	anthropicKeyPrefix     = "sk-ant-"
	anthropicTextBlockType = "text"
)

type anthropicFactory struct {
	model   string
	baseURL string
}

func NewAnthropicFactory(model, baseURL string) GeneratorFactory {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicFactory{
		model:   model,
		baseURL: strings.TrimSpace(baseURL),
	}
}

func (f *anthropicFactory) NewGenerator(_ context.Context, credential string) (Generator, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, errors.New("anthropic api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(credential),
		// one attempt per analysis; failures surface immediately
		option.WithMaxRetries(0),
	}
	if f.baseURL != "" {
		opts = append(opts, option.WithBaseURL(f.baseURL))
	}

	return &anthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  f.model,
	}, nil
}

func (f *anthropicFactory) Provider() string         { return ProviderAnthropic }
func (f *anthropicFactory) Model() string            { return f.model }
func (f *anthropicFactory) CredentialPrefix() string { return anthropicKeyPrefix }

type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

// Generate sends the prompt and the PDF as a base64 document block in one user message.
func (g *anthropicGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	blocks := []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(req.Prompt),
	}
	if len(req.Attachment) > 0 {
		blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
			Data: base64.StdEncoding.EncodeToString(req.Attachment),
		}))
	}

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type != anthropicTextBlockType {
			continue
		}
		parts = append(parts, block.Text)
	}

	output := joinTextParts(parts)
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	return output, nil
}
