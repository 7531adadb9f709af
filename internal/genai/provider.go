package genai

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	gen "google.golang.org/genai"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
)

// Provider is the raw generative backend. Tests substitute a fake; the
// shipped implementation is Gemini.
type Provider interface {
	// GenerateJSON asks for a structured response (application/json) and
	// returns the raw text body, fences and all.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// GenerateImage returns the first inline image of the response.
	GenerateImage(ctx context.Context, prompt string) (mimeType string, data []byte, err error)
}

type geminiProvider struct {
	client *gen.Client
}

// NewGeminiProvider dials the Gemini API. The key comes from config;
// an empty key is rejected here rather than on first use.
func NewGeminiProvider(ctx context.Context, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New("genai: missing API key")
	}
	client, err := gen.NewClient(ctx, &gen.ClientConfig{
		APIKey:  apiKey,
		Backend: gen.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "genai: client init")
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, textModel, gen.Text(prompt), &gen.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", errors.Wrap(err, "genai: generate")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("genai: empty response")
	}
	return text, nil
}

func (p *geminiProvider) GenerateImage(ctx context.Context, prompt string) (string, []byte, error) {
	resp, err := p.client.Models.GenerateContent(ctx, imageModel, gen.Text(prompt), &gen.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "genai: generate image")
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.MIMEType, part.InlineData.Data, nil
			}
		}
	}
	return "", nil, fmt.Errorf("genai: response contained no image")
}
