package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

const geminiModel = "gemini-2.5-flash"

type GeminiProvider struct {
	client  *genai.Client
	usage   Usage
	pricing RequestPricing
}

// NewGeminiProvider creates a provider for the Gemini API. A non-empty
// baseURL overrides the API endpoint.
func NewGeminiProvider(ctx context.Context, apiKey, baseURL string, pricing RequestPricing) (*GeminiProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		pricing: pricing,
	}, nil
}

func (p *GeminiProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *GeminiProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *GeminiProvider) Name() string {
	return geminiModel
}

func (p *GeminiProvider) Pronounce(ctx context.Context, req PronunciationRequest) (*roster.Pronunciation, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPronunciationPrompt(req)}},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastError error
	var lastResponse string

	for range constants.MaxPronunciationRetries {
		result, err := p.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini API error: %w", err)
		}

		if result.UsageMetadata != nil {
			p.usage.add(int64(result.UsageMetadata.PromptTokenCount), int64(result.UsageMetadata.CandidatesTokenCount), p.pricing)
		}

		content := result.Text()
		if content == "" {
			return nil, errors.New("no response from Gemini")
		}
		lastResponse = content

		pron, err := parsePronunciation(content)
		if err != nil {
			lastError = err

			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: content}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: repairPrompt(err)}},
				},
			)
			continue
		}

		pron.HardwareSafe = roster.HardwareSafeName(req.PlayerName)
		return pron, nil
	}

	return nil, fmt.Errorf("failed to parse pronunciation JSON after %d attempts: %w (last response: %s)",
		constants.MaxPronunciationRetries, lastError, lastResponse)
}
