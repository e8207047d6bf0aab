package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/kozaktomas/roster-sync/internal/constants"
	"github.com/kozaktomas/roster-sync/internal/roster"
)

const chatModel = openai.ChatModelGPT4_1Mini

type OpenAIProvider struct {
	client  *openai.Client
	usage   Usage
	pricing RequestPricing
}

// NewOpenAIProvider creates a provider for the OpenAI chat API.
// Extra request options (base URL, retries) are passed to the client.
func NewOpenAIProvider(apiKey string, pricing RequestPricing, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client:  &client,
		pricing: pricing,
	}
}

func (p *OpenAIProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *OpenAIProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *OpenAIProvider) Name() string {
	return chatModel
}

func (p *OpenAIProvider) Pronounce(ctx context.Context, req PronunciationRequest) (*roster.Pronunciation, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(buildPronunciationPrompt(req)),
	}

	var lastError error
	var lastResponse string

	for range constants.MaxPronunciationRetries {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    chatModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(300),
		})
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
			p.usage.add(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, p.pricing)
		}

		content := resp.Choices[0].Message.Content
		lastResponse = content

		pron, err := parsePronunciation(content)
		if err != nil {
			lastError = err

			// Feed the broken answer back so the model can repair it
			messages = append(messages,
				openai.AssistantMessage(content),
				openai.UserMessage(repairPrompt(err)),
			)
			continue
		}

		pron.HardwareSafe = roster.HardwareSafeName(req.PlayerName)
		return pron, nil
	}

	return nil, fmt.Errorf("failed to parse pronunciation JSON after %d attempts: %w (last response: %s)",
		constants.MaxPronunciationRetries, lastError, lastResponse)
}
