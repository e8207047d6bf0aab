package ai

import (
	"context"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

// PronunciationRequest describes the player whose name should be rendered.
type PronunciationRequest struct {
	League      string // display name, e.g. "NBA"
	PlayerName  string
	TeamID      string
	OriginLabel string // "Birthplace" or "College"
	Origin      string
}

// Provider defines the interface for AI pronunciation backends.
type Provider interface {
	Name() string
	Pronounce(ctx context.Context, req PronunciationRequest) (*roster.Pronunciation, error)

	// Usage tracking.
	GetUsage() *Usage
	ResetUsage()
}

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // in USD
}

// RequestPricing holds input/output prices per 1M tokens
type RequestPricing struct {
	Input  float64
	Output float64
}

func (u *Usage) add(inputTokens, outputTokens int64, pricing RequestPricing) {
	u.InputTokens += int(inputTokens)
	u.OutputTokens += int(outputTokens)
	u.TotalCost += float64(inputTokens) / 1_000_000 * pricing.Input
	u.TotalCost += float64(outputTokens) / 1_000_000 * pricing.Output
}
