// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Cleanup constants
const (
	// DefaultPageSize is the number of records read per snapshot page
	DefaultPageSize = 1000

	// DefaultDeleteChunkSize is the maximum number of ids sent in one delete call
	DefaultDeleteChunkSize = 100

	// DefaultUpsertChunkSize is the maximum number of records sent in one upsert call
	DefaultUpsertChunkSize = 1000

	// DefaultSampleLimit is the number of suspicious names kept for the audit log
	DefaultSampleLimit = 10
)

// Read API constants
const (
	// DefaultRosterLimit is the page size of the roster list endpoint
	DefaultRosterLimit = 100

	// MaxRosterLimit caps the limit query parameter
	MaxRosterLimit = 1000
)

// Enrichment constants
const (
	// DefaultEnrichLimit is the number of records enriched per run
	DefaultEnrichLimit = 500

	// MaxPronunciationRetries is how many times a malformed AI answer is sent back for repair
	MaxPronunciationRetries = 5
)

// AI provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)
