package ai

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

//go:embed prompts/pronunciation.txt
var pronunciationPrompt string

// buildPronunciationPrompt fills the embedded prompt for one player.
// This is shared across all AI providers.
func buildPronunciationPrompt(req PronunciationRequest) string {
	league := req.League
	if league == "" {
		league = "professional"
	}
	label := req.OriginLabel
	if label == "" {
		label = "Origin"
	}
	origin := req.Origin
	if origin == "" {
		origin = "N/A"
	}
	return fmt.Sprintf(pronunciationPrompt, league, req.PlayerName, req.TeamID, label, origin)
}

// repairPrompt is sent back to the model when its answer could not be parsed.
func repairPrompt(err error) string {
	return fmt.Sprintf("JSON parse error: %v. Please fix the JSON and try again. "+
		"Each value must be a plain string. Output ONLY valid JSON, no other text.", err)
}

// parsePronunciation decodes a model answer. Code fences and surrounding prose are ignored.
func parsePronunciation(content string) (*roster.Pronunciation, error) {
	var p roster.Pronunciation
	if err := json.Unmarshal([]byte(extractJSON(content)), &p); err != nil {
		return nil, err
	}
	p.Phonetic = strings.TrimSpace(p.Phonetic)
	p.IPA = strings.TrimSpace(p.IPA)
	p.Chinese = strings.TrimSpace(p.Chinese)
	if p.Phonetic == "" {
		return nil, errors.New(`missing "phonetic" value`)
	}
	return &p, nil
}

// extractJSON attempts to extract JSON from a response that may contain extra text
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return content
	}

	// Find matching closing brace, ignoring braces inside strings
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}

	return content[start:]
}
