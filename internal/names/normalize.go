// Package names canonicalizes player display names scraped from StatMuse.
//
// The roster pages render some names twice, once in full and once abbreviated,
// with no separator between them ("Ryan BurrR. Burr"). Normalize folds the
// name to ASCII and drops that trailing repeat.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps a raw display name to its canonical form.
type Normalizer interface {
	Normalize(raw string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(raw string) string

// Normalize calls f(raw).
func (f NormalizerFunc) Normalize(raw string) string {
	return f(raw)
}

// StatMuse is the default Normalizer for names scraped from StatMuse roster tables.
var StatMuse Normalizer = NormalizerFunc(Normalize)

// abbrevSuffix matches a trailing "X. Rest of name" with an optional space before it.
// The lazy prefix makes the earliest "X. " occurrence win.
var abbrevSuffix = regexp.MustCompile(`(.+?)\s?([A-Z]\. .+)$`)

// FoldASCII decomposes s (NFKD) and drops every rune that is not ASCII (e.g., "Ramírez" -> "Ramirez").
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize returns the canonical form of a scraped player name.
// Empty input is returned unchanged.
//
// The collapse rules are applied until none matches, so a repeat that was
// rendered more than once ("John Smith J. Smith J. Smith") folds completely
// and Normalize(Normalize(x)) == Normalize(x). Every match shortens the name.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	name := FoldASCII(raw)
	for {
		full, ok := collapseAbbrev(name)
		if !ok {
			return name
		}
		name = full
	}
}

// collapseAbbrev applies one collapse step, suffix rule first.
func collapseAbbrev(name string) (string, bool) {
	if full, ok := collapseAbbrevSuffix(name); ok {
		return full, true
	}
	return collapseAbbrevTokens(name)
}

// collapseAbbrevSuffix handles "Ryan BurrR. Burr" and "Cam Atkinson C. Atkinson".
func collapseAbbrevSuffix(name string) (string, bool) {
	m := abbrevSuffix.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	full := strings.TrimSpace(m[1])
	abbrev := strings.TrimSpace(m[2])

	initial := abbrev[:1]
	lastNamePart := ""
	if len(abbrev) > 3 {
		lastNamePart = strings.TrimSpace(abbrev[3:])
	}
	if strings.HasPrefix(full, initial) && strings.HasSuffix(full, lastNamePart) {
		return full, true
	}
	return "", false
}

// collapseAbbrevTokens is the token based fallback used when the last name has
// several words or the first name itself contains periods ("T.J. Oshie T. Oshie").
// Windows are tried shortest first.
func collapseAbbrevTokens(name string) (string, bool) {
	parts := strings.Fields(name)
	if len(parts) < 3 {
		return "", false
	}
	for i := 1; i <= len(parts)/2; i++ {
		initial := parts[len(parts)-i-1]
		if len(initial) != 2 || !strings.Contains(initial, ".") {
			continue
		}
		tail := parts[len(parts)-i:]
		candidate := parts[:len(parts)-i-1]
		if hasTokenSuffix(candidate, tail) {
			return strings.Join(candidate, " "), true
		}
	}
	return "", false
}

func hasTokenSuffix(tokens, suffix []string) bool {
	if len(suffix) > len(tokens) {
		return false
	}
	offset := len(tokens) - len(suffix)
	for i, s := range suffix {
		if tokens[offset+i] != s {
			return false
		}
	}
	return true
}

// HasAbbrevMarker reports whether name still contains an "X. " style marker.
// Names that keep one after normalization are worth a manual look.
func HasAbbrevMarker(name string) bool {
	return strings.Contains(name, ". ")
}
