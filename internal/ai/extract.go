package ai

import (
	"encoding/json"
	"strings"
)

// Suggestions generation asks the model for a JSON array of short
// follow-up prompts. Model output is untrusted: it may be valid JSON,
// JSON wrapped in prose or code fences, or free text. Extraction runs
// an ordered list of strategies and the first one that succeeds wins.

// maxSuggestions caps how many follow-up prompts a turn surfaces.
const maxSuggestions = 3

// extractStrategy attempts to pull suggestions out of raw model
// output. ok is false when the strategy does not apply.
type extractStrategy func(raw string) (suggestions []string, ok bool)

var extractStrategies = []extractStrategy{
	tryStructuredParse,
	tryPlainTextExtract,
	templateFallback,
}

// ExtractSuggestions parses model output into follow-up prompts.
// It never fails: the final strategy is a canned template.
func ExtractSuggestions(raw string) []string {
	for _, strategy := range extractStrategies {
		if suggestions, ok := strategy(raw); ok {
			return suggestions
		}
	}
	// Unreachable: templateFallback always succeeds.
	return defaultSuggestions()
}

// tryStructuredParse handles well-formed JSON output, with or without
// a surrounding code fence: either a bare array of strings or an
// object with a "suggestions" array.
func tryStructuredParse(raw string) ([]string, bool) {
	candidate := stripCodeFence(strings.TrimSpace(raw))

	var list []string
	if err := json.Unmarshal([]byte(candidate), &list); err == nil {
		return normalizeSuggestions(list)
	}

	var wrapper struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(candidate), &wrapper); err == nil {
		return normalizeSuggestions(wrapper.Suggestions)
	}

	return nil, false
}

// tryPlainTextExtract handles prose output: one suggestion per line,
// tolerating bullet and numbering prefixes.
func tryPlainTextExtract(raw string) ([]string, bool) {
	var list []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = trimListNumber(line)
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		// Prose sentences are not suggestions; keep only short prompts.
		if len(line) > 80 {
			continue
		}
		list = append(list, line)
	}
	return normalizeSuggestions(list)
}

// templateFallback always succeeds with canned prompts.
func templateFallback(string) ([]string, bool) {
	return defaultSuggestions(), true
}

func defaultSuggestions() []string {
	return []string{
		"What services do you offer?",
		"How does pricing work?",
		"How do I get started?",
	}
}

func normalizeSuggestions(list []string) ([]string, bool) {
	var out []string
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// trimListNumber strips a leading "1." / "2)" style list marker.
func trimListNumber(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] == '.' || s[i] == ')' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
