package advisor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var thinkTagRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinkTags removes DeepSeek R1 reasoning tags from the response.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkTagRegex.ReplaceAllString(text, ""))
}

// ParseRecommendations parses the model response into recommendations.
// Handles: JSON array, single JSON object, markdown code fences.
func ParseRecommendations(text string) ([]Recommendation, error) {
	cleaned := StripThinkTags(text)

	// Remove markdown code fences
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "[]" {
		return nil, nil
	}

	// Try parsing as array first
	var recs []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recs); err == nil {
		return recs, nil
	}

	// Try parsing as single object
	var single Recommendation
	if err := json.Unmarshal([]byte(cleaned), &single); err == nil {
		return []Recommendation{single}, nil
	}

	// Try to extract JSON from the text
	jsonStart := strings.Index(cleaned, "[")
	jsonEnd := strings.LastIndex(cleaned, "]")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		substr := cleaned[jsonStart : jsonEnd+1]
		if err := json.Unmarshal([]byte(substr), &recs); err == nil {
			return recs, nil
		}
	}

	// Try extracting a single JSON object
	jsonStart = strings.Index(cleaned, "{")
	jsonEnd = strings.LastIndex(cleaned, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		substr := cleaned[jsonStart : jsonEnd+1]
		if err := json.Unmarshal([]byte(substr), &single); err == nil {
			return []Recommendation{single}, nil
		}
	}

	return nil, fmt.Errorf("failed to parse advisor response as JSON: %.200s", cleaned)
}
