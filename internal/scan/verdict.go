package scan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawVerdict is the JSON structure returned by the classifier.
type rawVerdict struct {
	AIProb      float64  `json:"ai_prob"`
	Patterns    []string `json:"patterns_detected"`
	CodeQuality string   `json:"code_quality"`
	Rationale   string   `json:"rationale"`
}

// ParseVerdict parses a classifier response into a Verdict. scoreScale is
// the upper bound of the classifier's probability scale (1 for 0–1, 100 for
// percentage-style models); the parsed probability is normalized to [0,1]
// and clamped.
func ParseVerdict(content string, scoreScale float64) (Verdict, error) {
	content = stripFences(content)

	var raw rawVerdict
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Verdict{}, fmt.Errorf("invalid JSON object: %w", err)
	}

	if scoreScale <= 0 {
		scoreScale = 1
	}
	prob := raw.AIProb / scoreScale
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}

	return Verdict{
		AIProbability: prob,
		Patterns:      raw.Patterns,
		CodeQuality:   Quality(strings.ToLower(strings.TrimSpace(raw.CodeQuality))),
		Rationale:     strings.TrimSpace(raw.Rationale),
	}, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit despite instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
