package scan

import (
	"strings"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	content := `{"ai_prob": 0.72, "patterns_detected": ["boilerplate"], "code_quality": "Good", "rationale": "  uniform helper naming  "}`
	v, err := ParseVerdict(content, 1)
	if err != nil {
		t.Fatalf("ParseVerdict: %v", err)
	}
	if v.AIProbability != 0.72 {
		t.Errorf("AIProbability = %v, want 0.72", v.AIProbability)
	}
	if len(v.Patterns) != 1 || v.Patterns[0] != "boilerplate" {
		t.Errorf("Patterns = %v", v.Patterns)
	}
	if v.CodeQuality != QualityGood {
		t.Errorf("CodeQuality = %q, want good (lowercased)", v.CodeQuality)
	}
	if v.Rationale != "uniform helper naming" {
		t.Errorf("Rationale = %q, want trimmed", v.Rationale)
	}
}

func TestParseVerdict_ScoreScale(t *testing.T) {
	tests := []struct {
		name    string
		content string
		scale   float64
		want    float64
	}{
		{"percentage scale", `{"ai_prob": 85}`, 100, 0.85},
		{"zero scale falls back to 1", `{"ai_prob": 0.5}`, 0, 0.5},
		{"clamped above", `{"ai_prob": 1.7}`, 1, 1},
		{"clamped below", `{"ai_prob": -0.3}`, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVerdict(tt.content, tt.scale)
			if err != nil {
				t.Fatalf("ParseVerdict: %v", err)
			}
			if v.AIProbability != tt.want {
				t.Errorf("AIProbability = %v, want %v", v.AIProbability, tt.want)
			}
		})
	}
}

func TestParseVerdict_StripsFences(t *testing.T) {
	content := "```json\n{\"ai_prob\": 0.4, \"code_quality\": \"average\"}\n```"
	v, err := ParseVerdict(content, 1)
	if err != nil {
		t.Fatalf("ParseVerdict: %v", err)
	}
	if v.AIProbability != 0.4 || v.CodeQuality != QualityAverage {
		t.Errorf("got %+v", v)
	}
}

func TestParseVerdict_InvalidJSON(t *testing.T) {
	_, err := ParseVerdict("the code looks mostly human-written", 1)
	if err == nil {
		t.Fatal("expected error for non-JSON content")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("error = %v", err)
	}
}
