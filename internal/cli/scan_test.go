package cli

import (
	"reflect"
	"testing"

	"github.com/aigate-dev/aigate/internal/scan"
)

func TestSplitComma(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"gen", []string{"gen"}},
		{"gen,docs", []string{"gen", "docs"}},
		{" gen , docs ,", []string{"gen", "docs"}},
		{",,", nil},
	}
	for _, tt := range tests {
		if got := splitComma(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitComma(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildOverrides(t *testing.T) {
	resetFlags := func() {
		flagProvider, flagModel, flagFormat = "", "", ""
		flagRules, flagWebhook = "", ""
		flagMaxBatchBytes, flagMaxFilesPerBatch = 0, 0
		flagScoreScale = 0
	}
	resetFlags()
	defer resetFlags()

	if m := buildOverrides(); len(m) != 0 {
		t.Errorf("buildOverrides with no flags = %v, want empty", m)
	}

	flagModel = "gpt-4.1"
	flagMaxBatchBytes = 30000
	flagScoreScale = 100

	m := buildOverrides()
	want := map[string]string{
		"model":         "gpt-4.1",
		"maxBatchBytes": "30000",
		"scoreScale":    "100",
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("buildOverrides = %v, want %v", m, want)
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one line", 1},
		{"line\n", 1},
		{"a\nb\nc", 3},
		{"a\nb\nc\n", 3},
	}
	for _, tt := range tests {
		if got := lineCount(tt.content); got != tt.want {
			t.Errorf("lineCount(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestPolicyContext(t *testing.T) {
	report := &scan.Report{
		Stats: scan.Stats{LinesAdded: 42, TestsChanged: true, LicenseComment: true},
		Aggregate: &scan.Aggregate{
			AIProbability: 0.77,
		},
	}
	pctx := policyContext(report)
	if pctx.AIProb != 0.77 || pctx.LinesAdded != 42 || !pctx.TestsChanged || !pctx.LicenseComment {
		t.Errorf("policyContext = %+v", pctx)
	}

	// Aggregate missing (nothing analyzed): probability stays zero.
	pctx = policyContext(&scan.Report{})
	if pctx.AIProb != 0 {
		t.Errorf("AIProb = %v, want 0 without aggregate", pctx.AIProb)
	}
}
