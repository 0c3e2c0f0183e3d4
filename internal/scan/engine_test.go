package scan

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/aigate-dev/aigate/internal/classifier"
	"github.com/aigate-dev/aigate/internal/config"
)

// mockClassifier returns canned responses in order, one per Classify call.
type mockClassifier struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockClassifier) Classify(_ context.Context, req classifier.Request) (classifier.Response, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, req.UserPrompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return classifier.Response{}, m.errs[i]
	}
	return classifier.Response{Content: m.responses[i], TokensUsed: 100}, nil
}

func (m *mockClassifier) Name() string { return "mock" }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Privacy.RedactSecrets = false
	return cfg
}

func TestRun_Completed(t *testing.T) {
	cl := &mockClassifier{responses: []string{
		`{"ai_prob": 0.6, "patterns_detected": ["boilerplate"], "code_quality": "good", "rationale": "repetitive helpers"}`,
	}}
	in := Input{
		Repo: "acme/widgets",
		Ref:  "#42",
		Mode: "pr",
		Files: []ChangedFile{
			{Path: "a.go", Additions: 5, Patch: "+foo"},
			{Path: "b.go", Additions: 3, Patch: "+bar"},
		},
	}

	report, err := Run(context.Background(), in, cl, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", report.Status)
	}
	if report.FilesScanned != 2 || report.Batches != 1 {
		t.Errorf("FilesScanned/Batches = %d/%d, want 2/1", report.FilesScanned, report.Batches)
	}
	if report.Stats.LinesAdded != 8 {
		t.Errorf("LinesAdded = %d, want 8", report.Stats.LinesAdded)
	}
	if report.Aggregate == nil {
		t.Fatal("Aggregate is nil")
	}
	if math.Abs(report.Aggregate.AIProbability-0.6) > 1e-9 {
		t.Errorf("AIProbability = %v, want 0.6", report.Aggregate.AIProbability)
	}
	if report.Aggregate.WorstQuality != QualityGood {
		t.Errorf("WorstQuality = %q, want good", report.Aggregate.WorstQuality)
	}
	if cl.calls != 1 {
		t.Errorf("classifier called %d times, want 1", cl.calls)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRun_NothingToAnalyze(t *testing.T) {
	cl := &mockClassifier{}
	in := Input{
		Repo: "acme/widgets",
		Mode: "pr",
		Files: []ChangedFile{
			{Path: "logo.png", Patch: "+binary"},
			{Path: "LICENSE", Patch: "+MIT License"},
		},
	}

	report, err := Run(context.Background(), in, cl, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != StatusNothingToAnalyze {
		t.Errorf("Status = %q, want nothing-to-analyze", report.Status)
	}
	if report.Aggregate != nil {
		t.Error("Aggregate should be nil when nothing was analyzed")
	}
	if cl.calls != 0 {
		t.Errorf("classifier called %d times, want 0", cl.calls)
	}
}

func TestRun_PartialOnBatchFailure(t *testing.T) {
	cl := &mockClassifier{
		responses: []string{
			`{"ai_prob": 0.9, "code_quality": "average", "rationale": "ok"}`,
			"",
		},
		errs: []error{nil, errors.New("rate limited")},
	}
	cfg := testConfig()
	cfg.MaxFilesPerBatch = 1

	in := Input{
		Repo: "acme/widgets",
		Mode: "pr",
		Files: []ChangedFile{
			{Path: "a.go", Patch: "+foo"},
			{Path: "b.go", Patch: "+bar"},
		},
	}

	report, err := Run(context.Background(), in, cl, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != StatusPartial {
		t.Errorf("Status = %q, want partial", report.Status)
	}
	if report.Aggregate.Scored != 1 || report.Aggregate.Errored != 1 {
		t.Errorf("Scored/Errored = %d/%d, want 1/1",
			report.Aggregate.Scored, report.Aggregate.Errored)
	}
	// Errored batch is weighted zero: 0.9 * 1/2.
	if math.Abs(report.Aggregate.AIProbability-0.45) > 1e-9 {
		t.Errorf("AIProbability = %v, want 0.45", report.Aggregate.AIProbability)
	}
	if !strings.Contains(report.Aggregate.Rationale, "classification failed: rate limited") {
		t.Errorf("Rationale missing failure line:\n%s", report.Aggregate.Rationale)
	}
}

func TestRun_UnparseableVerdictFoldsAsError(t *testing.T) {
	cl := &mockClassifier{responses: []string{"I think it is probably AI."}}
	in := Input{
		Repo:  "acme/widgets",
		Mode:  "pr",
		Files: []ChangedFile{{Path: "a.go", Patch: "+foo"}},
	}

	report, err := Run(context.Background(), in, cl, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != StatusPartial {
		t.Errorf("Status = %q, want partial", report.Status)
	}
	if !strings.Contains(report.Aggregate.Rationale, "invalid verdict") {
		t.Errorf("Rationale = %q", report.Aggregate.Rationale)
	}
}

func TestRun_PromptCarriesPayload(t *testing.T) {
	cl := &mockClassifier{responses: []string{`{"ai_prob": 0.1, "code_quality": "good"}`}}
	in := Input{
		Repo:  "acme/widgets",
		Mode:  "repo",
		Files: []ChangedFile{{Path: "pkg/util.go", Content: "package util"}},
	}

	if _, err := Run(context.Background(), in, cl, testConfig()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cl.prompts) != 1 {
		t.Fatalf("got %d prompts, want 1", len(cl.prompts))
	}
	p := cl.prompts[0]
	if !strings.Contains(p, "--- FILE (full): pkg/util.go ---") {
		t.Errorf("prompt missing file block:\n%s", p)
	}
	if !strings.Contains(p, "--- BEGIN BATCH ---") || !strings.Contains(p, "--- END BATCH ---") {
		t.Errorf("prompt missing batch markers:\n%s", p)
	}
}

func TestBuildBatchPayload(t *testing.T) {
	b := Batch{Files: []ChangedFile{
		{Path: "a.go", Patch: "@@ diff @@"},
		{Path: "b.go", Content: "package b"},
	}}
	payload := BuildBatchPayload(b)
	if !strings.Contains(payload, "--- FILE (diff): a.go ---\n@@ diff @@") {
		t.Errorf("payload missing diff block:\n%s", payload)
	}
	if !strings.Contains(payload, "--- FILE (full): b.go ---\npackage b") {
		t.Errorf("payload missing full block:\n%s", payload)
	}
}
