package scan

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/aigate-dev/aigate/internal/cache"
	"github.com/aigate-dev/aigate/internal/classifier"
	"github.com/aigate-dev/aigate/internal/config"
	"github.com/aigate-dev/aigate/internal/redact"
)

// Version is the report schema version.
const Version = "1.0"

// Input describes what a scan run analyzes.
type Input struct {
	Files []ChangedFile
	Repo  string // owner/name
	Ref   string // PR reference or branch
	Mode  string // "pr" or "repo"
}

// Run executes a scan: filter, single-pass statistics, greedy batching, one
// sequential classifier call per batch, and aggregation of the verdicts.
// Batches are classified strictly one at a time; a failed batch is recorded
// in the rationale trail with zero probability weight and the run continues.
// Rule evaluation happens in the caller, against the returned report.
func Run(ctx context.Context, in Input, cl classifier.Classifier, cfg config.Config) (*Report, error) {
	start := time.Now()

	report := &Report{
		Tool:    "aigate",
		Version: Version,
		RunID:   generateRunID(),
		Repo:    in.Repo,
		Ref:     in.Ref,
		Mode:    in.Mode,
	}

	filtered := Filter(in.Files, cfg.Exclude)
	report.FilesScanned = len(filtered)
	if len(filtered) == 0 {
		report.Status = StatusNothingToAnalyze
		report.Timing.TotalMs = time.Since(start).Milliseconds()
		return report, nil
	}

	report.Stats = Collect(filtered)

	batches := Partition(filtered, cfg.MaxBatchBytes, cfg.MaxFilesPerBatch)
	report.Batches = len(batches)

	vcache, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: verdict cache unavailable: %v\n", err)
		vcache, _ = cache.New(false, "", 0)
	}

	agg := NewAggregate(len(filtered))
	var llmMs int64

	for _, b := range batches {
		payload := BuildBatchPayload(b)
		if cfg.Privacy.RedactSecrets {
			payload = redact.Secrets(payload)
		}

		key := cache.Key(cl.Name(), cfg.Model, payload)
		if raw, ok := vcache.Get(key); ok {
			if v, err := ParseVerdict(raw, cfg.ScoreScale); err == nil {
				agg.FoldVerdict(b, v)
				continue
			}
			// Unparseable cached entry falls through to a fresh call.
		}

		req := classifier.Request{
			SystemPrompt: SystemPrompt(),
			UserPrompt:   BuildUserPrompt(payload, b.FileCount()),
			MaxTokens:    2048,
		}

		llmStart := time.Now()
		resp, err := cl.Classify(ctx, req)
		llmMs += time.Since(llmStart).Milliseconds()

		if err != nil {
			agg.FoldError(b, err)
			continue
		}

		v, err := ParseVerdict(resp.Content, cfg.ScoreScale)
		if err != nil {
			agg.FoldError(b, fmt.Errorf("invalid verdict: %w", err))
			continue
		}
		v.TokensUsed = resp.TokensUsed

		if err := vcache.Put(key, resp.Content); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: caching verdict failed: %v\n", err)
		}
		agg.FoldVerdict(b, v)
	}

	report.Aggregate = agg
	if agg.Errored > 0 {
		report.Status = StatusPartial
	} else {
		report.Status = StatusCompleted
	}
	report.Timing.LLMMs = llmMs
	report.Timing.TotalMs = time.Since(start).Milliseconds()

	return report, nil
}

func generateRunID() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("%x", h[:16])
}
