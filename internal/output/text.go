package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aigate-dev/aigate/internal/scan"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *scan.Report) error {
	ew := &errWriter{w: w}

	ew.printf("aigate scan — %s mode\n", report.Mode)
	ew.printf("Repository: %s (%s)\n", report.Repo, report.Ref)
	ew.println(strings.Repeat("─", 60))

	if report.Status == scan.StatusNothingToAnalyze {
		ew.println("Nothing to analyze: filtering left no classifiable files.")
		return ew.err
	}

	agg := report.Aggregate
	ew.printf("Status: %s\n", report.Status)
	ew.printf("Files scanned: %d in %d batches\n", report.FilesScanned, report.Batches)
	if agg != nil {
		ew.printf("AI probability: %.1f%%\n", agg.AIProbability*100)
		if agg.WorstQuality != "" {
			ew.printf("Worst code quality: %s\n", agg.WorstQuality)
		}
		if len(agg.Patterns) > 0 {
			ew.printf("Patterns: %s\n", strings.Join(agg.Patterns, ", "))
		}
		if agg.Errored > 0 {
			ew.printf("Batches failed: %d of %d\n", agg.Errored, report.Batches)
		}
	}
	ew.printf("Lines added: %d | Tests changed: %v | License comment: %v\n",
		report.Stats.LinesAdded, report.Stats.TestsChanged, report.Stats.LicenseComment)
	ew.println(strings.Repeat("─", 60))

	if len(report.Failures) > 0 {
		ew.println("\nFAILURES")
		for _, f := range report.Failures {
			ew.printf("  ✗ %s\n", f)
		}
	}
	if len(report.Warnings) > 0 {
		ew.println("\nWARNINGS")
		for _, warn := range report.Warnings {
			ew.printf("  ! %s\n", warn)
		}
	}
	if len(report.Failures) == 0 && len(report.Warnings) == 0 {
		ew.println("\nAll rules passed.")
	}

	if agg != nil && agg.Rationale != "" {
		ew.println("\nRATIONALE")
		for _, line := range strings.Split(agg.Rationale, "\n") {
			ew.printf("  %s\n", line)
		}
	}

	ew.printf("\nScanned in %dms (LLM: %dms, tokens: %d)\n",
		report.Timing.TotalMs, report.Timing.LLMMs, totalTokens(report))

	return ew.err
}

func totalTokens(report *scan.Report) int {
	if report.Aggregate == nil {
		return 0
	}
	return report.Aggregate.TotalTokens
}

// errWriter accumulates the first write error so formatting code stays flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
