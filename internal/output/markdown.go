package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aigate-dev/aigate/internal/scan"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *scan.Report) error {
	fmt.Fprintf(w, "## aigate — AI-generation scan\n\n")

	if report.Status == scan.StatusNothingToAnalyze {
		fmt.Fprintln(w, "Nothing to analyze: filtering left no classifiable files.")
		return nil
	}

	agg := report.Aggregate
	fmt.Fprintf(w, "| | |\n|---|---|\n")
	if agg != nil {
		fmt.Fprintf(w, "| AI probability | **%.0f%%** |\n", agg.AIProbability*100)
		if agg.WorstQuality != "" {
			fmt.Fprintf(w, "| Worst code quality | %s |\n", agg.WorstQuality)
		}
	}
	fmt.Fprintf(w, "| Files scanned | %d (%d batches) |\n", report.FilesScanned, report.Batches)
	fmt.Fprintf(w, "| Lines added | %d |\n", report.Stats.LinesAdded)
	fmt.Fprintf(w, "| Tests changed | %v |\n", report.Stats.TestsChanged)
	fmt.Fprintf(w, "| Status | %s |\n\n", report.Status)

	if agg != nil && len(agg.Patterns) > 0 {
		fmt.Fprintf(w, "**Patterns detected:** %s\n\n", strings.Join(agg.Patterns, ", "))
	}

	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "### :x: Failures\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(w, "- %s\n", f)
		}
		fmt.Fprintln(w)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "### :warning: Warnings\n\n")
		for _, warn := range report.Warnings {
			fmt.Fprintf(w, "- %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(report.Failures) == 0 && len(report.Warnings) == 0 {
		fmt.Fprintln(w, "All rules passed. :white_check_mark:")
		fmt.Fprintln(w)
	}

	if agg != nil && agg.Rationale != "" {
		fmt.Fprintf(w, "<details>\n<summary>Per-batch rationale</summary>\n\n")
		for _, line := range strings.Split(agg.Rationale, "\n") {
			fmt.Fprintf(w, "> %s\n", line)
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	fmt.Fprintf(w, "*Scanned in %dms (LLM: %dms)*\n", report.Timing.TotalMs, report.Timing.LLMMs)
	return nil
}
