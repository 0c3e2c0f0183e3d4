package scan

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert reviewer who estimates whether code changes were written by an AI assistant. You will receive one or more file diffs or full file contents and must judge the batch as a whole.

Signals of AI-generated code include: uniformly verbose comments restating the code, generic identifier names, boilerplate error handling repeated verbatim, exhaustive docstrings on trivial functions, hedging language in comments, and unnaturally consistent formatting across unrelated files.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "ai_prob": 0.0-1.0,
  "patterns_detected": ["short pattern labels"],
  "code_quality": "poor|average|good|excellent",
  "rationale": "One or two sentences explaining the estimate"
}

ai_prob is your probability that the batch was primarily AI-generated. patterns_detected lists the concrete signals you saw; use an empty array if none.`

// SystemPrompt returns the system prompt for the classifier.
func SystemPrompt() string {
	return systemPrompt
}

// BuildBatchPayload concatenates a batch's files into per-file blocks. Diff
// files and full-content files use distinct markers so the classifier knows
// what it is looking at.
func BuildBatchPayload(b Batch) string {
	var sb strings.Builder
	for _, f := range b.Files {
		if f.Patch != "" {
			fmt.Fprintf(&sb, "--- FILE (diff): %s ---\n%s\n", f.Path, f.Patch)
		} else {
			fmt.Fprintf(&sb, "--- FILE (full): %s ---\n%s\n", f.Path, f.Content)
		}
	}
	return sb.String()
}

// BuildUserPrompt wraps a batch payload with instructions for the classifier.
func BuildUserPrompt(payload string, fileCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify the following batch of %d changed files.\n", fileCount)
	b.WriteString("\n--- BEGIN BATCH ---\n")
	b.WriteString(payload)
	b.WriteString("--- END BATCH ---\n")
	return b.String()
}
