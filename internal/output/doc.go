// Package output formats scan reports for display or machine consumption.
//
// Three formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON report
//   - markdown — PR-comment-friendly with a summary table and collapsible rationale
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReport] to handle destination selection. [RenderMarkdown] produces
// the markdown body used for GitHub PR comments.
package output
