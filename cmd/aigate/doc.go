// Aigate is a CI gate that estimates how likely code changes are to be
// AI-generated.
//
// It fetches a pull request's changed files (or a repository's full tree)
// from GitHub, classifies them in batches with an LLM, aggregates the
// verdicts into one weighted probability, evaluates a declarative rule set,
// and publishes the result as a PR comment, a tracking issue, and a chat
// webhook notification. The exit code fails the CI check when an error-level
// rule triggers.
//
// Usage:
//
//	aigate scan pr 123                # scan a pull request
//	aigate scan repo --ref main       # scan a repository tree
//	aigate rules check --rules r.conf # validate a rules file
//	aigate config show                # print effective configuration
//	aigate cache stats                # inspect the verdict cache
package main
