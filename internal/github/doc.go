// Package github provides a minimal GitHub REST API client for the scan
// pipeline's source-control needs.
//
// It lists a pull request's changed files (paginated), recursively lists a
// branch's file tree, fetches raw file content, posts the scan report as a
// PR comment, and creates-then-closes tracking issues for failed gates.
// Authentication comes from the GITHUB_TOKEN environment variable; the
// current repository is detected from the local git remote when not given
// explicitly.
package github
