package scan

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// licenseMarkers are lowercase substrings that identify a license comment.
var licenseMarkers = []string{
	"spdx-license-identifier",
	"mit license",
	"apache license",
	"gnu general public license",
	"bsd 3-clause",
	"bsd 2-clause",
	"mozilla public license",
	"copyright (c)",
}

// Collect makes a single pass over the filtered file list and derives the
// aggregate signals consumed by rule evaluation: total added lines, whether
// any test file changed, and whether any added line carries a license
// marker. Markers in context or removed diff lines do not count.
func Collect(files []ChangedFile) Stats {
	var s Stats
	for _, f := range files {
		s.LinesAdded += f.Additions
		if !s.TestsChanged && isTestPath(f.Path) {
			s.TestsChanged = true
		}
		if !s.LicenseComment && addsLicenseMarker(f) {
			s.LicenseComment = true
		}
	}
	return s
}

func isTestPath(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, "test") || strings.Contains(p, "spec")
}

func addsLicenseMarker(f ChangedFile) bool {
	if f.Patch != "" {
		for _, line := range addedLines(f.Path, f.Patch) {
			if containsMarker(line) {
				return true
			}
		}
		return false
	}
	// Full-content mode: the whole file is new to the scan, so every line
	// counts as added.
	for _, line := range strings.Split(f.Content, "\n") {
		if containsMarker(line) {
			return true
		}
	}
	return false
}

func containsMarker(line string) bool {
	l := strings.ToLower(line)
	for _, m := range licenseMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// addedLines extracts the added lines from a per-file unified diff. The
// host's file API returns bare hunks without file headers, so a synthetic
// header is prepended before parsing. Falls back to prefix scanning if the
// patch does not parse.
func addedLines(path, patch string) []string {
	full := fmt.Sprintf("--- a/%s\n+++ b/%s\n%s\n", path, path, patch)
	files, _, err := gitdiff.Parse(strings.NewReader(full))
	if err != nil || len(files) == 0 {
		return addedLinesRaw(patch)
	}

	var added []string
	for _, pf := range files {
		for _, frag := range pf.TextFragments {
			for _, line := range frag.Lines {
				if line.Op == gitdiff.OpAdd {
					added = append(added, line.Line)
				}
			}
		}
	}
	return added
}

func addedLinesRaw(patch string) []string {
	var added []string
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added = append(added, strings.TrimPrefix(line, "+"))
		}
	}
	return added
}
