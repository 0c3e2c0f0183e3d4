package scan

import (
	"path/filepath"
	"strings"
)

// binaryExts is the fixed denylist of binary, media, and archive extensions
// that never reach the classifier.
var binaryExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".webp": true, ".bmp": true, ".svg": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".tgz": true,
	".bz2": true, ".xz": true, ".7z": true, ".jar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".a": true, ".class": true, ".wasm": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".wav": true,
}

// skipNames are exact filenames excluded regardless of extension. Lock files
// and license texts are machine-generated or boilerplate and would skew the
// classifier's read of the change.
var skipNames = map[string]bool{
	"LICENSE": true, "LICENSE.md": true, "LICENSE.txt": true,
	"COPYING": true, "NOTICE": true,
	"go.sum": true, "package-lock.json": true, "yarn.lock": true,
	"pnpm-lock.yaml": true, "Cargo.lock": true, "Gemfile.lock": true,
	"poetry.lock": true, "composer.lock": true,
}

// defaultExcludePrefixes are directory prefixes excluded from every scan.
var defaultExcludePrefixes = []string{
	"vendor/",
	"node_modules/",
	"dist/",
	"build/",
	".git/",
}

// Filter returns the subset of files eligible for classification, preserving
// input order. It drops binary extensions, fixed skip-list filenames, paths
// under an excluded directory prefix, and entries with no retrievable text.
// extraPrefixes extends the built-in prefix exclusions.
func Filter(files []ChangedFile, extraPrefixes []string) []ChangedFile {
	prefixes := excludePrefixes(extraPrefixes)

	var kept []ChangedFile
	for _, f := range files {
		if f.Text() == "" {
			continue
		}
		if !eligiblePath(f.Path, prefixes) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// EligiblePath reports whether a path passes the filter's path checks
// (extension, filename, and prefix exclusions). Repository scans use it to
// skip fetching content that filtering would drop anyway.
func EligiblePath(path string, extraPrefixes []string) bool {
	return eligiblePath(path, excludePrefixes(extraPrefixes))
}

func excludePrefixes(extra []string) []string {
	prefixes := make([]string, 0, len(defaultExcludePrefixes)+len(extra))
	prefixes = append(prefixes, defaultExcludePrefixes...)
	for _, p := range extra {
		if p == "" {
			continue
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		prefixes = append(prefixes, p)
	}
	return prefixes
}

func eligiblePath(path string, prefixes []string) bool {
	if binaryExts[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	if skipNames[filepath.Base(path)] {
		return false
	}
	return !hasExcludedPrefix(path, prefixes)
}

func hasExcludedPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
