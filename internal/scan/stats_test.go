package scan

import "testing"

func TestCollect_LinesAdded(t *testing.T) {
	files := []ChangedFile{
		{Path: "a.go", Additions: 10, Patch: "+x"},
		{Path: "b.go", Additions: 25, Patch: "+y"},
	}
	s := Collect(files)
	if s.LinesAdded != 35 {
		t.Errorf("LinesAdded = %d, want 35", s.LinesAdded)
	}
}

func TestCollect_TestsChanged(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"internal/scan/batch_test.go", true},
		{"spec/user_spec.rb", true},
		{"src/TestHarness.java", true},
		{"internal/scan/batch.go", false},
		{"cmd/main.go", false},
	}

	for _, tt := range tests {
		s := Collect([]ChangedFile{{Path: tt.path, Patch: "+x"}})
		if s.TestsChanged != tt.want {
			t.Errorf("Collect(%q).TestsChanged = %v, want %v", tt.path, s.TestsChanged, tt.want)
		}
	}
}

func TestCollect_LicenseCommentInDiff(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  bool
	}{
		{
			name:  "marker on added line",
			patch: "@@ -0,0 +1,2 @@\n+// SPDX-License-Identifier: MIT\n+package foo",
			want:  true,
		},
		{
			name:  "marker on context line does not count",
			patch: "@@ -1,2 +1,3 @@\n // Copyright (c) 2020\n package foo\n+func Bar() {}",
			want:  false,
		},
		{
			name:  "marker on removed line does not count",
			patch: "@@ -1,2 +1,1 @@\n-// MIT License\n package foo",
			want:  false,
		},
		{
			name:  "no marker",
			patch: "@@ -1,1 +1,2 @@\n package foo\n+func Baz() {}",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Collect([]ChangedFile{{Path: "foo.go", Patch: tt.patch}})
			if s.LicenseComment != tt.want {
				t.Errorf("LicenseComment = %v, want %v", s.LicenseComment, tt.want)
			}
		})
	}
}

func TestCollect_LicenseCommentFullContent(t *testing.T) {
	files := []ChangedFile{
		{Path: "header.go", Content: "// Licensed under the Apache License, Version 2.0\npackage header"},
	}
	if s := Collect(files); !s.LicenseComment {
		t.Error("LicenseComment = false for full-content file with marker, want true")
	}

	files = []ChangedFile{{Path: "plain.go", Content: "package plain"}}
	if s := Collect(files); s.LicenseComment {
		t.Error("LicenseComment = true for plain content, want false")
	}
}

func TestAddedLinesRawFallback(t *testing.T) {
	// Malformed hunk header forces the raw prefix scan.
	patch := "not a hunk\n+added line\n+++ b/ignored\n-removed"
	lines := addedLinesRaw(patch)
	if len(lines) != 1 || lines[0] != "added line" {
		t.Errorf("addedLinesRaw = %v, want [\"added line\"]", lines)
	}
}
