package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRules(t *testing.T) {
	src := `# comment
[big-change]
when = lines_added > 100
severity = error
message = Change is too large

[advisory]
condition = license_comment
severity = warning
message = License text added
`
	rules, notes := ParseRules(src)
	if len(notes) != 0 {
		t.Fatalf("notes = %v, want none", notes)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Name != "big-change" || rules[0].Severity != SeverityError {
		t.Errorf("rules[0] = %+v", rules[0])
	}
	if rules[1].Name != "advisory" || rules[1].Severity != SeverityWarning {
		t.Errorf("rules[1] = %+v", rules[1])
	}
	if rules[0].Condition.String() != "lines_added > 100" {
		t.Errorf("condition = %q", rules[0].Condition.String())
	}
}

func TestParseRules_DropsInvalidSections(t *testing.T) {
	src := `[no-message]
when = ai_prob > 0.5
severity = error

[bad-condition]
when = system("rm -rf /")
severity = error
message = nope

[keeper]
when = ai_prob > 0.9
severity = error
message = kept
`
	rules, notes := ParseRules(src)
	if len(rules) != 1 || rules[0].Name != "keeper" {
		t.Fatalf("rules = %+v, want only keeper", rules)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %v, want 2", notes)
	}
	if !strings.Contains(notes[0], "no-message") || !strings.Contains(notes[0], "missing required field") {
		t.Errorf("notes[0] = %q", notes[0])
	}
	if !strings.Contains(notes[1], "bad-condition") {
		t.Errorf("notes[1] = %q", notes[1])
	}
}

func TestParseRules_UnknownSeverityBecomesWarning(t *testing.T) {
	src := `[odd]
when = ai_prob > 0.5
severity = critical
message = odd severity
`
	rules, _ := ParseRules(src)
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if rules[0].Severity != SeverityWarning {
		t.Errorf("Severity = %q, want warning", rules[0].Severity)
	}
}

func TestParseRules_KeysOutsideSectionIgnored(t *testing.T) {
	src := `when = ai_prob > 0.5
severity = error
message = orphan

[real]
when = ai_prob > 0.5
severity = error
message = real rule
`
	rules, _ := ParseRules(src)
	if len(rules) != 1 || rules[0].Name != "real" {
		t.Errorf("rules = %+v, want only real", rules)
	}
}

func TestDefault(t *testing.T) {
	rules := Default()
	if len(rules) != 4 {
		t.Fatalf("got %d default rules, want 4", len(rules))
	}
	if rules[0].Name != "high-ai-probability" || rules[0].Severity != SeverityError {
		t.Errorf("rules[0] = %+v", rules[0])
	}
	for _, r := range rules[1:] {
		if r.Severity != SeverityWarning {
			t.Errorf("rule %s severity = %q, want warning", r.Name, r.Severity)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.conf")
	src := `[only]
when = tests_changed
severity = warning
message = tests touched
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "only" {
		t.Errorf("rules = %+v", rules)
	}

	if _, err := Load(filepath.Join(dir, "missing.conf")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}

	defaults, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if len(defaults) != 4 {
		t.Errorf("Load(\"\") returned %d rules, want the 4 defaults", len(defaults))
	}
}

func TestEvaluate(t *testing.T) {
	rules := Default()

	tests := []struct {
		name         string
		ctx          Context
		wantFailures int
		wantWarnings int
	}{
		{
			name:         "clean change",
			ctx:          Context{AIProb: 0.1, LinesAdded: 50, TestsChanged: true},
			wantFailures: 0,
			wantWarnings: 0,
		},
		{
			name:         "high probability fails",
			ctx:          Context{AIProb: 0.95, LinesAdded: 10, TestsChanged: true},
			wantFailures: 1,
			wantWarnings: 0,
		},
		{
			name:         "moderate probability warns",
			ctx:          Context{AIProb: 0.6, LinesAdded: 10, TestsChanged: true},
			wantFailures: 0,
			wantWarnings: 1,
		},
		{
			name:         "multiple rules trigger independently",
			ctx:          Context{AIProb: 0.95, LinesAdded: 400, TestsChanged: false, LicenseComment: true},
			wantFailures: 1,
			wantWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures, warnings := Evaluate(rules, tt.ctx)
			if len(failures) != tt.wantFailures {
				t.Errorf("failures = %v, want %d", failures, tt.wantFailures)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.wantWarnings)
			}
		})
	}
}

func TestEvaluate_OrderPreserved(t *testing.T) {
	src := `[first]
when = true
severity = warning
message = first message

[second]
when = true
severity = warning
message = second message
`
	rules, _ := ParseRules(src)
	_, warnings := Evaluate(rules, Context{})
	if len(warnings) != 2 || warnings[0] != "first message" || warnings[1] != "second message" {
		t.Errorf("warnings = %v", warnings)
	}
}
