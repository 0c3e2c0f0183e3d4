package policy

import (
	"fmt"
	"os"
	"strings"
)

// Severity classifies a rule's outcome: error blocks the CI check, warning
// is advisory only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is one declarative gate rule.
type Rule struct {
	Name      string
	Condition *Condition
	Severity  Severity
	Message   string
}

// defaultRules is the embedded rule set used when no rules file is
// configured.
const defaultRules = `# Default aigate rules.
# Available variables: ai_prob, lines_added, tests_changed, license_comment.

[high-ai-probability]
when = ai_prob > 0.8
severity = error
message = High probability the change is AI-generated; requires human sign-off

[moderate-ai-probability]
when = ai_prob > 0.5 && ai_prob <= 0.8
severity = warning
message = Moderate AI-generation probability; review with extra care

[large-untested-change]
when = lines_added > 300 && !tests_changed
severity = warning
message = Large change without any test updates

[license-comment-added]
when = license_comment
severity = warning
message = Change adds license text; verify licensing intent
`

// Default returns the embedded default rule set.
func Default() []Rule {
	rules, _ := ParseRules(defaultRules)
	return rules
}

// Load reads and parses a rules file. An empty path yields the default rule
// set.
func Load(path string) ([]Rule, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	rules, _ := ParseRules(string(data))
	return rules, nil
}

// ParseRules parses the sectioned key/value rule format. Blank lines and
// lines starting with # are skipped. A section missing a required field or
// carrying an invalid condition is dropped rather than erroring; dropped
// sections are described in the returned notes. Rule order follows the file.
func ParseRules(src string) ([]Rule, []string) {
	var rules []Rule
	var notes []string

	var name string
	fields := map[string]string{}

	flush := func() {
		if name == "" {
			return
		}
		rule, note := buildRule(name, fields)
		if note != "" {
			notes = append(notes, note)
		} else {
			rules = append(rules, rule)
		}
		name = ""
		fields = map[string]string{}
	}

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			name = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	flush()

	return rules, notes
}

func buildRule(name string, fields map[string]string) (Rule, string) {
	cond := fields["when"]
	if cond == "" {
		cond = fields["condition"]
	}
	severity := strings.ToLower(fields["severity"])
	message := fields["message"]

	if cond == "" || severity == "" || message == "" {
		return Rule{}, fmt.Sprintf("rule %q dropped: missing required field", name)
	}

	compiled, err := ParseCondition(cond)
	if err != nil {
		return Rule{}, fmt.Sprintf("rule %q dropped: %v", name, err)
	}

	sev := SeverityWarning
	if severity == string(SeverityError) {
		sev = SeverityError
	}

	return Rule{
		Name:      name,
		Condition: compiled,
		Severity:  sev,
		Message:   message,
	}, ""
}

// Evaluate runs every rule independently against the same immutable context.
// Triggered error rules append their message to failures, triggered warning
// rules to warnings; rule order is preserved in both lists.
func Evaluate(rules []Rule, ctx Context) (failures, warnings []string) {
	for _, r := range rules {
		if !r.Condition.Eval(ctx) {
			continue
		}
		msg := strings.TrimSpace(r.Message)
		if r.Severity == SeverityError {
			failures = append(failures, msg)
		} else {
			warnings = append(warnings, msg)
		}
	}
	return failures, warnings
}
