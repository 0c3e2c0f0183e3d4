package cli

import (
	"fmt"
	"os"

	"github.com/aigate-dev/aigate/internal/policy"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the gate rule set",
}

var (
	flagRulesFile string
)

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse the rules file and report problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		var src string
		if flagRulesFile == "" {
			fmt.Fprintln(os.Stderr, "No rules file given; checking built-in default rules.")
			rules := policy.Default()
			printRules(rules)
			return nil
		}

		data, err := os.ReadFile(flagRulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		src = string(data)

		rules, notes := policy.ParseRules(src)
		printRules(rules)
		for _, n := range notes {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", n)
		}
		if len(notes) > 0 {
			exitCode = ExitRuleFailure
		}
		return nil
	},
}

func printRules(rules []policy.Rule) {
	fmt.Fprintf(os.Stdout, "%d rules loaded\n", len(rules))
	for _, r := range rules {
		fmt.Fprintf(os.Stdout, "  [%s] %s: %s → %s\n", r.Severity, r.Name, r.Condition, r.Message)
	}
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCheckCmd.Flags().StringVar(&flagRulesFile, "rules", "", "Rules file path")
}
