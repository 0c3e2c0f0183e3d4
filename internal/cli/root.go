package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes for CI gating.
const (
	ExitSuccess      = 0
	ExitRuleFailure  = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "aigate",
	Short: "CI gate for AI-generated code",
	Long:  "aigate scans pull requests or whole repositories with an LLM classifier, estimates how likely the code is AI-generated, and gates CI on a declarative rule set.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	// CI jobs often carry secrets in a .env file next to the checkout.
	// A missing file is fine.
	_ = godotenv.Load()

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print aigate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "aigate version %s\n", version)
	},
}
