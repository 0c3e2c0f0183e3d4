package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aigate-dev/aigate/internal/classifier"
	"github.com/aigate-dev/aigate/internal/config"
	"github.com/aigate-dev/aigate/internal/github"
	"github.com/aigate-dev/aigate/internal/notify"
	"github.com/aigate-dev/aigate/internal/output"
	"github.com/aigate-dev/aigate/internal/policy"
	"github.com/aigate-dev/aigate/internal/scan"
	"github.com/spf13/cobra"
)

// Shared scan flags
var (
	flagOwner            string
	flagRepo             string
	flagRef              string
	flagProvider         string
	flagModel            string
	flagFormat           string
	flagOut              string
	flagRules            string
	flagWebhook          string
	flagExclude          string
	flagMaxBatchBytes    int
	flagMaxFilesPerBatch int
	flagScoreScale       float64
	flagDryRun           bool
	flagNoRedact         bool
)

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagOwner, "owner", "", "Repository owner (auto-detected if omitted)")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repository name (auto-detected if omitted)")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Classifier provider (openai)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Rules file path (default: built-in rules)")
	cmd.Flags().StringVar(&flagWebhook, "webhook", "", "Chat webhook URL for the summary notification")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Extra excluded directory prefixes (comma-separated)")
	cmd.Flags().IntVar(&flagMaxBatchBytes, "max-batch-bytes", 0, "Byte budget per classifier batch")
	cmd.Flags().IntVar(&flagMaxFilesPerBatch, "max-files-per-batch", 0, "File count budget per classifier batch")
	cmd.Flags().Float64Var(&flagScoreScale, "score-scale", 0, "Classifier probability scale (1 or 100)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Scan but don't post comment, issue, or notification")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	if flagWebhook != "" {
		m["webhookUrl"] = flagWebhook
	}
	if flagMaxBatchBytes > 0 {
		m["maxBatchBytes"] = strconv.Itoa(flagMaxBatchBytes)
	}
	if flagMaxFilesPerBatch > 0 {
		m["maxFilesPerBatch"] = strconv.Itoa(flagMaxFilesPerBatch)
	}
	if flagScoreScale > 0 {
		m["scoreScale"] = fmt.Sprintf("%g", flagScoreScale)
	}
	return m
}

func splitComma(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan code changes for AI-generation signals",
	Long:  "Scan a pull request or a whole repository, classify the changes in batches, and evaluate the gate rules.",
}

var scanPRCmd = &cobra.Command{
	Use:   "pr <number>",
	Short: "Scan a pull request's changed files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid PR number %q\n", args[0])
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyScanFlags(&cfg)

		owner, repo, ok := resolveRepo(cfg)
		if !ok {
			return nil
		}

		ghClient, err := github.NewClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		ctx := context.Background()
		ref := fmt.Sprintf("#%d", prNumber)

		fmt.Fprintf(os.Stderr, "Fetching files for PR #%d from %s/%s...\n", prNumber, owner, repo)
		prFiles, err := ghClient.ListPRFiles(ctx, owner, repo, prNumber)
		if err != nil {
			fatalScanError(ctx, cfg, owner+"/"+repo, ref, err)
			return nil
		}

		var files []scan.ChangedFile
		for _, f := range prFiles {
			if f.Status == "removed" {
				continue
			}
			files = append(files, scan.ChangedFile{
				Path:      f.Filename,
				Additions: f.Additions,
				Patch:     f.Patch,
			})
		}

		in := scan.Input{
			Files: files,
			Repo:  owner + "/" + repo,
			Ref:   ref,
			Mode:  "pr",
		}
		runScan(ctx, in, cfg, ghClient, owner, repo, prNumber)
		return nil
	},
}

var scanRepoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Scan a repository's full file tree at a branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyScanFlags(&cfg)

		owner, repo, ok := resolveRepo(cfg)
		if !ok {
			return nil
		}

		ghClient, err := github.NewClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		ctx := context.Background()
		ref := flagRef
		if ref == "" {
			ref = "HEAD"
		}

		fmt.Fprintf(os.Stderr, "Listing tree of %s/%s at %s...\n", owner, repo, ref)
		entries, err := ghClient.ListTree(ctx, owner, repo, ref)
		if err != nil {
			fatalScanError(ctx, cfg, owner+"/"+repo, ref, err)
			return nil
		}

		var files []scan.ChangedFile
		for _, e := range entries {
			if !scan.EligiblePath(e.Path, cfg.Exclude) {
				continue
			}
			content, err := ghClient.GetFileContent(ctx, owner, repo, e.Path, ref)
			if err != nil {
				// Per-file fetch errors don't abort the run.
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", e.Path, err)
				continue
			}
			files = append(files, scan.ChangedFile{
				Path:      e.Path,
				Additions: lineCount(content),
				Content:   content,
			})
		}

		in := scan.Input{
			Files: files,
			Repo:  owner + "/" + repo,
			Ref:   ref,
			Mode:  "repo",
		}
		// No PR to comment on in repo mode.
		runScan(ctx, in, cfg, ghClient, owner, repo, 0)
		return nil
	},
}

// runScan drives the shared pipeline: classify, evaluate rules, write the
// report, and publish it.
func runScan(ctx context.Context, in scan.Input, cfg config.Config, ghClient *github.Client, owner, repo string, prNumber int) {
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	cl, err := classifier.New(cfg.Provider, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}

	report, err := scan.Run(ctx, in, cl, cfg)
	if err != nil {
		fatalScanError(ctx, cfg, in.Repo, in.Ref, err)
		return
	}

	if report.Status != scan.StatusNothingToAnalyze {
		rules, err := policy.Load(cfg.RulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		pctx := policyContext(report)
		report.Failures, report.Warnings = policy.Evaluate(rules, pctx)
	}

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if flagDryRun {
		fmt.Fprintln(os.Stderr, "Dry run: not posting comment, issue, or notification.")
	} else {
		publish(ctx, report, cfg, ghClient, owner, repo, prNumber)
	}

	if len(report.Failures) > 0 {
		exitCode = ExitRuleFailure
	}
}

// publish posts the report as a PR comment, opens a closed tracking issue
// when the gate failed, and sends the chat notification. All three are
// best-effort: failures are logged and never change the exit code.
func publish(ctx context.Context, report *scan.Report, cfg config.Config, ghClient *github.Client, owner, repo string, prNumber int) {
	body, err := output.RenderMarkdown(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rendering comment failed: %v\n", err)
		return
	}

	if prNumber > 0 {
		if err := ghClient.PostComment(ctx, owner, repo, prNumber, body); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: posting PR comment failed: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Report posted to PR #%d.\n", prNumber)
		}
	}

	if len(report.Failures) > 0 {
		title := fmt.Sprintf("aigate: AI-generation gate failed for %s", report.Ref)
		num, err := ghClient.CreateIssue(ctx, owner, repo, title, body, []string{"aigate"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: creating tracking issue failed: %v\n", err)
		} else if err := ghClient.CloseIssue(ctx, owner, repo, num); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing tracking issue #%d failed: %v\n", num, err)
		}
	}

	hook := notify.New(cfg.WebhookURL)
	if hook.Enabled() {
		if err := hook.Send(ctx, notify.BuildScanMessage(report)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: webhook notification failed: %v\n", err)
		}
	}
}

// fatalScanError reports an unrecoverable error, attempts a best-effort
// notification, and sets the exit code.
func fatalScanError(ctx context.Context, cfg config.Config, repo, ref string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if classifier.IsAuthError(err) {
		exitCode = ExitAuthError
	} else {
		exitCode = ExitRuntimeError
	}

	hook := notify.New(cfg.WebhookURL)
	if hook.Enabled() {
		if nerr := hook.Send(ctx, notify.BuildFailureMessage(repo, ref, err)); nerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failure notification failed: %v\n", nerr)
		}
	}
}

func policyContext(report *scan.Report) policy.Context {
	pctx := policy.Context{
		LinesAdded:     report.Stats.LinesAdded,
		TestsChanged:   report.Stats.TestsChanged,
		LicenseComment: report.Stats.LicenseComment,
	}
	if report.Aggregate != nil {
		pctx.AIProb = report.Aggregate.AIProbability
	}
	return pctx
}

func applyScanFlags(cfg *config.Config) {
	if flagExclude != "" {
		cfg.Exclude = append(cfg.Exclude, splitComma(flagExclude)...)
	}
}

func resolveRepo(cfg config.Config) (owner, repo string, ok bool) {
	owner, repo = flagOwner, flagRepo
	if owner != "" && repo != "" {
		return owner, repo, true
	}
	detectedOwner, detectedRepo, err := github.DetectRepo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nUse --owner and --repo flags to specify manually.\n", err)
		exitCode = ExitRuntimeError

		// Best-effort notification per the fail-soft policy: an
		// unparseable repository reference is a fatal input error.
		hook := notify.New(cfg.WebhookURL)
		if hook.Enabled() {
			if nerr := hook.Send(context.Background(), notify.BuildFailureMessage("(unknown)", "", err)); nerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failure notification failed: %v\n", nerr)
			}
		}
		return "", "", false
	}
	if owner == "" {
		owner = detectedOwner
	}
	if repo == "" {
		repo = detectedRepo
	}
	return owner, repo, true
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

func init() {
	scanCmd.AddCommand(scanPRCmd)
	scanCmd.AddCommand(scanRepoCmd)

	for _, cmd := range []*cobra.Command{scanPRCmd, scanRepoCmd} {
		addScanFlags(cmd)
	}

	scanRepoCmd.Flags().StringVar(&flagRef, "ref", "", "Branch or ref to scan (default: HEAD)")
}
