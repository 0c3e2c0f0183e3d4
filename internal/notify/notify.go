package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aigate-dev/aigate/internal/scan"
)

// Client posts messages to a Slack-compatible incoming webhook.
type Client struct {
	webhookURL string
	httpCli    *http.Client
}

// New creates a webhook client. An empty URL yields a disabled client whose
// Send is a no-op.
func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpCli:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool { return c.webhookURL != "" }

// Message is a Slack-style webhook payload: plain text plus an optional
// block layout.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is one section of a block-layout message.
type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

// BlockText is the text body of a block.
type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send delivers the message to the webhook. Callers log failures and move
// on; delivery errors never affect the run's outcome.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// BuildScanMessage formats a scan report as a chat notification.
func BuildScanMessage(report *scan.Report) Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*aigate scan — %s (%s)*\n", report.Repo, report.Ref)

	if report.Status == scan.StatusNothingToAnalyze {
		sb.WriteString("Nothing to analyze after filtering.")
		text := sb.String()
		return Message{Text: text, Blocks: sectionBlocks(text)}
	}

	if report.Aggregate != nil {
		fmt.Fprintf(&sb, "AI probability: %.0f%% | Quality: %s | Files: %d in %d batches\n",
			report.Aggregate.AIProbability*100, report.Aggregate.WorstQuality,
			report.FilesScanned, report.Batches)
		if report.Aggregate.Errored > 0 {
			fmt.Fprintf(&sb, "%d of %d batches failed classification (partial result)\n",
				report.Aggregate.Errored, report.Batches)
		}
	}
	if len(report.Failures) > 0 {
		sb.WriteString("\n:x: *Failures*\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&sb, "• %s\n", f)
		}
	}
	if len(report.Warnings) > 0 {
		sb.WriteString("\n:warning: *Warnings*\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&sb, "• %s\n", w)
		}
	}
	if len(report.Failures) == 0 && len(report.Warnings) == 0 {
		sb.WriteString("\n:white_check_mark: All rules passed.\n")
	}

	text := sb.String()
	return Message{Text: text, Blocks: sectionBlocks(text)}
}

// BuildFailureMessage formats a best-effort notification for a run that
// aborted before producing a report.
func BuildFailureMessage(repo, ref string, err error) Message {
	text := fmt.Sprintf("*aigate scan — %s (%s)*\n:x: Scan aborted: %v", repo, ref, err)
	return Message{Text: text, Blocks: sectionBlocks(text)}
}

func sectionBlocks(text string) []Block {
	return []Block{
		{
			Type: "section",
			Text: &BlockText{Type: "mrkdwn", Text: text},
		},
	}
}
