// Package notify delivers scan summaries to a chat channel through a
// Slack-compatible incoming webhook.
//
// Delivery is strictly best-effort: failures are logged by the caller and
// never escalate into the run's exit code.
package notify
