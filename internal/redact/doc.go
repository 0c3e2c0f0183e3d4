// Package redact removes secrets from batch payloads before they are sent to
// the classifier.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, and provider-specific
// tokens (OpenAI, GitHub, Slack). A credential that slipped into a diff
// should never leave the process.
package redact
