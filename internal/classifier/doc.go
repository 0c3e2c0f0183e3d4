// Package classifier implements the Classifier interface for the supported
// LLM providers.
//
// Each Classify call is a single attempt with no retry or backoff: batch
// failures are folded into the scan's rationale trail by the caller rather
// than hidden behind retries. Typed errors distinguish authentication and
// rate-limit failures so the CLI can map them to exit codes.
//
// Use [New] to obtain a Classifier by provider name and model string. The
// endpoint can be redirected with AIGATE_OPENAI_BASE_URL, which tests use to
// point at local httptest servers.
package classifier
