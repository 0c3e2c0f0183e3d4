// Package cli wires together the Cobra command tree for the aigate binary.
//
// It defines the root command and all subcommands (scan, rules, config,
// cache, version), binds flags, reads configuration, invokes the scan
// engine and rule policy, publishes results, and returns deterministic exit
// codes for CI gating: 0 on success or warnings only, 1 when an error-level
// rule triggered.
package cli
