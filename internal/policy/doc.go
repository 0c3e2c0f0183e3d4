// Package policy loads a small declarative rule set and evaluates it against
// the aggregate scan context.
//
// Rules live in a sectioned key/value text file: one [name] section per rule
// with when, severity, and message fields. Parsing is tolerant — comments
// and blank lines are skipped and incomplete sections are dropped.
//
// Conditions are compiled by a purpose-built recursive-descent parser into a
// tagged expression tree limited to comparisons and logical connectives over
// four named variables. Conditions come from configuration, but they are
// still never handed to a general-purpose interpreter: an expression outside
// the grammar fails to parse and cannot execute.
package policy
