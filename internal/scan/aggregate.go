package scan

import "fmt"

// Aggregate folds per-batch verdicts into a single weighted probability, a
// deduplicated pattern list, a worst-quality rollup, and a per-batch
// rationale trail. It is an explicit accumulator value threaded through the
// sequential batch loop, so the aggregation logic is testable without any
// network collaborator.
type Aggregate struct {
	AIProbability float64  `json:"aiProbability"`
	Patterns      []string `json:"patterns,omitempty"`
	WorstQuality  Quality  `json:"worstQuality,omitempty"`
	Rationale     string   `json:"rationale"`
	TotalTokens   int      `json:"totalTokens"`
	Scored        int      `json:"scored"`
	Errored       int      `json:"errored"`

	totalFiles   int
	folds        int
	seeded       bool
	seenPatterns map[string]bool
}

// NewAggregate returns an empty accumulator over a filtered file list of the
// given size. totalFiles is the denominator for per-batch probability
// weights.
func NewAggregate(totalFiles int) *Aggregate {
	return &Aggregate{
		totalFiles:   totalFiles,
		seenPatterns: make(map[string]bool),
	}
}

// FoldVerdict folds one batch's verdict into the aggregate. The batch
// contributes aiProbability weighted by its share of the filtered file
// count. Patterns are deduplicated case-sensitively, preserving first
// appearance order. Quality only ever downgrades after the first verdict
// seeds it.
func (a *Aggregate) FoldVerdict(batch Batch, v Verdict) {
	a.folds++
	a.Scored++

	if a.totalFiles > 0 {
		a.AIProbability += v.AIProbability * float64(batch.FileCount()) / float64(a.totalFiles)
	}

	for _, p := range v.Patterns {
		if !a.seenPatterns[p] {
			a.seenPatterns[p] = true
			a.Patterns = append(a.Patterns, p)
		}
	}

	if !a.seeded {
		a.WorstQuality = v.CodeQuality
		a.seeded = true
	} else if QualityRank(v.CodeQuality) < QualityRank(a.WorstQuality) {
		a.WorstQuality = v.CodeQuality
	}

	a.TotalTokens += v.TokensUsed
	a.appendTrail(fmt.Sprintf("Batch %d (%d files): %s", a.folds, batch.FileCount(), v.Rationale))
}

// FoldError records a failed batch: zero probability weight, no quality or
// pattern contribution, but an explicit error line in the rationale trail so
// partial results stay auditable.
func (a *Aggregate) FoldError(batch Batch, err error) {
	a.folds++
	a.Errored++
	a.appendTrail(fmt.Sprintf("Batch %d (%d files): classification failed: %v", a.folds, batch.FileCount(), err))
}

func (a *Aggregate) appendTrail(line string) {
	if a.Rationale != "" {
		a.Rationale += "\n"
	}
	a.Rationale += line
}
