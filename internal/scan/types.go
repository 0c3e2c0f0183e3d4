package scan

// Quality is the classifier's code-quality judgment for a batch.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityAverage   Quality = "average"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// QualityRank returns a numeric rank for ordering (higher = better).
// Unrecognized values rank as poor.
func QualityRank(q Quality) int {
	switch q {
	case QualityExcellent:
		return 3
	case QualityGood:
		return 2
	case QualityAverage:
		return 1
	default:
		return 0
	}
}

// ChangedFile is one changed file fetched from the source-control host.
// PR scans carry a unified diff in Patch; repository scans carry the full
// file text in Content. Exactly one of the two is set.
type ChangedFile struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Patch     string `json:"patch,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Text returns whichever representation the file carries.
func (f ChangedFile) Text() string {
	if f.Patch != "" {
		return f.Patch
	}
	return f.Content
}

// Size returns the byte size of the analyzable text.
func (f ChangedFile) Size() int {
	return len(f.Text())
}

// Batch is an ordered, non-empty group of files submitted to the classifier
// in a single call.
type Batch struct {
	Files []ChangedFile
}

// FileCount returns the number of files in the batch.
func (b Batch) FileCount() int { return len(b.Files) }

// TotalSize returns the cumulative byte size of the batch's file texts.
func (b Batch) TotalSize() int {
	var n int
	for _, f := range b.Files {
		n += f.Size()
	}
	return n
}

// Verdict is the classifier's structured judgment for one batch.
type Verdict struct {
	AIProbability float64  `json:"ai_prob"`
	Patterns      []string `json:"patterns_detected"`
	CodeQuality   Quality  `json:"code_quality"`
	Rationale     string   `json:"rationale"`
	TokensUsed    int      `json:"-"`
}

// Stats are the single-pass signals collected over the filtered file list.
type Stats struct {
	LinesAdded     int  `json:"linesAdded"`
	TestsChanged   bool `json:"testsChanged"`
	LicenseComment bool `json:"licenseComment"`
}

// Status is the terminal state of a scan run.
type Status string

const (
	// StatusCompleted means every batch returned a verdict.
	StatusCompleted Status = "completed"
	// StatusPartial means at least one batch's classification failed but
	// the rest of the run produced results.
	StatusPartial Status = "partial"
	// StatusNothingToAnalyze means filtering left no files to classify.
	StatusNothingToAnalyze Status = "nothing-to-analyze"
)

// Timing contains performance metrics for a run.
type Timing struct {
	FetchMs int64 `json:"fetchMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level result of a scan run.
type Report struct {
	Tool         string     `json:"tool"`
	Version      string     `json:"version"`
	RunID        string     `json:"runId"`
	Repo         string     `json:"repo"`
	Ref          string     `json:"ref"`
	Mode         string     `json:"mode"`
	Status       Status     `json:"status"`
	FilesScanned int        `json:"filesScanned"`
	Batches      int        `json:"batches"`
	Stats        Stats      `json:"stats"`
	Aggregate    *Aggregate `json:"aggregate,omitempty"`
	Failures     []string   `json:"failures,omitempty"`
	Warnings     []string   `json:"warnings,omitempty"`
	Timing       Timing     `json:"timing"`
}
