package scan

const (
	// DefaultMaxBatchBytes is the byte budget for one classifier call.
	DefaultMaxBatchBytes = 60000
	// DefaultMaxFilesPerBatch caps how many files share one call.
	DefaultMaxFilesPerBatch = 10
)

// Partition groups files into ordered batches bounded by a cumulative byte
// size and a file count. Appending a file that would breach either limit
// closes the current batch and starts a new one. A single file larger than
// maxBytes becomes its own batch rather than being split or dropped. Files
// are never reordered; concatenating the batches reproduces the input.
func Partition(files []ChangedFile, maxBytes, maxFiles int) []Batch {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBatchBytes
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFilesPerBatch
	}

	var batches []Batch
	var cur Batch
	var curSize int

	for _, f := range files {
		if len(cur.Files) > 0 && (curSize+f.Size() > maxBytes || len(cur.Files) >= maxFiles) {
			batches = append(batches, cur)
			cur = Batch{}
			curSize = 0
		}
		cur.Files = append(cur.Files, f)
		curSize += f.Size()
	}
	if len(cur.Files) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
