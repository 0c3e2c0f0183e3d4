package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aigate-dev/aigate/internal/scan"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *scan.Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *scan.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}

// RenderMarkdown returns the markdown rendering of a report as a string,
// suitable for posting as a PR comment body.
func RenderMarkdown(report *scan.Report) (string, error) {
	var sb strings.Builder
	if err := (&MarkdownWriter{}).Write(&sb, report); err != nil {
		return "", err
	}
	return sb.String(), nil
}
