package report

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownReporter renders a markdown table, suitable for a pull request comment.
type MarkdownReporter struct{}

// Render writes the summary as markdown.
func (r *MarkdownReporter) Render(w io.Writer, s Summary) error {
	var content strings.Builder

	if s.Restricted {
		content.WriteString("# Coverage of changed files\n\n")
	} else {
		content.WriteString("# Coverage\n\n")
	}

	stats := s.Report.Stats()
	content.WriteString(fmt.Sprintf("**Total:** %s (%d/%d lines in %d of %d files)\n\n",
		formatFraction(stats.Coverage, stats.Known),
		stats.TotalCoveredLines, stats.TotalLines,
		stats.SummarizedFiles, stats.TotalFiles))

	if len(s.Report.Files) == 0 && len(s.Missing) == 0 {
		content.WriteString("_No files to report._\n")
		_, err := io.WriteString(w, content.String())
		return err
	}

	content.WriteString("| File | Hit | Found | Coverage |\n")
	content.WriteString("|---|---:|---:|---:|\n")
	for _, path := range s.Report.Paths() {
		data := s.Report.Files[path]
		fraction, ok := data.Fraction()
		content.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n",
			path, count(data.Hit), count(data.Found), formatFraction(fraction, ok)))
	}
	for _, path := range s.Missing {
		content.WriteString(fmt.Sprintf("| `%s` | - | - | no coverage data |\n", path))
	}

	_, err := io.WriteString(w, content.String())
	return err
}
