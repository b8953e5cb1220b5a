package report

import (
	"fmt"
	"io"

	"github.com/zjy-dev/lcov-diff/internal/coverage"
)

// Summary is what a Reporter renders.
type Summary struct {
	Report *coverage.Report
	// Restricted is set when Report holds only the changed files.
	Restricted bool
	// Missing lists changed files that have no block in the trace.
	Missing []string
}

// Reporter defines the interface for rendering a coverage summary.
type Reporter interface {
	Render(w io.Writer, s Summary) error
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "markdown", "yaml"}

// New returns the Reporter for format.
func New(format string, color bool) (Reporter, error) {
	switch format {
	case "text", "":
		return &TextReporter{Color: color}, nil
	case "markdown", "md":
		return &MarkdownReporter{}, nil
	case "yaml", "yml":
		return &YAMLReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", format, Formats)
	}
}

const unknown = "n/a"

func formatFraction(fraction float64, ok bool) string {
	if !ok {
		return unknown
	}
	return fmt.Sprintf("%.2f%%", fraction*100)
}
