package coverage

import (
	"sort"
)

// LineCoverage holds the accumulated line coverage of one source file.
//
// Hit and Found are copied verbatim from the block's LH and LF records and
// are never derived from Counts. Either may be nil if the block omitted it.
type LineCoverage struct {
	Hit   *uint32
	Found *uint32

	// Counts maps line numbers to execution counts.
	Counts map[uint32]uint64
}

func newLineCoverage() *LineCoverage {
	return &LineCoverage{Counts: make(map[uint32]uint64)}
}

// Summarized reports whether both LH and LF were present.
func (c *LineCoverage) Summarized() bool {
	return c.Hit != nil && c.Found != nil
}

// Fraction returns Hit/Found. ok is false when either summary field is
// missing or Found is zero, which is distinct from 0% coverage.
func (c *LineCoverage) Fraction() (fraction float64, ok bool) {
	if !c.Summarized() || *c.Found == 0 {
		return 0, false
	}
	return float64(*c.Hit) / float64(*c.Found), true
}

// Lines returns the line numbers with samples in ascending order.
func (c *LineCoverage) Lines() []uint32 {
	lines := make([]uint32, 0, len(c.Counts))
	for line := range c.Counts {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}

// Report is the per-file coverage of a whole trace, keyed by path exactly as
// named in the trace.
type Report struct {
	Files map[string]*LineCoverage
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{Files: make(map[string]*LineCoverage)}
}

// Paths returns the file paths in lexical order.
func (r *Report) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for path := range r.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// CoverageFraction returns the coverage of a single file. ok is false if the
// file is absent or has no usable summary.
func (r *Report) CoverageFraction(path string) (fraction float64, ok bool) {
	data, exists := r.Files[path]
	if !exists {
		return 0, false
	}
	return data.Fraction()
}

// TotalCoverage returns the summed hit over the summed found of every file
// with both summary fields. ok is false when that denominator is zero.
func (r *Report) TotalCoverage() (fraction float64, ok bool) {
	stats := r.Stats()
	return stats.Coverage, stats.Known
}

// Restrict returns a report holding only the given paths, along with the
// paths that the trace has no block for, in input order.
func (r *Report) Restrict(paths []string) (*Report, []string) {
	restricted := NewReport()
	var missing []string
	for _, path := range paths {
		data, ok := r.Files[path]
		if !ok {
			missing = append(missing, path)
			continue
		}
		restricted.Files[path] = data
	}
	return restricted, missing
}

// CoverageStats holds aggregate coverage statistics for display.
type CoverageStats struct {
	// Number of files in the report
	TotalFiles int
	// Files with both LH and LF, the only ones counted below
	SummarizedFiles int

	TotalLines        uint64
	TotalCoveredLines uint64

	// Coverage is TotalCoveredLines/TotalLines, valid only when Known
	Coverage float64
	Known    bool
}

// Stats computes the aggregate statistics of the report.
func (r *Report) Stats() CoverageStats {
	stats := CoverageStats{TotalFiles: len(r.Files)}
	for _, data := range r.Files {
		if !data.Summarized() {
			continue
		}
		stats.SummarizedFiles++
		stats.TotalCoveredLines += uint64(*data.Hit)
		stats.TotalLines += uint64(*data.Found)
	}
	if stats.TotalLines > 0 {
		stats.Coverage = float64(stats.TotalCoveredLines) / float64(stats.TotalLines)
		stats.Known = true
	}
	return stats
}
