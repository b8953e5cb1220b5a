package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	thresholdHigh   = 0.8
	thresholdMedium = 0.6
)

// TextReporter renders a terminal table.
type TextReporter struct {
	Color bool
}

// Render writes one row per file and a total footer.
func (r *TextReporter) Render(w io.Writer, s Summary) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	// Case changes would corrupt paths and color escapes.
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"File", "Hit", "Found", "Coverage"})

	for _, path := range s.Report.Paths() {
		data := s.Report.Files[path]
		fraction, ok := data.Fraction()
		tbl.AppendRow(table.Row{path, count(data.Hit), count(data.Found), r.colorize(fraction, ok)})
	}
	for _, path := range s.Missing {
		tbl.AppendRow(table.Row{path, "-", "-", "no coverage data"})
	}

	stats := s.Report.Stats()
	label := "Total"
	if s.Restricted {
		label = "Total (changed files)"
	}
	tbl.AppendFooter(table.Row{
		label,
		humanize.Comma(int64(stats.TotalCoveredLines)),
		humanize.Comma(int64(stats.TotalLines)),
		r.colorize(stats.Coverage, stats.Known),
	})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func (r *TextReporter) colorize(fraction float64, ok bool) string {
	s := formatFraction(fraction, ok)
	if !r.Color || !ok {
		return s
	}

	var c *color.Color
	switch {
	case fraction >= thresholdHigh:
		c = color.New(color.FgGreen)
	case fraction >= thresholdMedium:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	c.EnableColor()
	return c.Sprint(s)
}

func count(n *uint32) string {
	if n == nil {
		return "-"
	}
	return humanize.Comma(int64(*n))
}
