package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLReporter renders a machine-readable document. Unknown fractions are
// omitted rather than written as zero.
type YAMLReporter struct{}

type yamlFile struct {
	Path     string            `yaml:"path"`
	Hit      *uint32           `yaml:"hit,omitempty"`
	Found    *uint32           `yaml:"found,omitempty"`
	Coverage *float64          `yaml:"coverage,omitempty"`
	Lines    map[uint32]uint64 `yaml:"lines,omitempty"`
}

type yamlTotal struct {
	Hit      uint64   `yaml:"hit"`
	Found    uint64   `yaml:"found"`
	Coverage *float64 `yaml:"coverage,omitempty"`
}

type yamlDocument struct {
	Restricted bool       `yaml:"restricted"`
	Total      yamlTotal  `yaml:"total"`
	Files      []yamlFile `yaml:"files"`
	Missing    []string   `yaml:"missing,omitempty"`
}

// Render writes the summary as YAML.
func (r *YAMLReporter) Render(w io.Writer, s Summary) error {
	stats := s.Report.Stats()
	doc := yamlDocument{
		Restricted: s.Restricted,
		Total: yamlTotal{
			Hit:      stats.TotalCoveredLines,
			Found:    stats.TotalLines,
			Coverage: optional(stats.Coverage, stats.Known),
		},
		Files:   make([]yamlFile, 0, len(s.Report.Files)),
		Missing: s.Missing,
	}

	for _, path := range s.Report.Paths() {
		data := s.Report.Files[path]
		doc.Files = append(doc.Files, yamlFile{
			Path:     path,
			Hit:      data.Hit,
			Found:    data.Found,
			Coverage: optional(data.Fraction()),
			Lines:    data.Counts,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
