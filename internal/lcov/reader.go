package lcov

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const maxLineSize = 1024 * 1024

// skippedTags are valid LCOV tags that carry test names, versions, function
// or branch data. Only line coverage is read.
var skippedTags = map[string]bool{
	"TN":   true,
	"VER":  true,
	"FN":   true,
	"FNDA": true,
	"FNF":  true,
	"FNH":  true,
	"FNL":  true,
	"FNA":  true,
	"BRDA": true,
	"BRF":  true,
	"BRH":  true,
}

// ParseError reports a tracefile line that could not be read.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid record %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader yields records from a tracefile one at a time.
type Reader struct {
	scanner *bufio.Scanner
	lineNo  int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Open opens the tracefile at path on fs. The caller must close the returned file.
func Open(fs afero.Fs, path string) (*Reader, io.Closer, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open coverage file %q: %w", path, err)
	}
	return NewReader(f), f, nil
}

// Next returns the next record, or io.EOF once the input is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.lineNo++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		record, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: r.lineNo, Text: text, Err: err}
		}
		if record == nil {
			continue
		}
		return record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coverage file: %w", err)
	}
	return nil, io.EOF
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// parseLine returns nil for lines that are valid but not line coverage.
func parseLine(text string) (Record, error) {
	if text == "end_of_record" {
		return EndOfRecord{}, nil
	}

	tag, value, ok := strings.Cut(text, ":")
	if !ok {
		return nil, errors.New("missing ':' separator")
	}

	switch tag {
	case "SF":
		if value == "" {
			return nil, errors.New("empty source file path")
		}
		return SourceFile{Path: value}, nil
	case "DA":
		return parseLineData(value)
	case "LF":
		n, err := parseUint32(value)
		if err != nil {
			return nil, err
		}
		return LinesFound{Found: n}, nil
	case "LH":
		n, err := parseUint32(value)
		if err != nil {
			return nil, err
		}
		return LinesHit{Hit: n}, nil
	}

	if skippedTags[tag] {
		return nil, nil
	}
	return nil, fmt.Errorf("unknown tag %q", tag)
}

// parseLineData parses "line,count[,checksum]".
func parseLineData(value string) (Record, error) {
	parts := strings.SplitN(value, ",", 3)
	if len(parts) < 2 {
		return nil, errors.New("expected line,count")
	}

	line, err := parseUint32(parts[0])
	if err != nil {
		return nil, err
	}
	count, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid execution count: %w", err)
	}

	data := LineData{Line: line, Count: count}
	if len(parts) == 3 {
		data.Checksum = parts[2]
	}
	return data, nil
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
