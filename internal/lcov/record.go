// Package lcov reads LCOV tracefiles (the lcov/genhtml ".info" format) as a
// stream of typed line-coverage records.
package lcov

import "fmt"

// Kind identifies a record type.
type Kind int

const (
	KindSourceFile Kind = iota
	KindLineData
	KindLinesFound
	KindLinesHit
	KindEndOfRecord
)

var kindNames = map[Kind]string{
	KindSourceFile:  "SF",
	KindLineData:    "DA",
	KindLinesFound:  "LF",
	KindLinesHit:    "LH",
	KindEndOfRecord: "end_of_record",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Record is a single entry of a tracefile.
type Record interface {
	Kind() Kind
}

// SourceFile opens a block for the file at Path.
type SourceFile struct {
	Path string
}

// LineData is an execution count for one line. Checksum is kept as read and
// otherwise ignored.
type LineData struct {
	Line     uint32
	Count    uint64
	Checksum string
}

// LinesFound is the number of instrumented lines in the block.
type LinesFound struct {
	Found uint32
}

// LinesHit is the number of lines with a non-zero count in the block.
type LinesHit struct {
	Hit uint32
}

// EndOfRecord closes the current block.
type EndOfRecord struct{}

func (SourceFile) Kind() Kind  { return KindSourceFile }
func (LineData) Kind() Kind    { return KindLineData }
func (LinesFound) Kind() Kind  { return KindLinesFound }
func (LinesHit) Kind() Kind    { return KindLinesHit }
func (EndOfRecord) Kind() Kind { return KindEndOfRecord }
