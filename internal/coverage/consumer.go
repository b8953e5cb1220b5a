package coverage

import (
	"errors"
	"fmt"
	"io"

	"github.com/zjy-dev/lcov-diff/internal/lcov"
)

var (
	// ErrMalformedTrace matches records that arrive out of order.
	ErrMalformedTrace = errors.New("malformed coverage trace")
	// ErrTruncatedTrace matches traces that end inside a block.
	ErrTruncatedTrace = errors.New("truncated coverage trace")
)

// State is the position of a Consumer within the trace.
type State int

const (
	StateIdle State = iota
	StateInFile
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFile:
		return "in file"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// UnexpectedRecordError reports a record the consumer cannot accept in its
// current state.
type UnexpectedRecordError struct {
	Kind  lcov.Kind
	State State
	// Path of the open block, empty when idle
	Path string
}

func (e *UnexpectedRecordError) Error() string {
	if e.State == StateInFile {
		return fmt.Sprintf("%v: unexpected %s record in block for %q (state: %s)", ErrMalformedTrace, e.Kind, e.Path, e.State)
	}
	return fmt.Sprintf("%v: unexpected %s record outside of a source file block (state: %s)", ErrMalformedTrace, e.Kind, e.State)
}

func (e *UnexpectedRecordError) Is(target error) bool { return target == ErrMalformedTrace }

// TruncatedTraceError reports a trace that ended before the open block was closed.
type TruncatedTraceError struct {
	Path string
}

func (e *TruncatedTraceError) Error() string {
	return fmt.Sprintf("%v: trace ended inside the block for %q (missing end_of_record)", ErrTruncatedTrace, e.Path)
}

func (e *TruncatedTraceError) Is(target error) bool { return target == ErrTruncatedTrace }

// Consumer builds a Report from trace records fed in order. The first error
// is sticky: every later call returns it.
type Consumer struct {
	state  State
	path   string
	acc    *LineCoverage
	report *Report
	err    error
}

// NewConsumer creates a Consumer in the idle state.
func NewConsumer() *Consumer {
	return &Consumer{state: StateIdle, report: NewReport()}
}

// Consume applies one record.
func (c *Consumer) Consume(record lcov.Record) error {
	if c.err != nil {
		return c.err
	}
	c.err = c.apply(record)
	return c.err
}

func (c *Consumer) apply(record lcov.Record) error {
	if c.state == StateIdle {
		rec, ok := record.(lcov.SourceFile)
		if !ok {
			return c.unexpected(record)
		}
		c.state = StateInFile
		c.path = rec.Path
		c.acc = newLineCoverage()
		return nil
	}

	switch rec := record.(type) {
	case lcov.LineData:
		c.acc.Counts[rec.Line] += rec.Count
	case lcov.LinesFound:
		found := rec.Found
		c.acc.Found = &found
	case lcov.LinesHit:
		hit := rec.Hit
		c.acc.Hit = &hit
	case lcov.EndOfRecord:
		// A later block for the same path replaces the earlier one.
		c.report.Files[c.path] = c.acc
		c.state = StateIdle
		c.path = ""
		c.acc = nil
	default:
		return c.unexpected(record)
	}
	return nil
}

func (c *Consumer) unexpected(record lcov.Record) error {
	return &UnexpectedRecordError{Kind: record.Kind(), State: c.state, Path: c.path}
}

// Finish ends the stream and returns the report. It fails if a block is
// still open or an earlier record failed.
func (c *Consumer) Finish() (*Report, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.state != StateIdle {
		c.err = &TruncatedTraceError{Path: c.path}
		return nil, c.err
	}
	return c.report, nil
}

// RecordSource yields trace records until io.EOF.
type RecordSource interface {
	Next() (lcov.Record, error)
}

// Ingest consumes every record from src and returns the finished report.
func Ingest(src RecordSource) (*Report, error) {
	consumer := NewConsumer()
	for {
		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read trace: %w", err)
		}
		if err := consumer.Consume(record); err != nil {
			return nil, err
		}
	}
	return consumer.Finish()
}
