package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ayo6706/payment-batch/internal/models"
)

var ErrSinkClosed = errors.New("sink is closed")

// Sink writes payments as plain delimited lines laid out by a Schema.
type Sink struct {
	schema  Schema
	w       *bufio.Writer
	closer  io.Closer
	written int
	closed  bool
}

// CreateSink creates (or truncates) the file at path.
func CreateSink(path string, schema Schema) (*Sink, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s sink directory: %w", schema.Name, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s sink %s: %w", schema.Name, path, err)
	}
	s := newSink(f, schema)
	s.closer = f
	return s, nil
}

// NewSink writes to w. The caller keeps ownership of w.
func NewSink(w io.Writer, schema Schema) (*Sink, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return newSink(w, schema), nil
}

func newSink(w io.Writer, schema Schema) *Sink {
	return &Sink{schema: schema, w: bufio.NewWriter(w)}
}

// Write serializes payments in order and flushes them as one unit.
func (s *Sink) Write(payments []*models.Payment) error {
	if s.closed {
		return ErrSinkClosed
	}
	for _, p := range payments {
		if _, err := s.w.WriteString(s.schema.Line(p) + "\n"); err != nil {
			return fmt.Errorf("write %s payment %d: %w", s.schema.Name, p.ID, err)
		}
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush %s sink: %w", s.schema.Name, err)
	}
	s.written += len(payments)
	return nil
}

// Written is the number of payments flushed so far.
func (s *Sink) Written() int {
	return s.written
}

// Close flushes pending output and releases the underlying file. It is safe
// to call more than once.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("close %s sink: %w", s.schema.Name, err)
	}
	return nil
}
