// Package emit writes rendered translations to their destinations.
package emit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrWrite is returned when a sink cannot be written.
var ErrWrite = errors.New("output write failure")

// Sink is one destination of a rendered unit.
type Sink interface {
	Write(text string) error
	Name() string
}

// WriterSink writes to an io.Writer such as os.Stdout.
type WriterSink struct {
	w    io.Writer
	name string
}

func NewWriterSink(name string, w io.Writer) *WriterSink {
	return &WriterSink{w: w, name: name}
}

func (s *WriterSink) Write(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

func (s *WriterSink) Name() string {
	return s.name
}

// FileSink writes to a file, replacing its content. Missing parent
// directories are created.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) Write(text string) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path, []byte(text), 0o644)
}

func (s *FileSink) Name() string {
	return s.Path
}

// Emitter delivers rendered text to every configured sink.
type Emitter struct {
	sinks []Sink
}

func New(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks}
}

// Emit writes text to each sink in order. A failing sink does not stop the
// others; all failures are returned together, each wrapping ErrWrite.
func (e *Emitter) Emit(text string) error {
	var errs []error
	for _, s := range e.sinks {
		if err := s.Write(text); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrWrite, s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
