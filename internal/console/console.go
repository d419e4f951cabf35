// Package console provides the text output surfaces of the toolkit: the
// diagnostic sink consumed by the transformer and a printer for
// flattened query results.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/danielsoro/activemq/internal/transform"
)

// WriterSink writes one diagnostic line per call to the underlying
// writer. It is safe for concurrent use, which the transformer requires
// when it is shared across goroutines.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink constructs a sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Print implements transform.DiagnosticSink.
func (s *WriterSink) Print(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

// Printer renders flattened query results as key = value lines with a
// separator between results.
type Printer struct {
	w io.Writer
}

// NewPrinter constructs a printer over w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes every property map in results. Elements that are not
// property maps are skipped; a transformed pipeline only yields maps.
func (p *Printer) Print(results []any) error {
	printed := 0
	for _, result := range results {
		props, ok := result.(*transform.Properties)
		if !ok || props == nil {
			continue
		}
		if printed > 0 {
			if _, err := fmt.Fprintln(p.w); err != nil {
				return err
			}
		}
		for _, key := range props.Keys() {
			val, _ := props.Get(key)
			if _, err := fmt.Fprintf(p.w, "%s = %s\n", key, val); err != nil {
				return err
			}
		}
		printed++
	}
	return nil
}
