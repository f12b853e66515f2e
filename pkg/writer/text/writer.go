// Package text provides the plain-text serialization of masses and fragment
// lists
package text

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
)

// MassDecimals is the number of decimal places written for a mass.
const MassDecimals = 6

// FormatMass renders a mass with MassDecimals fixed decimal places.
func FormatMass(m decimal.Decimal) string {
	return m.StringFixed(MassDecimals)
}

// Writer writes fragment lists in the tab-separated wire format, one
// "<notation>\t<mass>" line per fragment.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter creates a writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFragment writes a single fragment line.
func (w *Writer) WriteFragment(f fragment.Fragment) error {
	if f.Structure == nil || f.Notation == "" {
		return fmt.Errorf("fragment %d has no structure", w.count+1)
	}
	if _, err := fmt.Fprintf(w.w, "%s\t%s\n", f.Notation, FormatMass(f.Mass)); err != nil {
		return fmt.Errorf("failed to write fragment: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of fragments written.
func (w *Writer) Count() int { return w.count }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFragments writes every fragment in order and flushes.
func WriteFragments(out io.Writer, fragments []fragment.Fragment) error {
	w := NewWriter(out)
	for _, f := range fragments {
		if err := w.WriteFragment(f); err != nil {
			return err
		}
	}
	return w.Flush()
}

// FormatFragments returns the wire format of fragments as a string.
func FormatFragments(fragments []fragment.Fragment) (string, error) {
	var sb strings.Builder
	if err := WriteFragments(&sb, fragments); err != nil {
		return "", err
	}
	return sb.String(), nil
}
