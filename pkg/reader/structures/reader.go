// Package structures provides streaming readers for structure-list files
package structures

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
)

// Entry is one structure of a list
type Entry struct {
	Line      int              // 1-based line number in the input
	Notation  string           // structure as written
	Expected  *decimal.Decimal // expected monoisotopic mass, nil when absent
	Name      string           // optional label from the third field
	Structure *core.Structure  // nil when Err is set
	Err       error            // parse failure of this entry
}

// headerNames are first fields that mark a header line.
var headerNames = map[string]bool{
	"structure":          true,
	"inferred structure": true,
	"notation":           true,
}

// Reader provides streaming access to structure lists: one structure per
// line, optionally followed by an expected mass and a name, separated by
// tabs or commas. Blank lines and lines starting with '#' are skipped, as is
// a header line. This reads both theoretical-mass CSV databases and the
// fragment wire format.
type Reader struct {
	scanner *bufio.Scanner
	parser  *notation.Parser
	lineNum int
	current *Entry
	err     error
}

// NewReader creates a new structure-list reader
func NewReader(r io.Reader, modDB *core.ModDatabase) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		parser:  notation.NewParser(modDB),
	}
}

// Next advances to the next entry. Returns false when no more entries or on
// a read error. A structure that fails to parse, or whose mass field is not
// a number, is still returned, with Entry.Err set.
func (r *Reader) Next() bool {
	r.current = nil

	entry, err := r.readEntry()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = entry
	return true
}

// Entry returns the current entry
func (r *Reader) Entry() *Entry {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readEntry reads a single non-blank line
func (r *Reader) readEntry() (*Entry, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if isHeader(line) {
			continue
		}

		fields := splitFields(line)

		entry := &Entry{Line: r.lineNum, Notation: fields[0]}
		if len(fields) > 2 {
			entry.Name = fields[2]
		}
		if len(fields) > 1 && fields[1] != "" {
			m, err := decimal.NewFromString(fields[1])
			if err != nil {
				entry.Err = fmt.Errorf("line %d: invalid mass '%s': %w", r.lineNum, fields[1], err)
				return entry, nil
			}
			entry.Expected = &m
		}

		entry.Structure, entry.Err = r.parser.Parse(entry.Notation)
		if entry.Err != nil {
			entry.Err = fmt.Errorf("line %d: %w", r.lineNum, entry.Err)
		}
		return entry, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}

// splitFields splits a line into structure, mass and name. Tabs take
// precedence. With commas, which also occur inside notation, the structure
// is everything before the first field that reads as a number.
func splitFields(line string) []string {
	if strings.Contains(line, "\t") {
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = unquote(fields[i])
		}
		return fields
	}

	parts := strings.Split(line, ",")
	for i := 1; i < len(parts); i++ {
		if _, err := decimal.NewFromString(strings.TrimSpace(parts[i])); err == nil {
			fields := []string{unquote(strings.Join(parts[:i], ","))}
			for _, p := range parts[i:] {
				fields = append(fields, unquote(p))
			}
			if len(fields) > 3 {
				fields[2] = strings.Join(fields[2:], ",")
				fields = fields[:3]
			}
			return fields
		}
	}
	return []string{unquote(line)}
}

// isHeader reports whether the first field of a line names the structure
// column.
func isHeader(line string) bool {
	first, _, _ := strings.Cut(line, "\t")
	first, _, _ = strings.Cut(first, ",")
	return headerNames[strings.ToLower(unquote(first))]
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
