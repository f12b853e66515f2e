// Package core provides modification parsing and management
package core

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Target restricts where a modification may be written.
type Target int

// Modification targets
const (
	AnyTarget Target = iota
	MonomerTarget
	ResidueTarget
	GlobalTarget
)

var targetNames = map[Target]string{
	AnyTarget:     "any",
	MonomerTarget: "monomer",
	ResidueTarget: "residue",
	GlobalTarget:  "global",
}

func (t Target) String() string {
	return targetNames[t]
}

// ParseTarget parses a target name.
func ParseTarget(s string) (Target, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AnyTarget, nil
	}
	for t, name := range targetNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown modification target '%s', must be any, monomer, residue or global", s)
}

// Allows reports whether a modification for t may be written at place.
func (t Target) Allows(place Target) bool {
	return t == AnyTarget || t == place
}

// Modification is a named or inline composition change on a sugar,
// a residue, or the whole structure.
type Modification struct {
	Name   string // empty for an inline formula delta
	Delta  Delta
	Target Target
}

// Inline returns an unnamed modification carrying d.
func Inline(d Delta) Modification {
	return Modification{Delta: d.Net()}
}

// Label returns the notation form: the name, or the signed formula when
// the modification is inline.
func (m Modification) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Delta.String()
}

// ModDatabase stores modification definitions
type ModDatabase struct {
	mods map[string]Modification
}

// NewModDatabase creates an empty modification database
func NewModDatabase() *ModDatabase {
	return &ModDatabase{
		mods: make(map[string]Modification),
	}
}

// LoadFromCSV loads modifications from a CSV file (format: name,delta,target)
// where delta is a signed formula such as "-H2O" or "+Na-H".
func (db *ModDatabase) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if scanner.Scan() {
		// header line
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		if !validModName(name) {
			return fmt.Errorf("line %d: invalid modification name '%s'", lineNum, name)
		}

		deltaStr := strings.TrimSpace(parts[1])
		delta, err := ParseDelta(deltaStr)
		if err != nil {
			return fmt.Errorf("line %d: invalid delta '%s': %w", lineNum, deltaStr, err)
		}

		target := AnyTarget
		if len(parts) > 2 {
			target, err = ParseTarget(parts[2])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
		}

		db.Add(name, delta, target)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// validModName accepts names the notation can read back: a letter followed
// by letters, digits or underscores.
func validModName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}

// Get returns the modification registered under name.
func (db *ModDatabase) Get(name string) (Modification, bool) {
	mod, ok := db.mods[name]
	return mod, ok
}

// Add adds or updates a modification
func (db *ModDatabase) Add(name string, delta Delta, target Target) {
	db.mods[name] = Modification{Name: name, Delta: delta.Net(), Target: target}
}

// Names returns the registered modification names in sorted order.
func (db *ModDatabase) Names() []string {
	names := make([]string, 0, len(db.mods))
	for name := range db.mods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustDelta(s string) Delta {
	d, err := ParseDelta(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultModDatabase returns a ModDatabase pre-loaded with common
// cell-wall modifications
func DefaultModDatabase() *ModDatabase {
	db := NewModDatabase()

	// Sugar modifications
	db.Add("Anh", mustDelta("-H2O"), MonomerTarget)    // 1,6-anhydro MurNAc
	db.Add("DeAc", mustDelta("-C2H2O"), MonomerTarget) // de-N-acetylation
	db.Add("Red", mustDelta("+H2"), MonomerTarget)     // borohydride reduction
	db.Add("OAc", mustDelta("+C2H2O"), MonomerTarget)  // O-acetylation
	db.Add("Glyco", mustDelta("+O"), MonomerTarget)    // N-glycolyl instead of N-acetyl

	// Stem modifications
	db.Add("Am", mustDelta("+HN-O"), ResidueTarget) // amidation
	db.Add("Me", mustDelta("+CH2"), ResidueTarget)
	db.Add("Ox", mustDelta("+O"), ResidueTarget)

	// Either
	db.Add("Ac", mustDelta("+C2H2O"), AnyTarget)
	db.Add("Phospho", mustDelta("+HPO3"), AnyTarget)

	// Adducts and whole-structure changes
	db.Add("Na", mustDelta("+Na-H"), GlobalTarget)
	db.Add("K", mustDelta("+K-H"), GlobalTarget)
	db.Add("NH4", mustDelta("+NH3"), GlobalTarget)

	return db
}
