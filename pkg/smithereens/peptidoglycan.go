// Package smithereens is the entry point a host binding calls: build a
// peptidoglycan from its notation, ask for its mass, and list its fragments.
package smithereens

import (
	"fmt"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

// Peptidoglycan is a parsed, validated structure.
type Peptidoglycan struct {
	structure *core.Structure
	notation  string
}

// New parses a structure with the default modification database.
func New(structure string) (*Peptidoglycan, error) {
	return NewWithParser(notation.NewParser(nil), structure)
}

// NewWithParser parses a structure with p, typically one built on a custom
// modification database.
func NewWithParser(p *notation.Parser, structure string) (*Peptidoglycan, error) {
	s, err := p.Parse(structure)
	if err != nil {
		return nil, err
	}
	return &Peptidoglycan{structure: s, notation: notation.Format(s)}, nil
}

// Structure returns the parsed structure.
func (p *Peptidoglycan) Structure() *core.Structure { return p.structure }

// String returns the canonical notation.
func (p *Peptidoglycan) String() string { return p.notation }

// MonoisotopicMass returns the exact monoisotopic mass formatted with
// text.MassDecimals decimal places.
func (p *Peptidoglycan) MonoisotopicMass() (string, error) {
	m, err := p.structure.MonoisotopicMass()
	if err != nil {
		return "", err
	}
	return text.FormatMass(m), nil
}

// PGToFragments lists the fragments of p with the default options in the
// fragment wire format.
func PGToFragments(p *Peptidoglycan) (string, error) {
	return PGToFragmentsWith(p, fragment.DefaultOptions())
}

// PGToFragmentsWith lists the fragments of p with explicit options.
func PGToFragmentsWith(p *Peptidoglycan, opts fragment.Options) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nil peptidoglycan")
	}
	engine, err := fragment.NewEngine(opts)
	if err != nil {
		return "", err
	}
	fragments, err := engine.Fragments(p.structure)
	if err != nil {
		return "", err
	}
	return text.FormatFragments(fragments)
}
