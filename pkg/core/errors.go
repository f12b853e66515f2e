package core

import "fmt"

// SyntaxError reports a malformed structure notation.
type SyntaxError struct {
	Position int    // byte offset into the input; -1 when not attributable
	Expected string // what the parser was looking for
	Found    string // offending text, empty at end of input
}

func (e *SyntaxError) Error() string {
	found := e.Found
	if found == "" {
		found = "end of input"
	} else {
		found = fmt.Sprintf("'%s'", found)
	}
	if e.Position < 0 {
		return fmt.Sprintf("syntax error: expected %s, found %s", e.Expected, found)
	}
	return fmt.Sprintf("syntax error at %d: expected %s, found %s", e.Position, e.Expected, found)
}

// UnknownResidueError reports a sugar or amino-acid symbol outside the
// recognized vocabulary.
type UnknownResidueError struct {
	Token    string
	Position int
}

func (e *UnknownResidueError) Error() string {
	return fmt.Sprintf("unknown residue '%s' at %d", e.Token, e.Position)
}

// UnknownModificationError reports a modification name missing from the
// modification database.
type UnknownModificationError struct {
	Name     string
	Position int
}

func (e *UnknownModificationError) Error() string {
	return fmt.Sprintf("unknown modification '%s' at %d", e.Name, e.Position)
}

// UnresolvedCrossLinkError reports a cross-link endpoint that does not exist
// in the completed structure.
type UnresolvedCrossLinkError struct {
	Endpoint string // endpoint as written, "unit.residue"
	Link     int    // index of the cross-link
	Position int    // byte offset of the endpoint; -1 when built programmatically
}

func (e *UnresolvedCrossLinkError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("unresolved cross-link endpoint %s (link %d)", e.Endpoint, e.Link+1)
	}
	return fmt.Sprintf("unresolved cross-link endpoint %s at %d", e.Endpoint, e.Position)
}

// UnknownElementError reports an element symbol missing from the element
// table.
type UnknownElementError struct {
	Symbol   string
	Position int
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("unknown element '%s'", e.Symbol)
}

// MassOverflowError reports a formula count beyond any plausible structure.
type MassOverflowError struct {
	Element string
	Count   int
	Limit   int
}

func (e *MassOverflowError) Error() string {
	return fmt.Sprintf("mass overflow: %d atoms of %s exceeds limit %d", e.Count, e.Element, e.Limit)
}

// NegativeCountError reports a subtraction that would leave a negative
// element count.
type NegativeCountError struct {
	Element string
	Have    int
	Remove  int
}

func (e *NegativeCountError) Error() string {
	return fmt.Sprintf("negative element count: cannot remove %d %s from %d", e.Remove, e.Element, e.Have)
}

// FragmentationTooLargeError reports a fragmentation request whose
// cleavage-set enumeration exceeds the configured ceiling.
type FragmentationTooLargeError struct {
	Bonds        int
	MaxCleavages int
	Subsets      uint64 // lower bound once it passes the ceiling
	Ceiling      int
}

func (e *FragmentationTooLargeError) Error() string {
	return fmt.Sprintf("fragmentation too large: %d bonds with up to %d cleavages gives at least %d cleavage sets (ceiling %d)",
		e.Bonds, e.MaxCleavages, e.Subsets, e.Ceiling)
}

// InvalidCleavageError reports a cleavage set in which some removed bond
// leaves its endpoints connected.
type InvalidCleavageError struct {
	Bond int
}

func (e *InvalidCleavageError) Error() string {
	return fmt.Sprintf("invalid cleavage: removing bond %d does not separate its endpoints", e.Bond)
}
