// Package fragment enumerates the products of cleaving bonds in a
// peptidoglycan structure.
package fragment

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
)

// Defaults for Options.
const (
	DefaultMaxCleavages = 2
	DefaultCeiling      = 100_000
)

// Options controls a fragmentation run.
type Options struct {
	// MaxCleavages bounds the number of bonds cut at once.
	MaxCleavages int
	// Ceiling bounds the number of cleavage sets examined; a run that
	// would exceed it fails with core.FragmentationTooLargeError.
	Ceiling int
	// Convention decides how cleaved ends are capped.
	Convention core.Convention
	// AllProducts reports every product of a cleavage set instead of only
	// the one holding the structure's first node.
	AllProducts bool
	// Kinds restricts the cleavable bond kinds. Empty means all.
	Kinds []core.BondKind
}

// DefaultOptions returns the options used by the plain API.
func DefaultOptions() Options {
	return Options{
		MaxCleavages: DefaultMaxCleavages,
		Ceiling:      DefaultCeiling,
		Convention:   core.Hydrolysis,
	}
}

// Fragment is one product of cleavage.
type Fragment struct {
	Structure *core.Structure
	Notation  string
	// Cleaved lists, ascending, the bond identifiers of the parent that
	// were cut to release this fragment.
	Cleaved []int
	Formula core.Formula
	Mass    decimal.Decimal
}

// IsPrecursor reports whether the fragment is the uncleaved structure.
func (f Fragment) IsPrecursor() bool { return len(f.Cleaved) == 0 }

// Engine fragments structures with fixed options. An Engine holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an engine. A zero Ceiling is replaced by
// DefaultCeiling.
func NewEngine(opts Options) (*Engine, error) {
	if opts.MaxCleavages < 0 {
		return nil, fmt.Errorf("max cleavages must be non-negative, got %d", opts.MaxCleavages)
	}
	if opts.Ceiling < 0 {
		return nil, fmt.Errorf("ceiling must be non-negative, got %d", opts.Ceiling)
	}
	if opts.Ceiling == 0 {
		opts.Ceiling = DefaultCeiling
	}
	opts.Kinds = slices.Clone(opts.Kinds)
	return &Engine{opts: opts}, nil
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	opts := e.opts
	opts.Kinds = slices.Clone(opts.Kinds)
	return opts
}

func (e *Engine) cleavable(kind core.BondKind) bool {
	return len(e.opts.Kinds) == 0 || slices.Contains(e.opts.Kinds, kind)
}

// Fragments returns every distinct fragment reachable by cutting at most
// MaxCleavages cleavable bonds, the uncleaved structure included. A cut set
// counts only when every bond in it separates its two ends. The result is
// ordered by mass, then cleaved bonds, then notation.
func (e *Engine) Fragments(s *core.Structure) ([]Fragment, error) {
	var bonds []int
	for _, b := range s.Bonds() {
		if e.cleavable(b.Kind) {
			bonds = append(bonds, b.ID)
		}
	}

	ceiling := uint64(e.opts.Ceiling)
	if total := CountCleavageSets(len(bonds), e.opts.MaxCleavages, ceiling); total > ceiling {
		return nil, &core.FragmentationTooLargeError{
			Bonds:        len(bonds),
			MaxCleavages: e.opts.MaxCleavages,
			Subsets:      total,
			Ceiling:      e.opts.Ceiling,
		}
	}

	seen := make(map[string]bool)
	var fragments []Fragment
	removed := make([]bool, s.BondCount())

	for set := range CleavageSets(len(bonds), e.opts.MaxCleavages) {
		for _, i := range set {
			removed[bonds[i]] = true
		}
		labels, count := s.Components(removed)
		for _, i := range set {
			removed[bonds[i]] = false
		}
		if !separates(s, bonds, set, labels) {
			continue
		}

		products := []int{labels[0]}
		if e.opts.AllProducts {
			products = products[:0]
			for label := 0; label < count; label++ {
				products = append(products, label)
			}
		}
		for _, label := range products {
			members := membership(labels, label)
			key := membersKey(members)
			if seen[key] {
				continue
			}
			seen[key] = true
			f, err := e.build(s, members)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, f)
		}
	}

	sortFragments(fragments)
	return fragments, nil
}

// Cleave cuts exactly the given bonds and returns every resulting product.
// Each bond must separate its two ends once the whole set is cut.
func (e *Engine) Cleave(s *core.Structure, bondIDs []int) ([]Fragment, error) {
	ids := slices.Clone(bondIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	removed := make([]bool, s.BondCount())
	for _, id := range ids {
		if id < 0 || id >= s.BondCount() {
			return nil, fmt.Errorf("bond %d out of range, structure has %d bonds", id, s.BondCount())
		}
		removed[id] = true
	}

	labels, count := s.Components(removed)
	for _, id := range ids {
		b := s.Bond(id)
		if labels[b.Donor] == labels[b.Acceptor] {
			return nil, &core.InvalidCleavageError{Bond: id}
		}
	}

	fragments := make([]Fragment, 0, count)
	for label := 0; label < count; label++ {
		f, err := e.build(s, membership(labels, label))
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	sortFragments(fragments)
	return fragments, nil
}

// separates reports whether every bond of the set joins two different
// components.
func separates(s *core.Structure, bonds, set, labels []int) bool {
	for _, i := range set {
		b := s.Bond(bonds[i])
		if labels[b.Donor] == labels[b.Acceptor] {
			return false
		}
	}
	return true
}

func membership(labels []int, label int) []bool {
	members := make([]bool, len(labels))
	for n, l := range labels {
		members[n] = l == label
	}
	return members
}

func membersKey(members []bool) string {
	var sb strings.Builder
	sb.Grow(len(members))
	for _, m := range members {
		if m {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// build computes the composition of one product and rebuilds it as a
// standalone structure.
func (e *Engine) build(s *core.Structure, members []bool) (Fragment, error) {
	formula, err := s.Composition(members, e.opts.Convention)
	if err != nil {
		return Fragment{}, err
	}
	mass, err := formula.Mass()
	if err != nil {
		return Fragment{}, err
	}
	ends, err := s.EndDeltas(members, e.opts.Convention)
	if err != nil {
		return Fragment{}, err
	}
	sub, err := substructure(s, members, ends)
	if err != nil {
		return Fragment{}, fmt.Errorf("rebuilding fragment: %w", err)
	}

	var cleaved []int
	for _, b := range s.Bonds() {
		if members[b.Donor] != members[b.Acceptor] {
			cleaved = append(cleaved, b.ID)
		}
	}

	return Fragment{
		Structure: sub,
		Notation:  notation.Format(sub),
		Cleaved:   cleaved,
		Formula:   formula,
		Mass:      mass,
	}, nil
}

func sortFragments(fragments []Fragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		a, b := fragments[i], fragments[j]
		if c := a.Mass.Cmp(b.Mass); c != 0 {
			return c < 0
		}
		if c := slices.Compare(a.Cleaved, b.Cleaved); c != 0 {
			return c < 0
		}
		return a.Notation < b.Notation
	})
}
