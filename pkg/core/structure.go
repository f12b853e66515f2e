// Package core provides the structural model of a peptidoglycan and the
// validation applied when one is constructed.
package core

import (
	"fmt"
	"slices"
)

// StemResidue is one amino acid of a peptide stem or cross-link bridge.
type StemResidue struct {
	Kind     ResidueKind
	Stereo   Stereo
	Position int // 0-based index within its stem
	Mods     []Modification
}

// Monomer is one element of a glycan chain: a backbone sugar with an
// optional stem, or a bare stem (Kind == NoSugar) standing alone in its chain.
type Monomer struct {
	Kind     MonomerKind
	Position int // 0-based index across all chains
	Chain    int // 0-based chain index
	Mods     []Modification
	Stem     []StemResidue
}

// HasSugar reports whether the monomer carries a backbone sugar.
func (m Monomer) HasSugar() bool { return m.Kind != NoSugar }

// Endpoint addresses a stem residue, or with Residue == -1 the sugar of a
// monomer.
type Endpoint struct {
	Monomer int
	Residue int
}

// String renders the endpoint as written in notation: 1-based monomer,
// 1-based residue, 0 for the sugar.
func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%d", e.Monomer+1, e.Residue+1)
}

// CrossLink joins a donor (carboxyl) endpoint to an acceptor (amine)
// endpoint, optionally through a bridge peptide. A bridge stays with the
// acceptor when the link is cleaved.
type CrossLink struct {
	Donor    Endpoint
	Acceptor Endpoint
	Bridge   []StemResidue
}

// Node is one sugar or stem residue in the flat node arena.
type Node struct {
	Monomer int
	Residue int // -1 for the sugar
}

// IsSugar reports whether the node is a backbone sugar.
func (n Node) IsSugar() bool { return n.Residue < 0 }

// Bond is a covalent bond between two nodes.
type Bond struct {
	ID       int
	Kind     BondKind
	Donor    int // node index
	Acceptor int // node index
	Link     int // cross-link index, -1 for backbone and stem bonds
}

// Structure is an immutable, validated peptidoglycan.
type Structure struct {
	monomers []Monomer
	links    []CrossLink
	mods     []Modification
	chains   int

	nodes   []Node
	offsets []int // first node of each monomer
	bonds   []Bond
}

// NewStructure validates the parts of a structure, assigns positions, node
// indices and stable bond identifiers, and returns the immutable result.
// Cross-link endpoints that do not exist are reported as
// UnresolvedCrossLinkError; a structure whose chains are not all joined by
// cross-links is a SyntaxError.
func NewStructure(monomers []Monomer, links []CrossLink, mods []Modification) (*Structure, error) {
	if len(monomers) == 0 {
		return nil, &SyntaxError{Position: -1, Expected: "monomer or stem"}
	}

	s := &Structure{
		monomers: cloneMonomers(monomers),
		links:    cloneLinks(links),
		mods:     slices.Clone(mods),
	}

	if err := s.validateMonomers(); err != nil {
		return nil, err
	}
	s.buildNodes()
	if err := s.validateLinks(); err != nil {
		return nil, err
	}
	s.buildBonds()
	if err := s.checkParallelBonds(); err != nil {
		return nil, err
	}
	if err := s.checkConnected(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Structure) validateMonomers() error {
	chain := 0
	chainSize := 0
	for i := range s.monomers {
		m := &s.monomers[i]
		m.Position = i

		switch {
		case i == 0 && m.Chain != 0:
			return &SyntaxError{Position: -1, Expected: "first monomer in chain 1", Found: fmt.Sprintf("chain %d", m.Chain+1)}
		case m.Chain == chain+1:
			chain++
			chainSize = 0
		case m.Chain != chain:
			return &SyntaxError{Position: -1, Expected: fmt.Sprintf("monomer %d in chain %d or %d", i+1, chain+1, chain+2), Found: fmt.Sprintf("chain %d", m.Chain+1)}
		}
		chainSize++

		if m.HasSugar() {
			if _, ok := Sugars[m.Kind]; !ok {
				return &UnknownResidueError{Token: string(rune(m.Kind)), Position: -1}
			}
		} else {
			if len(m.Stem) == 0 {
				return &SyntaxError{Position: -1, Expected: fmt.Sprintf("sugar or stem for monomer %d", i+1)}
			}
			if chainSize > 1 || (i+1 < len(s.monomers) && s.monomers[i+1].Chain == m.Chain) {
				return &SyntaxError{Position: -1, Expected: fmt.Sprintf("bare stem %d alone in its chain", i+1)}
			}
		}

		if err := validateResidues(m.Stem); err != nil {
			return err
		}
	}
	s.chains = chain + 1
	return nil
}

func validateResidues(residues []StemResidue) error {
	for j := range residues {
		r := &residues[j]
		r.Position = j
		if _, ok := Residues[r.Kind]; !ok {
			return &UnknownResidueError{Token: string(rune(r.Kind)), Position: -1}
		}
		switch r.Stereo {
		case StereoUnspecified, StereoL, StereoD:
		default:
			return &SyntaxError{Position: -1, Expected: "stereo tag l or d", Found: string(rune(r.Stereo))}
		}
	}
	return nil
}

func (s *Structure) buildNodes() {
	s.offsets = make([]int, len(s.monomers))
	for i, m := range s.monomers {
		s.offsets[i] = len(s.nodes)
		if m.HasSugar() {
			s.nodes = append(s.nodes, Node{Monomer: i, Residue: -1})
		}
		for j := range m.Stem {
			s.nodes = append(s.nodes, Node{Monomer: i, Residue: j})
		}
	}
}

func (s *Structure) validateLinks() error {
	seen := make(map[[2]int]bool, len(s.links))
	for i := range s.links {
		l := &s.links[i]
		donor, ok := s.NodeOf(l.Donor)
		if !ok {
			return &UnresolvedCrossLinkError{Endpoint: l.Donor.String(), Link: i, Position: -1}
		}
		acceptor, ok := s.NodeOf(l.Acceptor)
		if !ok {
			return &UnresolvedCrossLinkError{Endpoint: l.Acceptor.String(), Link: i, Position: -1}
		}
		if donor == acceptor {
			return &SyntaxError{Position: -1, Expected: "cross-link between two different residues", Found: l.Donor.String()}
		}
		key := [2]int{min(donor, acceptor), max(donor, acceptor)}
		if seen[key] {
			return &SyntaxError{Position: -1, Expected: "at most one cross-link per residue pair", Found: l.Donor.String() + "-" + l.Acceptor.String()}
		}
		seen[key] = true
		if err := validateResidues(l.Bridge); err != nil {
			return err
		}
	}
	return nil
}

// buildBonds assigns bond identifiers: per monomer in order the glycosidic
// bond to the next monomer of its chain, the lactyl bond, then the stem
// peptide bonds N to C; cross-links follow in listed order.
func (s *Structure) buildBonds() {
	add := func(kind BondKind, donor, acceptor, link int) {
		s.bonds = append(s.bonds, Bond{ID: len(s.bonds), Kind: kind, Donor: donor, Acceptor: acceptor, Link: link})
	}
	for i, m := range s.monomers {
		base := s.offsets[i]
		if m.HasSugar() {
			if next := i + 1; next < len(s.monomers) && s.monomers[next].Chain == m.Chain {
				add(Glycosidic, base, s.offsets[next], -1)
			}
			if len(m.Stem) > 0 {
				add(Lactyl, base, base+1, -1)
			}
			base++
		}
		for j := 0; j+1 < len(m.Stem); j++ {
			add(Peptide, base+j, base+j+1, -1)
		}
	}
	for i, l := range s.links {
		donor, _ := s.NodeOf(l.Donor)
		acceptor, _ := s.NodeOf(l.Acceptor)
		add(CrossLinkBond, donor, acceptor, i)
	}
}

// checkParallelBonds rejects a cross-link between two nodes that a
// glycosidic, lactyl or peptide bond already joins.
func (s *Structure) checkParallelBonds() error {
	joined := make(map[[2]int]bool, len(s.bonds))
	for _, b := range s.bonds {
		key := [2]int{min(b.Donor, b.Acceptor), max(b.Donor, b.Acceptor)}
		if b.Kind == CrossLinkBond && joined[key] {
			l := s.links[b.Link]
			return &SyntaxError{
				Position: -1,
				Expected: "cross-link between residues not already bonded",
				Found:    l.Donor.String() + "-" + l.Acceptor.String(),
			}
		}
		joined[key] = true
	}
	return nil
}

func (s *Structure) checkConnected() error {
	labels, count := s.Components(nil)
	if count == 1 {
		return nil
	}
	for n, label := range labels {
		if label != labels[0] {
			chain := s.monomers[s.nodes[n].Monomer].Chain
			return &SyntaxError{Position: -1, Expected: fmt.Sprintf("cross-link joining chain %d", chain+1)}
		}
	}
	return nil
}

// NodeOf returns the node index of an endpoint.
func (s *Structure) NodeOf(e Endpoint) (int, bool) {
	if e.Monomer < 0 || e.Monomer >= len(s.monomers) {
		return 0, false
	}
	m := s.monomers[e.Monomer]
	base := s.offsets[e.Monomer]
	if e.Residue == -1 {
		return base, m.HasSugar()
	}
	if e.Residue < 0 || e.Residue >= len(m.Stem) {
		return 0, false
	}
	if m.HasSugar() {
		base++
	}
	return base + e.Residue, true
}

// Monomers returns a copy of the monomers in chain order.
func (s *Structure) Monomers() []Monomer { return cloneMonomers(s.monomers) }

// MonomerCount returns the number of monomers, bare stems included.
func (s *Structure) MonomerCount() int { return len(s.monomers) }

// ChainCount returns the number of glycan chains.
func (s *Structure) ChainCount() int { return s.chains }

// Links returns a copy of the cross-links.
func (s *Structure) Links() []CrossLink { return cloneLinks(s.links) }

// Mods returns a copy of the global modifications.
func (s *Structure) Mods() []Modification { return cloneMods(s.mods) }

// Nodes returns a copy of the node arena.
func (s *Structure) Nodes() []Node { return slices.Clone(s.nodes) }

// NodeCount returns the number of nodes.
func (s *Structure) NodeCount() int { return len(s.nodes) }

// Node returns node n.
func (s *Structure) Node(n int) Node { return s.nodes[n] }

// Bonds returns a copy of the bonds, indexed by identifier.
func (s *Structure) Bonds() []Bond { return slices.Clone(s.bonds) }

// BondCount returns the number of bonds.
func (s *Structure) BondCount() int { return len(s.bonds) }

// Bond returns the bond with identifier id.
func (s *Structure) Bond(id int) Bond { return s.bonds[id] }

// All returns a membership mask selecting every node.
func (s *Structure) All() []bool {
	members := make([]bool, len(s.nodes))
	for i := range members {
		members[i] = true
	}
	return members
}

// nodeMods returns the modifications written on node n.
func (s *Structure) nodeMods(n int) []Modification {
	node := s.nodes[n]
	m := s.monomers[node.Monomer]
	if node.IsSugar() {
		return m.Mods
	}
	return m.Stem[node.Residue].Mods
}

// NodeFormula returns the free formula of the sugar or amino acid at node n,
// before modifications and bonding.
func (s *Structure) NodeFormula(n int) Formula {
	node := s.nodes[n]
	m := s.monomers[node.Monomer]
	if node.IsSugar() {
		return Sugars[m.Kind].Formula
	}
	return Residues[m.Stem[node.Residue].Kind].Formula
}

func cloneMods(mods []Modification) []Modification {
	if mods == nil {
		return nil
	}
	out := make([]Modification, len(mods))
	for i, m := range mods {
		out[i] = Modification{
			Name:   m.Name,
			Delta:  Delta{Gain: m.Delta.Gain.Clone(), Loss: m.Delta.Loss.Clone()},
			Target: m.Target,
		}
	}
	return out
}

func cloneResidues(residues []StemResidue) []StemResidue {
	if residues == nil {
		return nil
	}
	out := make([]StemResidue, len(residues))
	for i, r := range residues {
		out[i] = r
		out[i].Mods = cloneMods(r.Mods)
	}
	return out
}

func cloneMonomers(monomers []Monomer) []Monomer {
	out := make([]Monomer, len(monomers))
	for i, m := range monomers {
		out[i] = m
		out[i].Mods = cloneMods(m.Mods)
		out[i].Stem = cloneResidues(m.Stem)
	}
	return out
}

func cloneLinks(links []CrossLink) []CrossLink {
	if links == nil {
		return nil
	}
	out := make([]CrossLink, len(links))
	for i, l := range links {
		out[i] = l
		out[i].Bridge = cloneResidues(l.Bridge)
	}
	return out
}
