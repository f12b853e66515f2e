package fragment

import (
	"sort"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
)

// piece is one monomer of a rebuilt fragment: the surviving sugar of a
// parent monomer with the stem prefix still attached to it, or a run of
// stem residues cut loose from its sugar.
type piece struct {
	origin  int   // parent monomer
	sugar   bool  // starts with the parent's sugar
	nodes   []int // parent node indices, sugar first
	residue []int // parent residue index of each node, -1 for the sugar
}

// substructure rebuilds the member nodes of s as a standalone structure.
// Cleaved ends carry their net composition change as inline modifications,
// and the global modifications stay with the product holding the first node.
func substructure(s *core.Structure, members []bool, ends map[int]core.Delta) (*core.Structure, error) {
	parents := s.Monomers()

	var pieces []piece
	for i, m := range parents {
		sugarNode, _ := s.NodeOf(core.Endpoint{Monomer: i, Residue: -1})
		residueNode := func(j int) int {
			n, _ := s.NodeOf(core.Endpoint{Monomer: i, Residue: j})
			return n
		}

		j := 0
		if m.HasSugar() && members[sugarNode] {
			p := piece{origin: i, sugar: true, nodes: []int{sugarNode}, residue: []int{-1}}
			for ; j < len(m.Stem) && members[residueNode(j)]; j++ {
				p.nodes = append(p.nodes, residueNode(j))
				p.residue = append(p.residue, j)
			}
			pieces = append(pieces, p)
		}
		for j < len(m.Stem) {
			if !members[residueNode(j)] {
				j++
				continue
			}
			p := piece{origin: i}
			for ; j < len(m.Stem) && members[residueNode(j)]; j++ {
				p.nodes = append(p.nodes, residueNode(j))
				p.residue = append(p.residue, j)
			}
			pieces = append(pieces, p)
		}
	}

	// Consecutive surviving sugars of one parent chain stay one chain; every
	// other piece starts a chain of its own.
	var groups [][]piece
	sugarGroup := make(map[int]int) // parent monomer -> group of its sugar
	for _, p := range pieces {
		if p.sugar {
			if g, ok := sugarGroup[p.origin-1]; ok && parents[p.origin-1].Chain == parents[p.origin].Chain {
				groups[g] = append(groups[g], p)
				sugarGroup[p.origin] = g
				continue
			}
			sugarGroup[p.origin] = len(groups)
		}
		groups = append(groups, []piece{p})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a][0].nodes[0] < groups[b][0].nodes[0]
	})

	endpoints := make(map[int]core.Endpoint)
	var monomers []core.Monomer
	for chain, group := range groups {
		for _, p := range group {
			parent := parents[p.origin]
			m := core.Monomer{Chain: chain}
			index := len(monomers)
			for k, n := range p.nodes {
				if p.residue[k] < 0 {
					m.Kind = parent.Kind
					m.Mods = withEnd(parent.Mods, ends[n])
					endpoints[n] = core.Endpoint{Monomer: index, Residue: -1}
					continue
				}
				r := parent.Stem[p.residue[k]]
				r.Mods = withEnd(r.Mods, ends[n])
				endpoints[n] = core.Endpoint{Monomer: index, Residue: len(m.Stem)}
				m.Stem = append(m.Stem, r)
			}
			monomers = append(monomers, m)
		}
	}

	var links []core.CrossLink
	for _, l := range s.Links() {
		donor, _ := s.NodeOf(l.Donor)
		acceptor, _ := s.NodeOf(l.Acceptor)
		if !members[donor] || !members[acceptor] {
			continue
		}
		links = append(links, core.CrossLink{
			Donor:    endpoints[donor],
			Acceptor: endpoints[acceptor],
			Bridge:   l.Bridge,
		})
	}

	var mods []core.Modification
	if members[0] {
		mods = s.Mods()
	}

	return core.NewStructure(monomers, links, mods)
}

func withEnd(mods []core.Modification, end core.Delta) []core.Modification {
	if end.IsZero() {
		return mods
	}
	return append(mods, core.Inline(end))
}
