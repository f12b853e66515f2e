package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// accumulator collects gained and lost atoms separately; the subtraction
// happens once so that intermediate order cannot push a count below zero.
type accumulator struct {
	gain, loss Formula
}

func newAccumulator() *accumulator {
	return &accumulator{gain: Formula{}, loss: Formula{}}
}

func (a *accumulator) add(f Formula) {
	for k, v := range f {
		a.gain[k] += v
	}
}

func (a *accumulator) remove(f Formula) {
	for k, v := range f {
		a.loss[k] += v
	}
}

func (a *accumulator) apply(d Delta) {
	a.add(d.Gain)
	a.remove(d.Loss)
}

func (a *accumulator) result() (Formula, error) {
	return a.gain.Sub(a.loss)
}

// BridgeDelta is the composition a bridge peptide adds to its link: the free
// bridge residues and their modifications, less one water for every bridge
// residue (its internal bonds plus the bond to the acceptor).
func (s *Structure) BridgeDelta(link int) Delta {
	bridge := s.links[link].Bridge
	d := Delta{Gain: Formula{}, Loss: Water.Scale(len(bridge))}
	for _, r := range bridge {
		d.Gain = d.Gain.Add(Residues[r.Kind].Formula)
		for _, m := range r.Mods {
			d = d.Plus(m.Delta)
		}
	}
	return d
}

func (s *Structure) checkMask(members []bool) error {
	if len(members) != len(s.nodes) {
		return fmt.Errorf("membership mask has %d entries, structure has %d nodes", len(members), len(s.nodes))
	}
	return nil
}

// EndDeltas returns, for every member node at a cleaved bond (a bond with
// exactly one member endpoint), the net change its cleaved ends bring
// relative to the free residue: the bonded side's share of the formation
// loss, the convention's cleavage gain and, on the acceptor side of a
// bridged cross-link, the bridge.
func (s *Structure) EndDeltas(members []bool, conv Convention) (map[int]Delta, error) {
	if err := s.checkMask(members); err != nil {
		return nil, err
	}
	ends := make(map[int]Delta)
	for _, b := range s.bonds {
		donorIn, acceptorIn := members[b.Donor], members[b.Acceptor]
		if donorIn == acceptorIn {
			continue
		}
		chem := BondChemistryOf(b.Kind)
		donorGain, acceptorGain := conv.Deltas(b.Kind)
		if donorIn {
			ends[b.Donor] = ends[b.Donor].Plus(donorGain).Plus(Loss(chem.DonorLoss))
			continue
		}
		d := ends[b.Acceptor].Plus(acceptorGain).Plus(Loss(chem.AcceptorLoss))
		if b.Link >= 0 && len(s.links[b.Link].Bridge) > 0 {
			d = d.Plus(s.BridgeDelta(b.Link))
		}
		ends[b.Acceptor] = d
	}
	for n, d := range ends {
		ends[n] = d.Net()
	}
	return ends, nil
}

// Composition returns the elemental formula of the member nodes: free
// sugars and residues with their modifications, the global modifications
// when the first node is a member, intact bridges, less the formation loss of
// every intact bond, plus the cleaved-end deltas of every bond leaving the
// selection.
func (s *Structure) Composition(members []bool, conv Convention) (Formula, error) {
	if err := s.checkMask(members); err != nil {
		return nil, err
	}

	acc := newAccumulator()
	for n := range s.nodes {
		if !members[n] {
			continue
		}
		acc.add(s.NodeFormula(n))
		for _, m := range s.nodeMods(n) {
			acc.apply(m.Delta)
		}
	}
	if members[0] {
		for _, m := range s.mods {
			acc.apply(m.Delta)
		}
	}

	for _, b := range s.bonds {
		if !members[b.Donor] || !members[b.Acceptor] {
			continue
		}
		acc.remove(BondChemistryOf(b.Kind).Formation)
		if b.Link >= 0 && len(s.links[b.Link].Bridge) > 0 {
			acc.apply(s.BridgeDelta(b.Link))
		}
	}

	ends, err := s.EndDeltas(members, conv)
	if err != nil {
		return nil, err
	}
	for _, d := range ends {
		acc.apply(d)
	}

	return acc.result()
}

// Formula returns the elemental formula of the whole structure.
func (s *Structure) Formula() (Formula, error) {
	return s.Composition(s.All(), Hydrolysis)
}

// MonoisotopicMass returns the exact monoisotopic mass of the whole
// structure.
func (s *Structure) MonoisotopicMass() (decimal.Decimal, error) {
	f, err := s.Formula()
	if err != nil {
		return decimal.Zero, err
	}
	return f.Mass()
}
