package core

import "fmt"

// MonomerKind is a glycan backbone sugar.
type MonomerKind byte

// Monomer kinds, keyed by their notation code
const (
	NoSugar MonomerKind = 0 // a bare stem with no backbone sugar
	GlcNAc  MonomerKind = 'g'
	MurNAc  MonomerKind = 'm'
)

// SugarInfo describes a backbone sugar.
type SugarInfo struct {
	Code    byte
	Name    string
	Formula Formula // free, unbonded sugar
}

// Sugars maps notation codes to backbone sugars.
var Sugars = map[MonomerKind]SugarInfo{
	GlcNAc: {Code: 'g', Name: "N-acetylglucosamine", Formula: MustParseFormula("C8H15NO6")},
	MurNAc: {Code: 'm', Name: "N-acetylmuramic acid", Formula: MustParseFormula("C11H19NO8")},
}

// ResidueKind is a stem amino acid, keyed by its one-letter code.
type ResidueKind byte

// ResidueInfo describes a stem amino acid.
type ResidueInfo struct {
	Code    byte
	Name    string
	Formula Formula // free amino acid
}

// residue stores elemental composition
type residue struct {
	C, H, N, O, S int
}

// aminoAcidResidues maps one-letter codes to residue (in-chain) compositions.
// Stem conventions: E is iso-glutamate, Q iso-glutamine, J meso-diaminopimelate.
var aminoAcidResidues = map[byte]struct {
	name string
	comp residue
}{
	'A': {"Alanine", residue{C: 3, H: 5, N: 1, O: 1}},
	'R': {"Arginine", residue{C: 6, H: 12, N: 4, O: 1}},
	'N': {"Asparagine", residue{C: 4, H: 6, N: 2, O: 2}},
	'D': {"Aspartate", residue{C: 4, H: 5, N: 1, O: 3}},
	'C': {"Cysteine", residue{C: 3, H: 5, N: 1, O: 1, S: 1}},
	'E': {"Glutamate", residue{C: 5, H: 7, N: 1, O: 3}},
	'Q': {"Glutamine", residue{C: 5, H: 8, N: 2, O: 2}},
	'G': {"Glycine", residue{C: 2, H: 3, N: 1, O: 1}},
	'H': {"Histidine", residue{C: 6, H: 7, N: 3, O: 1}},
	'I': {"Isoleucine", residue{C: 6, H: 11, N: 1, O: 1}},
	'L': {"Leucine", residue{C: 6, H: 11, N: 1, O: 1}},
	'K': {"Lysine", residue{C: 6, H: 12, N: 2, O: 1}},
	'M': {"Methionine", residue{C: 5, H: 9, N: 1, O: 1, S: 1}},
	'F': {"Phenylalanine", residue{C: 9, H: 9, N: 1, O: 1}},
	'P': {"Proline", residue{C: 5, H: 7, N: 1, O: 1}},
	'S': {"Serine", residue{C: 3, H: 5, N: 1, O: 2}},
	'T': {"Threonine", residue{C: 4, H: 7, N: 1, O: 2}},
	'W': {"Tryptophan", residue{C: 11, H: 10, N: 2, O: 1}},
	'Y': {"Tyrosine", residue{C: 9, H: 9, N: 1, O: 2}},
	'V': {"Valine", residue{C: 5, H: 9, N: 1, O: 1}},
	'J': {"meso-Diaminopimelate", residue{C: 7, H: 12, N: 2, O: 3}},
	'O': {"Ornithine", residue{C: 5, H: 10, N: 2, O: 1}},
}

// Residues maps one-letter codes to stem amino acids.
var Residues = buildResidues()

func buildResidues() map[ResidueKind]ResidueInfo {
	out := make(map[ResidueKind]ResidueInfo, len(aminoAcidResidues))
	for code, aa := range aminoAcidResidues {
		f := Formula{"C": aa.comp.C, "H": aa.comp.H, "N": aa.comp.N, "O": aa.comp.O, "S": aa.comp.S}
		out[ResidueKind(code)] = ResidueInfo{
			Code:    code,
			Name:    aa.name,
			Formula: f.Add(Water), // free amino acid
		}
	}
	return out
}

// LookupSugar returns the sugar for a notation code.
func LookupSugar(code byte) (SugarInfo, bool) {
	s, ok := Sugars[MonomerKind(code)]
	return s, ok
}

// LookupResidue returns the amino acid for a one-letter code.
func LookupResidue(code byte) (ResidueInfo, bool) {
	r, ok := Residues[ResidueKind(code)]
	return r, ok
}

func (k MonomerKind) String() string {
	if k == NoSugar {
		return "none"
	}
	if s, ok := Sugars[k]; ok {
		return s.Name
	}
	return fmt.Sprintf("MonomerKind(%q)", byte(k))
}

func (k ResidueKind) String() string {
	if r, ok := Residues[k]; ok {
		return r.Name
	}
	return fmt.Sprintf("ResidueKind(%q)", byte(k))
}

// Stereo is the stereochemistry tag of a stem residue.
type Stereo byte

// Stereochemistry tags, keyed by their notation prefix
const (
	StereoUnspecified Stereo = 0
	StereoL           Stereo = 'l'
	StereoD           Stereo = 'd'
)
