// Package core provides chemistry calculations for peptidoglycan mass calculations
package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAtomCount bounds any single element count in a formula whose mass is
// computed. No cell-wall fragment comes close to it.
const MaxAtomCount = 1_000_000

// Atomic masses (monoisotopic)
var monoisotopicMasses = map[string]decimal.Decimal{
	"H":  decimal.RequireFromString("1.0078250321"),
	"C":  decimal.RequireFromString("12.0000000000"),
	"N":  decimal.RequireFromString("14.0030740052"),
	"O":  decimal.RequireFromString("15.9949146221"),
	"S":  decimal.RequireFromString("31.9720706900"),
	"P":  decimal.RequireFromString("30.9737615100"),
	"Na": decimal.RequireFromString("22.9897692820"),
	"K":  decimal.RequireFromString("38.9637064864"),
}

// ElementMass returns the monoisotopic mass of an element symbol.
func ElementMass(symbol string) (decimal.Decimal, error) {
	m, ok := monoisotopicMasses[symbol]
	if !ok {
		return decimal.Zero, &UnknownElementError{Symbol: symbol}
	}
	return m, nil
}

// Elements returns the recognized element symbols in Hill order.
func Elements() []string {
	symbols := make([]string, 0, len(monoisotopicMasses))
	for s := range monoisotopicMasses {
		symbols = append(symbols, s)
	}
	sortHill(symbols)
	return symbols
}

// Formula is an elemental composition. Counts are never negative.
type Formula map[string]int

// Common formulas
var (
	Water    = Formula{"H": 2, "O": 1}
	Hydroxyl = Formula{"O": 1, "H": 1}
	Hydrogen = Formula{"H": 1}
)

// MustParseFormula is ParseFormula for package-level tables.
func MustParseFormula(s string) Formula {
	f, err := ParseFormula(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFormula parses a formula such as "C11H19NO8". An empty string is the
// empty formula.
func ParseFormula(s string) (Formula, error) {
	f := Formula{}
	i := 0
	for i < len(s) {
		symbol, count, next, err := scanElement(s, i)
		if err != nil {
			return nil, err
		}
		if f[symbol] += count; f[symbol] > MaxAtomCount {
			return nil, &MassOverflowError{Element: symbol, Count: f[symbol], Limit: MaxAtomCount}
		}
		i = next
	}
	return f, nil
}

// scanElement reads one element symbol and its optional count starting at i.
func scanElement(s string, i int) (string, int, int, error) {
	if s[i] < 'A' || s[i] > 'Z' {
		return "", 0, i, fmt.Errorf("invalid formula %q: expected element symbol at %d", s, i)
	}
	j := i + 1
	for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
		j++
	}
	symbol := s[i:j]
	if _, ok := monoisotopicMasses[symbol]; !ok {
		return "", 0, i, &UnknownElementError{Symbol: symbol, Position: i}
	}
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}
	count := 1
	if k > j {
		n, err := strconv.Atoi(s[j:k])
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "", 0, i, fmt.Errorf("invalid count in formula %q: %w", s, err)
		}
		count = n
	}
	if count > MaxAtomCount {
		return "", 0, i, &MassOverflowError{Element: symbol, Count: count, Limit: MaxAtomCount}
	}
	return symbol, count, k, nil
}

// Clone returns a copy of f.
func (f Formula) Clone() Formula {
	out := make(Formula, len(f))
	for k, v := range f {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Add returns f + g.
func (f Formula) Add(g Formula) Formula {
	out := f.Clone()
	for k, v := range g {
		if v != 0 {
			out[k] += v
		}
	}
	return out
}

// Scale returns f repeated n times.
func (f Formula) Scale(n int) Formula {
	out := make(Formula, len(f))
	for k, v := range f {
		if v*n != 0 {
			out[k] = v * n
		}
	}
	return out
}

// Sub returns f - g. It fails rather than clamp if any count would go
// negative.
func (f Formula) Sub(g Formula) (Formula, error) {
	out := f.Clone()
	for _, k := range sortedSymbols(g) {
		v := g[k]
		if out[k] < v {
			return nil, &NegativeCountError{Element: k, Have: out[k], Remove: v}
		}
		out[k] -= v
		if out[k] == 0 {
			delete(out, k)
		}
	}
	return out, nil
}

// Equal reports whether two formulas have the same composition.
func (f Formula) Equal(g Formula) bool {
	for k, v := range f {
		if g[k] != v {
			return false
		}
	}
	for k, v := range g {
		if f[k] != v {
			return false
		}
	}
	return true
}

// IsZero reports whether the formula holds no atoms.
func (f Formula) IsZero() bool {
	for _, v := range f {
		if v != 0 {
			return false
		}
	}
	return true
}

// Mass computes the monoisotopic mass of the formula.
func (f Formula) Mass() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, k := range sortedSymbols(f) {
		n := f[k]
		if n < 0 {
			return decimal.Zero, &NegativeCountError{Element: k, Have: n}
		}
		if n > MaxAtomCount {
			return decimal.Zero, &MassOverflowError{Element: k, Count: n, Limit: MaxAtomCount}
		}
		m, err := ElementMass(k)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(m.Mul(decimal.NewFromInt(int64(n))))
	}
	return total, nil
}

// String renders the formula in Hill order: C, H, then alphabetical.
func (f Formula) String() string {
	var sb strings.Builder
	for _, k := range sortedSymbols(f) {
		n := f[k]
		if n == 0 {
			continue
		}
		sb.WriteString(k)
		if n != 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

func sortedSymbols(f Formula) []string {
	symbols := make([]string, 0, len(f))
	for k := range f {
		symbols = append(symbols, k)
	}
	sortHill(symbols)
	return symbols
}

func sortHill(symbols []string) {
	rank := func(s string) int {
		switch s {
		case "C":
			return 0
		case "H":
			return 1
		}
		return 2
	}
	sort.Slice(symbols, func(i, j int) bool {
		ri, rj := rank(symbols[i]), rank(symbols[j])
		if ri != rj {
			return ri < rj
		}
		return symbols[i] < symbols[j]
	})
}

// Delta is a signed change to a formula, kept as separate gained and lost
// atoms so that applying it can be checked against negative counts.
type Delta struct {
	Gain Formula
	Loss Formula
}

// Gain returns a delta that only adds atoms.
func Gain(f Formula) Delta { return Delta{Gain: f.Clone()} }

// Loss returns a delta that only removes atoms.
func Loss(f Formula) Delta { return Delta{Loss: f.Clone()} }

// ParseDelta parses a signed formula such as "+C2H2O", "-H2O" or "+Na-H".
func ParseDelta(s string) (Delta, error) {
	d := Delta{Gain: Formula{}, Loss: Formula{}}
	if s == "" {
		return d, fmt.Errorf("empty delta")
	}
	i := 0
	for i < len(s) {
		sign := s[i]
		if sign != '+' && sign != '-' {
			return Delta{}, fmt.Errorf("invalid delta %q: expected '+' or '-' at %d", s, i)
		}
		i++
		start := i
		for i < len(s) && s[i] != '+' && s[i] != '-' {
			symbol, count, next, err := scanElement(s, i)
			if err != nil {
				return Delta{}, err
			}
			side := d.Gain
			if sign == '-' {
				side = d.Loss
			}
			if side[symbol] += count; side[symbol] > MaxAtomCount {
				return Delta{}, &MassOverflowError{Element: symbol, Count: side[symbol], Limit: MaxAtomCount}
			}
			i = next
		}
		if i == start {
			return Delta{}, fmt.Errorf("invalid delta %q: empty group at %d", s, start)
		}
	}
	return d, nil
}

// Plus returns the combination of two deltas.
func (d Delta) Plus(e Delta) Delta {
	return Delta{
		Gain: d.Gain.Add(e.Gain),
		Loss: d.Loss.Add(e.Loss),
	}
}

// Net cancels atoms that are both gained and lost.
func (d Delta) Net() Delta {
	out := Delta{Gain: Formula{}, Loss: Formula{}}
	for k, v := range d.Gain {
		out.Gain[k] += v
	}
	for k, v := range d.Loss {
		out.Gain[k] -= v
	}
	for k, v := range out.Gain {
		switch {
		case v < 0:
			out.Loss[k] = -v
			delete(out.Gain, k)
		case v == 0:
			delete(out.Gain, k)
		}
	}
	return out
}

// IsZero reports whether the delta changes nothing once netted.
func (d Delta) IsZero() bool {
	n := d.Net()
	return n.Gain.IsZero() && n.Loss.IsZero()
}

// Mass returns the signed mass change of the delta.
func (d Delta) Mass() (decimal.Decimal, error) {
	g, err := d.Gain.Mass()
	if err != nil {
		return decimal.Zero, err
	}
	l, err := d.Loss.Mass()
	if err != nil {
		return decimal.Zero, err
	}
	return g.Sub(l), nil
}

// String renders the netted delta as a signed formula, gains first.
func (d Delta) String() string {
	n := d.Net()
	var sb strings.Builder
	if !n.Gain.IsZero() {
		sb.WriteString("+")
		sb.WriteString(n.Gain.String())
	}
	if !n.Loss.IsZero() {
		sb.WriteString("-")
		sb.WriteString(n.Loss.String())
	}
	return sb.String()
}

// BondKind classifies the bonds of a structure.
type BondKind int

// Bond kinds
const (
	Glycosidic    BondKind = iota // sugar C1 to the next sugar of the chain
	Lactyl                        // MurNAc lactyl carboxyl to the first stem residue
	Peptide                       // stem residue to the next stem residue
	CrossLinkBond                 // cross-link between two stems (or sugars)
)

var bondKindNames = map[BondKind]string{
	Glycosidic:    "glycosidic",
	Lactyl:        "lactyl",
	Peptide:       "peptide",
	CrossLinkBond: "crosslink",
}

func (k BondKind) String() string {
	if name, ok := bondKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BondKind(%d)", int(k))
}

// ParseBondKind parses a bond kind name as printed by String.
func ParseBondKind(s string) (BondKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range bondKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown bond kind '%s', must be glycosidic, lactyl, peptide or crosslink", s)
}

// BondChemistry is the formula bookkeeping of one bond kind: what is lost
// when the bond forms, split between the donor (acyl or C1 side) and the
// acceptor (amine or hydroxyl side).
type BondChemistry struct {
	Formation    Formula
	DonorLoss    Formula
	AcceptorLoss Formula
}

// All bonds in a peptidoglycan are condensations.
var condensation = BondChemistry{
	Formation:    Water,
	DonorLoss:    Hydroxyl,
	AcceptorLoss: Hydrogen,
}

var bondTable = map[BondKind]BondChemistry{
	Glycosidic:    condensation,
	Lactyl:        condensation,
	Peptide:       condensation,
	CrossLinkBond: condensation,
}

// BondChemistryOf returns the chemistry table entry for a bond kind.
func BondChemistryOf(kind BondKind) BondChemistry {
	return bondTable[kind]
}

// Convention selects what each side of a cleaved bond gains.
type Convention int

// Cleavage conventions
const (
	// Hydrolysis returns OH to the donor and H to the acceptor, so every
	// fragment is an intact neutral molecule.
	Hydrolysis Convention = iota
	// Direct leaves the donor as a dehydrated (B/b-type) end and the
	// acceptor as an intact (Y/y-type) end.
	Direct
)

type cleavageDeltas struct {
	donor, acceptor Delta
}

var cleavageTable = map[Convention]map[BondKind]cleavageDeltas{
	Hydrolysis: {
		Glycosidic:    {donor: Gain(Hydroxyl), acceptor: Gain(Hydrogen)},
		Lactyl:        {donor: Gain(Hydroxyl), acceptor: Gain(Hydrogen)},
		Peptide:       {donor: Gain(Hydroxyl), acceptor: Gain(Hydrogen)},
		CrossLinkBond: {donor: Gain(Hydroxyl), acceptor: Gain(Hydrogen)},
	},
	Direct: {
		Glycosidic:    {donor: Loss(Hydrogen), acceptor: Gain(Hydrogen)},
		Lactyl:        {donor: Loss(Hydrogen), acceptor: Gain(Hydrogen)},
		Peptide:       {donor: Loss(Hydrogen), acceptor: Gain(Hydrogen)},
		CrossLinkBond: {donor: Loss(Hydrogen), acceptor: Gain(Hydrogen)},
	},
}

var conventionNames = map[Convention]string{
	Hydrolysis: "hydrolysis",
	Direct:     "direct",
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention parses a convention name.
func ParseConvention(s string) (Convention, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range conventionNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown cleavage convention '%s', must be hydrolysis or direct", s)
}

// Deltas returns what the donor and acceptor ends gain when a bond of the
// given kind is cleaved under this convention.
func (c Convention) Deltas(kind BondKind) (donor, acceptor Delta) {
	d := cleavageTable[c][kind]
	return d.donor, d.acceptor
}

// Byproduct is the composition added across both ends of a cleavage, so that
// mass(donor side) + mass(acceptor side) - mass(byproduct) = mass(whole).
func (c Convention) Byproduct(kind BondKind) Delta {
	donor, acceptor := c.Deltas(kind)
	return donor.Plus(acceptor).Net()
}
