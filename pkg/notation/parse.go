package notation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
)

// Parser reads structure notation against a modification database.
type Parser struct {
	mods *core.ModDatabase
}

// NewParser creates a parser resolving modification names in mods. A nil
// database means core.DefaultModDatabase.
func NewParser(mods *core.ModDatabase) *Parser {
	if mods == nil {
		mods = core.DefaultModDatabase()
	}
	return &Parser{mods: mods}
}

var defaultParser = NewParser(nil)

// Parse reads a structure with the default modification database.
func Parse(s string) (*core.Structure, error) {
	return defaultParser.Parse(s)
}

// linkRef is a cross-link placeholder recorded in the first pass, with the
// input offsets of its endpoints for error reporting.
type linkRef struct {
	link        core.CrossLink
	donorPos    int
	acceptorPos int
}

// state is the cursor of a single parse.
type state struct {
	src  string
	pos  int
	end  int
	mods *core.ModDatabase

	monomers []core.Monomer
	links    []linkRef
	global   []core.Modification
}

// Parse reads a structure. Leading and trailing whitespace is ignored;
// error positions are byte offsets into s.
func (p *Parser) Parse(s string) (*core.Structure, error) {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	st := &state{
		src:  s,
		pos:  len(s) - len(trimmed),
		end:  len(strings.TrimRight(s, " \t\r\n")),
		mods: p.mods,
	}

	// Pass 1: chains, stems, modifications and cross-link placeholders.
	if err := st.structure(); err != nil {
		return nil, err
	}

	// Pass 2: resolve cross-links against the completed position index.
	links := make([]core.CrossLink, len(st.links))
	for i, l := range st.links {
		links[i] = l.link
	}
	structure, err := core.NewStructure(st.monomers, links, st.global)
	if err != nil {
		return nil, st.locate(err)
	}
	return structure, nil
}

// locate attaches input positions to errors raised while resolving.
func (st *state) locate(err error) error {
	var unresolved *core.UnresolvedCrossLinkError
	if errors.As(err, &unresolved) {
		ref := st.links[unresolved.Link]
		unresolved.Position = ref.acceptorPos
		if unresolved.Endpoint == ref.link.Donor.String() {
			unresolved.Position = ref.donorPos
		}
		return unresolved
	}
	var syntax *core.SyntaxError
	if errors.As(err, &syntax) && syntax.Position < 0 {
		syntax.Position = st.end
	}
	return err
}

func (st *state) peek() byte {
	if st.pos >= st.end {
		return 0
	}
	return st.src[st.pos]
}

func (st *state) atEnd() bool { return st.pos >= st.end }

func (st *state) expected(what string) error {
	found := ""
	if !st.atEnd() {
		found = st.src[st.pos : st.pos+1]
	}
	return &core.SyntaxError{Position: st.pos, Expected: what, Found: found}
}

func (st *state) expect(c byte) error {
	if st.peek() != c {
		return st.expected("'" + string(c) + "'")
	}
	st.pos++
	return nil
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (st *state) structure() error {
	for chain := 0; ; chain++ {
		if err := st.chain(chain); err != nil {
			return err
		}
		if st.peek() != '=' {
			break
		}
		st.pos++
	}

	if st.peek() == '@' {
		st.pos++
		if err := st.linkList(); err != nil {
			return err
		}
	}

	if st.peek() == '|' {
		st.pos++
		for {
			mod, err := st.mod(core.GlobalTarget)
			if err != nil {
				return err
			}
			st.global = append(st.global, mod)
			if st.peek() != ',' {
				break
			}
			st.pos++
		}
	}

	if !st.atEnd() {
		return st.expected("end of input")
	}
	return nil
}

func (st *state) chain(chain int) error {
	for {
		m, err := st.unit(chain)
		if err != nil {
			return err
		}
		st.monomers = append(st.monomers, m)

		if st.peek() != '~' {
			return nil
		}
		if !m.HasSugar() {
			return st.expected("'=', '@', '|' or end of input after free peptide")
		}
		st.pos++
		if st.peek() == '(' {
			return st.expected("sugar after '~'")
		}
	}
}

func (st *state) unit(chain int) (core.Monomer, error) {
	m := core.Monomer{Chain: chain}
	c := st.peek()
	switch {
	case c == '(':
		stem, err := st.stem()
		if err != nil {
			return m, err
		}
		m.Stem = stem
		return m, nil
	case isLower(c):
		if _, ok := core.LookupSugar(c); !ok {
			return m, &core.UnknownResidueError{Token: string(c), Position: st.pos}
		}
		m.Kind = core.MonomerKind(c)
		st.pos++
	default:
		return m, st.expected("sugar or stem")
	}

	if st.peek() == '[' {
		mods, err := st.modList(core.MonomerTarget)
		if err != nil {
			return m, err
		}
		m.Mods = mods
	}
	if st.peek() == '(' {
		stem, err := st.stem()
		if err != nil {
			return m, err
		}
		m.Stem = stem
	}
	return m, nil
}

func (st *state) stem() ([]core.StemResidue, error) {
	if err := st.expect('('); err != nil {
		return nil, err
	}
	var residues []core.StemResidue
	for st.peek() != ')' {
		if st.atEnd() {
			return nil, st.expected("residue or ')'")
		}
		r, err := st.residue()
		if err != nil {
			return nil, err
		}
		residues = append(residues, r)
	}
	if len(residues) == 0 {
		return nil, st.expected("residue")
	}
	st.pos++
	return residues, nil
}

func (st *state) residue() (core.StemResidue, error) {
	var r core.StemResidue
	c := st.peek()
	if (c == 'l' || c == 'd') && st.pos+1 < st.end && isUpper(st.src[st.pos+1]) {
		r.Stereo = core.Stereo(c)
		st.pos++
		c = st.peek()
	}
	switch {
	case isUpper(c):
		if _, ok := core.LookupResidue(c); !ok {
			return r, &core.UnknownResidueError{Token: string(c), Position: st.pos}
		}
	case isLower(c):
		return r, &core.UnknownResidueError{Token: string(c), Position: st.pos}
	default:
		return r, st.expected("residue")
	}
	r.Kind = core.ResidueKind(c)
	st.pos++

	if st.peek() == '[' {
		mods, err := st.modList(core.ResidueTarget)
		if err != nil {
			return r, err
		}
		r.Mods = mods
	}
	return r, nil
}

func (st *state) modList(place core.Target) ([]core.Modification, error) {
	if err := st.expect('['); err != nil {
		return nil, err
	}
	var mods []core.Modification
	for {
		mod, err := st.mod(place)
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
		switch st.peek() {
		case ',':
			st.pos++
		case ']':
			st.pos++
			return mods, nil
		default:
			return nil, st.expected("',' or ']'")
		}
	}
}

func (st *state) mod(place core.Target) (core.Modification, error) {
	start := st.pos
	c := st.peek()
	switch {
	case c == '+' || c == '-':
		for !st.atEnd() {
			c := st.peek()
			if c != '+' && c != '-' && !isUpper(c) && !isLower(c) && !isDigit(c) {
				break
			}
			st.pos++
		}
		text := st.src[start:st.pos]
		d, err := core.ParseDelta(text)
		if err != nil {
			var unknown *core.UnknownElementError
			if errors.As(err, &unknown) {
				unknown.Position += start
				return core.Modification{}, unknown
			}
			var overflow *core.MassOverflowError
			if errors.As(err, &overflow) {
				return core.Modification{}, overflow
			}
			return core.Modification{}, &core.SyntaxError{Position: start, Expected: "signed formula", Found: text}
		}
		if d.IsZero() {
			return core.Modification{}, &core.SyntaxError{Position: start, Expected: "non-zero formula change", Found: text}
		}
		return core.Inline(d), nil

	case isUpper(c) || isLower(c):
		for !st.atEnd() {
			c := st.peek()
			if !isUpper(c) && !isLower(c) && !isDigit(c) && c != '_' {
				break
			}
			st.pos++
		}
		name := st.src[start:st.pos]
		mod, ok := st.mods.Get(name)
		if !ok {
			return core.Modification{}, &core.UnknownModificationError{Name: name, Position: start}
		}
		if !mod.Target.Allows(place) {
			return core.Modification{}, &core.SyntaxError{Position: start, Expected: place.String() + " modification", Found: name}
		}
		return mod, nil
	}
	return core.Modification{}, st.expected("modification")
}

func (st *state) linkList() error {
	for {
		if err := st.link(); err != nil {
			return err
		}
		if st.peek() != ',' {
			return nil
		}
		st.pos++
	}
}

func (st *state) link() error {
	var ref linkRef
	var err error

	ref.donorPos = st.pos
	if ref.link.Donor, err = st.endpoint(); err != nil {
		return err
	}
	if err := st.expect('-'); err != nil {
		return err
	}

	if !isDigit(st.peek()) {
		for st.peek() != '-' {
			if st.atEnd() {
				return st.expected("bridge residue or '-'")
			}
			r, err := st.residue()
			if err != nil {
				return err
			}
			ref.link.Bridge = append(ref.link.Bridge, r)
		}
		if len(ref.link.Bridge) == 0 {
			return st.expected("endpoint or bridge residue")
		}
		st.pos++
	}

	ref.acceptorPos = st.pos
	if ref.link.Acceptor, err = st.endpoint(); err != nil {
		return err
	}
	st.links = append(st.links, ref)
	return nil
}

func (st *state) endpoint() (core.Endpoint, error) {
	unit, err := st.number("unit number")
	if err != nil {
		return core.Endpoint{}, err
	}
	if unit < 1 {
		return core.Endpoint{}, &core.SyntaxError{Position: st.pos - 1, Expected: "unit number from 1", Found: "0"}
	}
	if err := st.expect('.'); err != nil {
		return core.Endpoint{}, err
	}
	residue, err := st.number("residue number")
	if err != nil {
		return core.Endpoint{}, err
	}
	return core.Endpoint{Monomer: unit - 1, Residue: residue - 1}, nil
}

func (st *state) number(what string) (int, error) {
	start := st.pos
	for isDigit(st.peek()) {
		st.pos++
	}
	if st.pos == start {
		return 0, st.expected(what)
	}
	n, err := strconv.Atoi(st.src[start:st.pos])
	if err != nil {
		return 0, &core.SyntaxError{Position: start, Expected: what, Found: st.src[start:st.pos]}
	}
	return n, nil
}
