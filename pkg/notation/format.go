package notation

import (
	"strings"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
)

// Format renders a structure in canonical notation. Parsing the result
// yields an equal structure.
func Format(s *core.Structure) string {
	var sb strings.Builder

	monomers := s.Monomers()
	for i, m := range monomers {
		if i > 0 {
			if m.Chain != monomers[i-1].Chain {
				sb.WriteByte('=')
			} else {
				sb.WriteByte('~')
			}
		}
		writeMonomer(&sb, m)
	}

	if links := s.Links(); len(links) > 0 {
		sb.WriteByte('@')
		for i, l := range links {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(l.Donor.String())
			sb.WriteByte('-')
			if len(l.Bridge) > 0 {
				for _, r := range l.Bridge {
					writeResidue(&sb, r)
				}
				sb.WriteByte('-')
			}
			sb.WriteString(l.Acceptor.String())
		}
	}

	if mods := s.Mods(); len(mods) > 0 {
		sb.WriteByte('|')
		writeModLabels(&sb, mods)
	}

	return sb.String()
}

func writeMonomer(sb *strings.Builder, m core.Monomer) {
	if m.HasSugar() {
		sb.WriteByte(byte(m.Kind))
		writeMods(sb, m.Mods)
	}
	if len(m.Stem) > 0 {
		sb.WriteByte('(')
		for _, r := range m.Stem {
			writeResidue(sb, r)
		}
		sb.WriteByte(')')
	}
}

func writeResidue(sb *strings.Builder, r core.StemResidue) {
	if r.Stereo != core.StereoUnspecified {
		sb.WriteByte(byte(r.Stereo))
	}
	sb.WriteByte(byte(r.Kind))
	writeMods(sb, r.Mods)
}

func writeMods(sb *strings.Builder, mods []core.Modification) {
	if len(mods) == 0 {
		return
	}
	sb.WriteByte('[')
	writeModLabels(sb, mods)
	sb.WriteByte(']')
}

func writeModLabels(sb *strings.Builder, mods []core.Modification) {
	for i, m := range mods {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.Label())
	}
}
