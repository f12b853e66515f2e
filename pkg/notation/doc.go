// Package notation reads and writes the textual peptidoglycan structure
// notation.
//
// Version 1 of the notation:
//
//	structure := chain ( '=' chain )* ( '@' link ( ',' link )* )? ( '|' mod ( ',' mod )* )?
//	chain     := unit ( '~' unit )*
//	unit      := sugar mods? stem? | stem
//	sugar     := 'g' | 'm'
//	stem      := '(' residue+ ')'
//	residue   := stereo? CODE mods?
//	stereo    := 'l' | 'd'
//	mods      := '[' mod ( ',' mod )* ']'
//	mod       := NAME | ( ( '+' | '-' ) FORMULA )+
//	link      := endpoint '-' ( residue+ '-' )? endpoint
//	endpoint  := UNIT '.' RESIDUE
//
// '~' is a glycosidic bond whose donor is the unit on its left. A stem is
// attached to its sugar by a lactyl bond and its residues, N to C, are joined
// by peptide bonds. Units are numbered from 1 across all chains in the order
// written; residues from 1 within their stem, 0 naming the unit's sugar. A
// link reads donor, optional bridge peptide, acceptor. A unit without a sugar
// is a free peptide and must be alone in its chain. Modifications after '|'
// apply to the whole structure.
//
// Examples:
//
//	g~m(AEJA)                        disaccharide tetrapeptide
//	g~m[Red](AEJA)                   with a reduced (muramitol) end
//	g~m(AEJA)=g~m(AEJ)@2.4-4.3       4-3 cross-linked dimer
//	g~m(AEK)=g~m(AEKA)@4.4-GGGGG-2.3 pentaglycine bridge
//	g~m[Anh](AEJ)|Na                 anhydro tripeptide, sodium adduct
//	(AE[-H2O])                       free peptide with a dehydrated end
package notation

// Version is the notation version read and written by this package.
const Version = 1
