package fragment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
)

// g~m(AEJA) is a path of six nodes joined by five bonds:
// 0 glycosidic g-m, 1 lactyl m-A, 2 A-E, 3 E-J, 4 J-A.
const tetra = "g~m(AEJA)"

// Two tetrapeptide monomers joined head to tail twice, closing a ring
// through bonds 4, 9, 10 and 11.
const ring = "g~m(AEJA)=g~m(AEJA)@2.4-4.3,4.4-2.3"

func mustParse(t *testing.T, s string) *core.Structure {
	t.Helper()
	st, err := notation.Parse(s)
	require.NoError(t, err, s)
	return st
}

func mustEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(opts)
	require.NoError(t, err)
	return e
}

func notations(fragments []Fragment) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = f.Notation
	}
	return out
}

func TestFragmentsSingleCleavage(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCleavages = 1
	fragments, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))
	require.NoError(t, err)

	assert.Equal(t, []string{"g", "g~m", "g~m(A)", "g~m(AE)", "g~m(AEJ)", "g~m(AEJA)"}, notations(fragments))

	wantMasses := []string{"221.089937", "496.190439", "567.227553", "696.270146", "868.354938", "939.392052"}
	for i, f := range fragments {
		assert.Equal(t, wantMasses[i], f.Mass.StringFixed(6), f.Notation)
	}

	precursor := fragments[len(fragments)-1]
	assert.True(t, precursor.IsPrecursor())
	assert.Empty(t, precursor.Cleaved)
	assert.Equal(t, []int{0}, fragments[0].Cleaved)
	assert.Equal(t, []int{4}, fragments[4].Cleaved)
}

func TestFragmentsZeroCleavages(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCleavages = 0
	fragments, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, tetra, fragments[0].Notation)
	assert.True(t, fragments[0].IsPrecursor())
}

func TestFragmentsCountMatchesValidBonds(t *testing.T) {
	tests := []struct {
		name      string
		structure string
		want      int
	}{
		{"linear", tetra, 6},
		{"free peptide", "(AEJA)", 4},
		{"single sugar", "m", 1},
		{"ring skips ring bonds", ring, 9},
		{"bridged dimer", "g~m(AEK)=g~m(AEKA)@4.4-GGGGG-2.3", 11},
	}

	opts := DefaultOptions()
	opts.MaxCleavages = 1
	engine := mustEngine(t, opts)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments, err := engine.Fragments(mustParse(t, tt.structure))
			require.NoError(t, err)
			assert.Len(t, fragments, tt.want)
		})
	}
}

func TestFragmentsDeduplicates(t *testing.T) {
	// On a path every cut set leaves the prefix up to its first cut.
	fragments, err := mustEngine(t, DefaultOptions()).Fragments(mustParse(t, tetra))
	require.NoError(t, err)
	assert.Len(t, fragments, 6)

	opts := DefaultOptions()
	opts.AllProducts = true
	all, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))
	require.NoError(t, err)
	assert.Len(t, all, 21)

	// Both alanines come loose on their own, so "(A)" is listed twice.
	seen := make(map[string]int)
	for _, f := range all {
		seen[f.Notation]++
	}
	assert.Equal(t, 2, seen["(A)"])
	assert.Len(t, seen, 20)
	assert.Equal(t, 1, seen["(EJ)"])
	assert.Equal(t, 1, seen["m(A)"])
}

func TestFragmentsSorted(t *testing.T) {
	opts := DefaultOptions()
	opts.AllProducts = true
	fragments, err := mustEngine(t, opts).Fragments(mustParse(t, ring))
	require.NoError(t, err)
	for i := 1; i < len(fragments); i++ {
		assert.LessOrEqual(t, fragments[i-1].Mass.Cmp(fragments[i].Mass), 0)
	}
}

func TestFragmentsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.AllProducts = true
	engine := mustEngine(t, opts)
	s := mustParse(t, ring)

	first, err := engine.Fragments(s)
	require.NoError(t, err)
	second, err := engine.Fragments(s)
	require.NoError(t, err)
	assert.Equal(t, notations(first), notations(second))
}

func TestFragmentsRoundTrip(t *testing.T) {
	for _, convention := range []core.Convention{core.Hydrolysis, core.Direct} {
		t.Run(convention.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.AllProducts = true
			opts.Convention = convention
			fragments, err := mustEngine(t, opts).Fragments(mustParse(t, "g~m(AEK)=g~m(AEKA)@4.4-GGGGG-2.3|Na"))
			require.NoError(t, err)

			for _, f := range fragments {
				reparsed, err := notation.Parse(f.Notation)
				require.NoError(t, err, f.Notation)
				mass, err := reparsed.MonoisotopicMass()
				require.NoError(t, err)
				assert.True(t, f.Mass.Equal(mass), "%s: %s != %s", f.Notation, f.Mass, mass)
				assert.Equal(t, f.Notation, notation.Format(reparsed))
			}
		})
	}
}

func TestFragmentsDirectConvention(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCleavages = 1
	opts.Convention = core.Direct
	fragments, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))
	require.NoError(t, err)

	require.NotEmpty(t, fragments)
	assert.Equal(t, "g[-H2O]", fragments[0].Notation)
	assert.Equal(t, "203.079373", fragments[0].Mass.StringFixed(6))
}

func TestFragmentsKinds(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCleavages = 1
	opts.Kinds = []core.BondKind{core.Peptide}
	fragments, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))
	require.NoError(t, err)
	assert.Equal(t, []string{"g~m(A)", "g~m(AE)", "g~m(AEJ)", "g~m(AEJA)"}, notations(fragments))
}

func TestFragmentsTooLarge(t *testing.T) {
	opts := DefaultOptions()
	opts.Ceiling = 10
	_, err := mustEngine(t, opts).Fragments(mustParse(t, tetra))

	var tooLarge *core.FragmentationTooLargeError
	require.True(t, errors.As(err, &tooLarge), "got %v", err)
	assert.Equal(t, 5, tooLarge.Bonds)
	assert.Equal(t, 2, tooLarge.MaxCleavages)
	assert.Equal(t, uint64(11), tooLarge.Subsets)
	assert.Equal(t, 10, tooLarge.Ceiling)
}

func TestNewEngineRejectsNegative(t *testing.T) {
	_, err := NewEngine(Options{MaxCleavages: -1})
	assert.Error(t, err)
	_, err = NewEngine(Options{Ceiling: -1})
	assert.Error(t, err)

	e, err := NewEngine(Options{MaxCleavages: 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultCeiling, e.Options().Ceiling)
}

func TestCleaveAdditivity(t *testing.T) {
	s := mustParse(t, tetra)
	whole, err := s.MonoisotopicMass()
	require.NoError(t, err)

	for _, convention := range []core.Convention{core.Hydrolysis, core.Direct} {
		engine := mustEngine(t, Options{Convention: convention})
		for _, b := range s.Bonds() {
			products, err := engine.Cleave(s, []int{b.ID})
			require.NoError(t, err)
			require.Len(t, products, 2)

			byproduct, err := convention.Byproduct(b.Kind).Mass()
			require.NoError(t, err)
			sum := products[0].Mass.Add(products[1].Mass)
			assert.True(t, sum.Sub(byproduct).Equal(whole), "%s bond %d: %s", convention, b.ID, sum)
		}
	}
}

func TestCleaveRing(t *testing.T) {
	s := mustParse(t, ring)
	engine := mustEngine(t, DefaultOptions())

	_, err := engine.Cleave(s, []int{4})
	var invalid *core.InvalidCleavageError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, 4, invalid.Bond)

	products, err := engine.Cleave(s, []int{9, 4})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"(A)=g~m(AEJ)@1.1-3.3", "g~m(AEJ)=(A)@3.1-2.3"}, notations(products))
	for _, p := range products {
		assert.Equal(t, "939.392052", p.Mass.StringFixed(6))
		assert.Equal(t, []int{4, 9}, p.Cleaved)
	}

	whole, err := s.MonoisotopicMass()
	require.NoError(t, err)
	water, err := core.Water.Mass()
	require.NoError(t, err)
	sum := products[0].Mass.Add(products[1].Mass)
	assert.True(t, sum.Equal(whole.Add(water.Mul(decimal.NewFromInt(2)))))
}

func TestCleaveOutOfRange(t *testing.T) {
	_, err := mustEngine(t, DefaultOptions()).Cleave(mustParse(t, tetra), []int{5})
	assert.Error(t, err)
}

func TestCleaveKeepsGlobalModsWithFirstNode(t *testing.T) {
	products, err := mustEngine(t, DefaultOptions()).Cleave(mustParse(t, "g~m(AE)|Na"), []int{0})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g|Na", "m(AE)"}, notations(products))
}
