package structures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) []*Entry {
	t.Helper()
	r := NewReader(strings.NewReader(input), nil)
	var entries []*Entry
	for r.Next() {
		entries = append(entries, r.Entry())
	}
	require.NoError(t, r.Err())
	return entries
}

func TestReaderCSV(t *testing.T) {
	input := `Inferred structure,Theo (Da)
g~m(AEJA),939.3921

# cross-linked dimer
"g~m(AEJA)=g~m(AEJ)@2.4-4.3",1789.7364,dimer
g~m[Ac,OAc](AE)
g~m(AEJ)|Na,NH4,900.1
`
	entries := readAll(t, input)
	require.Len(t, entries, 4)

	assert.Equal(t, "g~m(AEJA)", entries[0].Notation)
	assert.Equal(t, 2, entries[0].Line)
	require.NotNil(t, entries[0].Expected)
	assert.Equal(t, "939.3921", entries[0].Expected.String())
	assert.NoError(t, entries[0].Err)
	assert.NotNil(t, entries[0].Structure)

	assert.Equal(t, "g~m(AEJA)=g~m(AEJ)@2.4-4.3", entries[1].Notation)
	assert.Equal(t, "dimer", entries[1].Name)

	assert.Equal(t, "g~m[Ac,OAc](AE)", entries[2].Notation)
	assert.Nil(t, entries[2].Expected)
	assert.NoError(t, entries[2].Err)

	assert.Equal(t, "g~m(AEJ)|Na,NH4", entries[3].Notation)
	require.NotNil(t, entries[3].Expected)
	assert.Equal(t, "900.1", entries[3].Expected.String())
}

func TestReaderTabs(t *testing.T) {
	entries := readAll(t, "g\t221.089937\ng~m(AE)\t696.270146\n")
	require.Len(t, entries, 2)
	assert.Equal(t, "g~m(AE)", entries[1].Notation)
	assert.Equal(t, "696.270146", entries[1].Expected.String())
}

func TestReaderKeepsGoingAfterBadStructure(t *testing.T) {
	entries := readAll(t, "g~x\nm\n")
	require.Len(t, entries, 2)
	assert.Error(t, entries[0].Err)
	assert.Contains(t, entries[0].Err.Error(), "line 1")
	assert.Nil(t, entries[0].Structure)
	assert.NoError(t, entries[1].Err)
}

func TestReaderKeepsGoingAfterBadMass(t *testing.T) {
	entries := readAll(t, "m\t12x\tbroken\ng~m\t496.19\n")
	require.Len(t, entries, 2)
	assert.Error(t, entries[0].Err)
	assert.Contains(t, entries[0].Err.Error(), "line 1: invalid mass '12x'")
	assert.Nil(t, entries[0].Structure)
	assert.Nil(t, entries[0].Expected)
	assert.Equal(t, "broken", entries[0].Name)
	require.NoError(t, entries[1].Err)
	assert.Equal(t, "496.19", entries[1].Expected.String())
}
