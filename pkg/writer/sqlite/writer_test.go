package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragments.db")
	opts := fragment.DefaultOptions()
	opts.MaxCleavages = 1

	w, err := NewWriter(path, opts)
	require.NoError(t, err)

	engine, err := fragment.NewEngine(opts)
	require.NoError(t, err)
	for _, s := range []string{"g~m(AEJA)", "m"} {
		structure, err := notation.Parse(s)
		require.NoError(t, err)
		fragments, err := engine.Fragments(structure)
		require.NoError(t, err)
		require.NoError(t, w.WritePrecursor(Precursor{Structure: structure, Name: s, Fragments: fragments}))
	}
	runID := w.RunID().String()
	require.NoError(t, w.Finalize())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var precursors, fragments int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM PrecursorTable").Scan(&precursors))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM FragmentTable").Scan(&fragments))
	assert.Equal(t, 2, precursors)
	assert.Equal(t, 7, fragments)

	var massText, formula string
	require.NoError(t, db.QueryRow("SELECT MassText, Formula FROM PrecursorTable WHERE PrecursorId = 1").Scan(&massText, &formula))
	assert.Equal(t, "939.392052", massText)
	assert.Equal(t, "C37H61N7O21", formula)

	var cleaved string
	require.NoError(t, db.QueryRow("SELECT CleavedBonds FROM FragmentTable WHERE Structure = 'g~m(AE)'").Scan(&cleaved))
	assert.Equal(t, "3", cleaved)

	var storedRun, convention string
	var maxCleavages, total int
	require.NoError(t, db.QueryRow("SELECT RunId, Convention, MaxCleavages, NoofFragments FROM HeaderTable").
		Scan(&storedRun, &convention, &maxCleavages, &total))
	assert.Equal(t, runID, storedRun)
	assert.Equal(t, "hydrolysis", convention)
	assert.Equal(t, 1, maxCleavages)
	assert.Equal(t, 7, total)
}

func TestWritePrecursorRequiresStructure(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "empty.db"), fragment.DefaultOptions())
	require.NoError(t, err)
	defer w.Close()
	assert.Error(t, w.WritePrecursor(Precursor{}))
}
