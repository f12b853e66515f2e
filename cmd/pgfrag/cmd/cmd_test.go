package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command. Flag values persist between runs, so each
// test uses flags no other test sets.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "structures.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMassCommand(t *testing.T) {
	out, err := run(t, "mass", "--formula", "g~m(AEJA)", "m")
	require.NoError(t, err)
	assert.Equal(t, "g~m(AEJA)\t939.392052\tC37H61N7O21\nm\t293.111067\tC11H19NO8\n", out)

	_, err = run(t, "mass", "g~x")
	assert.Error(t, err)
}

func TestFragmentsCommand(t *testing.T) {
	out, err := run(t, "fragments", "--no-precursor", "--max-mass", "700", "g~m(AEJA)")
	require.NoError(t, err)
	assert.Equal(t, "g\t221.089937\ng~m\t496.190439\ng~m(A)\t567.227553\ng~m(AE)\t696.270146\n", out)
}

func TestConvertCommand(t *testing.T) {
	in := writeList(t, "Structure,Mass,Name\ng~m(AEJA),939.392052,tetra\ng~x\ng~m(AE)\n")
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := run(t, "convert", "--in", in, "--out", dbPath, "--threads", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed: 2 structures")
	assert.Contains(t, out, "Skipped: 1 structures")
	assert.FileExists(t, dbPath)
}

func TestValidateCommand(t *testing.T) {
	in := writeList(t, "Structure,Mass\ng~m(AEJA),939.3920\ng~m(AEJ),900.0\ng~x,100\n")

	out, err := run(t, "validate", "--tolerance", "5", in)
	assert.Error(t, err)
	assert.Contains(t, out, "line 3: g~m(AEJ): computed mass 868.354938 differs from expected 900")
	assert.Contains(t, out, "line 4: g~x:")
	assert.Contains(t, out, "Checked 3 structures, 2 failed")
}

func TestSummarizeCommand(t *testing.T) {
	in := writeList(t, "g~m(AEJA),939.39,tetra\ng~m[Anh](AEJ)|Na\ng~m(AEJA)=g~m(AEJ)@2.4-4.3\n")

	out, err := run(t, "summarize", in)
	require.NoError(t, err)
	assert.Equal(t, `Structures: 3
With expected mass: 1
Cross-linked: 1
Mass range: 872.326318 - 1789.736426
Monomers:
  2: 2
  4: 1
Modifications:
  Anh: 1
  Na: 1
`, out)
}

func TestDocsCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "docs", "--dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "pgfrag.md"))
	assert.FileExists(t, filepath.Join(dir, "pgfrag_fragments.md"))
}
