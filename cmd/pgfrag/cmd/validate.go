package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/reader/structures"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

var million = decimal.NewFromInt(1_000_000)

func init() {
	validateCmd.Flags().Float64("tolerance", 10, "Allowed mass difference in ppm")
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a structure list against its expected masses",
	Long: `Validate that every structure of a list parses and, where the list gives
an expected mass, that the computed monoisotopic mass agrees within
--tolerance ppm. Problems are reported one per line; the command fails
when any structure does not validate.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	db, err := cfg.ModDatabase()
	if err != nil {
		return err
	}

	inFile, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	tolerance := decimal.NewFromFloat(cfg.Batch.Tolerance)
	out := cmd.OutOrStdout()

	checked, failed := 0, 0
	reader := structures.NewReader(inFile, db)
	for reader.Next() {
		entry := reader.Entry()
		checked++
		if problem := checkEntry(entry, tolerance); problem != "" {
			fmt.Fprintf(out, "line %d: %s: %s\n", entry.Line, entry.Notation, problem)
			failed++
		}
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	fmt.Fprintf(out, "Checked %d structures, %d failed\n", checked, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d structures failed validation", failed, checked)
	}
	return nil
}

// checkEntry returns a description of what is wrong with an entry, or ""
func checkEntry(entry *structures.Entry, tolerance decimal.Decimal) string {
	if entry.Err != nil {
		return entry.Err.Error()
	}
	mass, err := entry.Structure.MonoisotopicMass()
	if err != nil {
		return err.Error()
	}
	if entry.Expected == nil || entry.Expected.IsZero() {
		return ""
	}

	ppm := mass.Sub(*entry.Expected).Abs().Div(entry.Expected.Abs()).Mul(million)
	if ppm.GreaterThan(tolerance) {
		return fmt.Sprintf("computed mass %s differs from expected %s by %s ppm",
			text.FormatMass(mass), entry.Expected, ppm.StringFixed(1))
	}
	return ""
}
