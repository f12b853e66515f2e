package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/smithereens"
)

var showFormula bool

func init() {
	massCmd.Flags().BoolVar(&showFormula, "formula", false, "Also print the elemental formula")
}

var massCmd = &cobra.Command{
	Use:   "mass structure...",
	Short: "Print the monoisotopic mass of structures",
	Long: `Print the canonical notation and exact monoisotopic mass of each structure,
one tab-separated line per structure.

Examples:
  pgfrag mass 'g~m(AEJA)'
  pgfrag mass --formula 'g~m(AEJA)=g~m(AEJ)@2.4-4.3' 'g~m[Anh](AEJ)|Na'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMass,
}

func runMass(cmd *cobra.Command, args []string) error {
	parser, err := newParser()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, arg := range args {
		pg, err := smithereens.NewWithParser(parser, arg)
		if err != nil {
			return fmt.Errorf("invalid structure '%s': %w", arg, err)
		}
		mass, err := pg.MonoisotopicMass()
		if err != nil {
			return fmt.Errorf("failed to compute mass of %s: %w", pg, err)
		}

		if !showFormula {
			fmt.Fprintf(out, "%s\t%s\n", pg, mass)
			continue
		}
		formula, err := pg.Structure().Formula()
		if err != nil {
			return fmt.Errorf("failed to compute formula of %s: %w", pg, err)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", pg, mass, formula)
	}
	return nil
}
