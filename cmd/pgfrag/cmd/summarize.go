package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/reader/structures"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a structure list",
	Long:  `Print summary statistics about a structure list including structure count, mass range, oligomeric states and modification usage.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

// listSummary collects statistics over a structure list
type listSummary struct {
	structures  int
	invalid     int
	withMass    int
	crossLinked int
	minMass     decimal.Decimal
	maxMass     decimal.Decimal
	byMonomers  map[int]int
	mods        map[string]int
}

func (s *listSummary) add(structure *core.Structure, expected *decimal.Decimal) error {
	mass, err := structure.MonoisotopicMass()
	if err != nil {
		return err
	}
	if s.structures == 0 || mass.LessThan(s.minMass) {
		s.minMass = mass
	}
	if s.structures == 0 || mass.GreaterThan(s.maxMass) {
		s.maxMass = mass
	}
	s.structures++

	if expected != nil {
		s.withMass++
	}
	if len(structure.Links()) > 0 {
		s.crossLinked++
	}
	s.byMonomers[structure.MonomerCount()]++

	for _, m := range structure.Mods() {
		s.mods[m.Label()]++
	}
	for _, m := range structure.Monomers() {
		for _, mod := range m.Mods {
			s.mods[mod.Label()]++
		}
		for _, r := range m.Stem {
			for _, mod := range r.Mods {
				s.mods[mod.Label()]++
			}
		}
	}
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	db, err := cfg.ModDatabase()
	if err != nil {
		return err
	}

	inFile, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	summary := &listSummary{byMonomers: map[int]int{}, mods: map[string]int{}}
	reader := structures.NewReader(inFile, db)
	for reader.Next() {
		entry := reader.Entry()
		if entry.Err != nil {
			summary.invalid++
			continue
		}
		if err := summary.add(entry.Structure, entry.Expected); err != nil {
			summary.invalid++
		}
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Structures: %d\n", summary.structures)
	if summary.invalid > 0 {
		fmt.Fprintf(out, "Invalid: %d\n", summary.invalid)
	}
	if summary.structures == 0 {
		return nil
	}
	fmt.Fprintf(out, "With expected mass: %d\n", summary.withMass)
	fmt.Fprintf(out, "Cross-linked: %d\n", summary.crossLinked)
	fmt.Fprintf(out, "Mass range: %s - %s\n", text.FormatMass(summary.minMass), text.FormatMass(summary.maxMass))

	fmt.Fprintf(out, "Monomers:\n")
	for _, n := range sortedKeys(summary.byMonomers) {
		fmt.Fprintf(out, "  %d: %d\n", n, summary.byMonomers[n])
	}

	if len(summary.mods) > 0 {
		fmt.Fprintf(out, "Modifications:\n")
		names := make([]string, 0, len(summary.mods))
		for name := range summary.mods {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %d\n", name, summary.mods[name])
		}
	}
	return nil
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
