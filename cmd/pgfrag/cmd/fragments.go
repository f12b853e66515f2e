package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/smithereens"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

func init() {
	addFragmentFlags(fragmentsCmd)
}

var fragmentsCmd = &cobra.Command{
	Use:   "fragments structure",
	Short: "List the fragments of a structure",
	Long: `List every distinct fragment released by cutting up to --max-cleavages
bonds of a structure, one "<notation>\t<mass>" line per fragment in
ascending mass order. The uncleaved structure is listed too unless
--no-precursor is set.

Examples:
  # Default: up to two cleavages, hydrolysis capping
  pgfrag fragments 'g~m(AEJA)'

  # Peptide and cross-link cleavages only, without precursor
  pgfrag fragments --kinds peptide,crosslink --no-precursor 'g~m(AEJA)=g~m(AEJ)@2.4-4.3'

  # Every product of single cleavages in a mass window
  pgfrag fragments -k 1 --all-products --min-mass 200 --max-mass 900 'g~m(AEJA)'`,
	Args: cobra.ExactArgs(1),
	RunE: runFragments,
}

func runFragments(cmd *cobra.Command, args []string) error {
	parser, err := newParser()
	if err != nil {
		return err
	}
	pg, err := smithereens.NewWithParser(parser, args[0])
	if err != nil {
		return fmt.Errorf("invalid structure '%s': %w", args[0], err)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	engine, err := fragment.NewEngine(opts)
	if err != nil {
		return err
	}
	filterConfig, err := cfg.FilterConfig()
	if err != nil {
		return err
	}

	fragments, err := engine.Fragments(pg.Structure())
	if err != nil {
		return fmt.Errorf("failed to fragment %s: %w", pg, err)
	}
	kept := filterConfig.Apply(pg.Structure(), fragments)
	log.Debugf("%s: %d fragments, %d after filtering", pg, len(fragments), len(kept))

	return text.WriteFragments(cmd.OutOrStdout(), kept)
}
