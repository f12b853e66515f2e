package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/pgfrag/pkg/concurrent"
	"github.com/ChrisMcGann/pgfrag/pkg/filter"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/reader/structures"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/sqlite"
)

var (
	// Flags for convert command
	inputFile  string
	outputFile string
)

func init() {
	convertCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input structure list (required)")
	convertCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	convertCmd.Flags().IntP("threads", "t", 4, "Number of structures fragmented concurrently")
	addFragmentFlags(convertCmd)

	convertCmd.MarkFlagRequired("in")
	convertCmd.MarkFlagRequired("out")
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Fragment a structure list into a SQLite library",
	Long: `Fragment every structure of a list and store the precursors and their
fragments in a SQLite database.

The list holds one structure per line, optionally followed by an expected
mass and a name, separated by tabs or commas. Structures that fail to parse
or fragment are skipped with a warning.

Examples:
  pgfrag convert --in structures.csv --out library.db
  pgfrag convert --in structures.tsv --out library.db -k 3 --threads 8 --no-precursor`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	// Validate input file exists
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
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
	db, err := cfg.ModDatabase()
	if err != nil {
		return err
	}

	// Read structures
	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	var entries []*structures.Entry
	skipped := 0
	reader := structures.NewReader(inFile, db)
	for reader.Next() {
		entry := reader.Entry()
		if entry.Err != nil {
			log.Warnf("Skipping %s: %v", entry.Notation, entry.Err)
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Fragmenting %d structures from %s...\n", len(entries), inputFile)
	log.Debugf("Options: max cleavages %d, convention %s, all products %t, threads %d",
		opts.MaxCleavages, opts.Convention, opts.AllProducts, cfg.Batch.Threads)

	runner := concurrent.NewRunner[*structures.Entry, sqlite.Precursor](concurrent.RunnerConfig{
		MaxConcurrency: cfg.Batch.Threads,
		LogPrefix:      "convert",
	})
	result := runner.Run(cmd.Context(), entries, fragmentWorker(engine, &filterConfig))

	for _, itemErr := range result.Errors {
		entry := entries[itemErr.Index]
		log.Warnf("Skipping %s (line %d): %v", entry.Notation, entry.Line, itemErr.Err)
		skipped++
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	// Write to database in input order
	writer, err := sqlite.NewWriter(outputFile, opts)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	fragmentCount := 0
	for _, r := range result.Results {
		if err := writer.WritePrecursor(r.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", entries[r.Index].Notation, err)
		}
		fragmentCount += len(r.Value.Fragments)
	}

	// Finalize database
	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nConversion complete!\n")
	fmt.Fprintf(out, "Processed: %d structures, %d fragments\n", len(result.Results), fragmentCount)
	if skipped > 0 {
		fmt.Fprintf(out, "Skipped: %d structures (see warnings)\n", skipped)
	}
	fmt.Fprintf(out, "Run: %s\n", writer.RunID())
	fmt.Fprintf(out, "Output: %s\n", outputFile)

	return nil
}

// fragmentWorker fragments and filters one entry. The engine is read-only
// and safe to share between workers.
func fragmentWorker(engine *fragment.Engine, filterConfig *filter.Config) concurrent.WorkerFunc[*structures.Entry, sqlite.Precursor] {
	return func(ctx context.Context, index int, entry *structures.Entry, messages chan<- string) (sqlite.Precursor, error) {
		fragments, err := engine.Fragments(entry.Structure)
		if err != nil {
			return sqlite.Precursor{}, err
		}
		kept := filterConfig.Apply(entry.Structure, fragments)
		messages <- fmt.Sprintf("%s: %d fragments", entry.Notation, len(kept))
		return sqlite.Precursor{
			Structure: entry.Structure,
			Name:      entry.Name,
			Fragments: kept,
		}, nil
	}
}
