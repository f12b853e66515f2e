// Package cmd provides CLI command implementations
package cmd

import (
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ChrisMcGann/pgfrag/pkg/config"
	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
)

var (
	// settings are layered: defaults, settings file, environment, flags
	settings = config.NewViper()
	cfg      config.Config

	settingsFile string
)

// flagKeys maps command line flags to their settings keys. A flag is bound
// only for the command being run, so commands can share flag names.
var flagKeys = map[string]string{
	"verbose":       "verbose",
	"mods":          "mods",
	"max-cleavages": "fragments.max-cleavages",
	"ceiling":       "fragments.ceiling",
	"convention":    "fragments.convention",
	"all-products":  "fragments.all-products",
	"kinds":         "fragments.kinds",
	"min-mass":      "filter.min-mass",
	"max-mass":      "filter.max-mass",
	"no-precursor":  "filter.no-precursor",
	"max-cleaved":   "filter.max-cleaved",
	"threads":       "batch.threads",
	"tolerance":     "batch.tolerance",
}

var rootCmd = &cobra.Command{
	Use:   "pgfrag",
	Short: "pgfrag - Peptidoglycan mass and fragment tool",
	Long: `pgfrag parses peptidoglycan structures written in the compact notation,
computes their exact monoisotopic masses and enumerates the fragments
produced by cleaving their bonds.

Settings are read, in increasing precedence, from defaults, a settings
file (--settings), PGFRAG_* environment variables and flags.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(massCmd)
	rootCmd.AddCommand(fragmentsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(docsCmd)

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Settings file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().String("mods", "", "Path to a CSV of extra modifications (name,delta,target)")
}

// addFragmentFlags registers the fragmentation and filter flags
func addFragmentFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-cleavages", "k", fragment.DefaultMaxCleavages, "Maximum number of bonds cut at once")
	cmd.Flags().Int("ceiling", fragment.DefaultCeiling, "Maximum number of cleavage sets examined per structure")
	cmd.Flags().String("convention", core.Hydrolysis.String(), "Cleaved end capping: hydrolysis or direct")
	cmd.Flags().Bool("all-products", false, "Report every product of a cleavage, not only the one holding the first residue")
	cmd.Flags().StringSlice("kinds", nil, "Cleavable bond kinds: glycosidic, lactyl, peptide, crosslink (default all)")
	cmd.Flags().String("min-mass", "", "Keep only fragments at or above this mass")
	cmd.Flags().String("max-mass", "", "Keep only fragments at or below this mass")
	cmd.Flags().Bool("no-precursor", false, "Drop the uncleaved structure")
	cmd.Flags().Int("max-cleaved", 0, "Keep only fragments with at most this many cleaved bonds (0 = no limit)")
}

// loadSettings binds the running command's flags, reads the settings file
// and decodes everything into cfg
func loadSettings(cmd *cobra.Command, args []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = settings.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if err := config.ReadSettings(settings, settingsFile); err != nil {
		return err
	}

	var err error
	if cfg, err = config.Load(settings); err != nil {
		return err
	}

	log.SetOutput(os.Stderr)
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	if settings.ConfigFileUsed() != "" {
		log.Debugf("Loaded settings from %s", settings.ConfigFileUsed())
	}
	return nil
}

// newParser returns a parser over the configured modification database
func newParser() (*notation.Parser, error) {
	db, err := cfg.ModDatabase()
	if err != nil {
		return nil, err
	}
	if cfg.Mods != "" {
		log.Debugf("Loaded modifications from %s", cfg.Mods)
	}
	return notation.NewParser(db), nil
}
