package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsDir string

func init() {
	docsCmd.Flags().StringVar(&docsDir, "dir", "./docs", "Directory the Markdown files are written to")
}

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Write Markdown documentation for every command",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(docsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", docsDir, err)
		}
		rootCmd.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(rootCmd, docsDir); err != nil {
			return fmt.Errorf("failed to write docs: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Docs written to %s\n", docsDir)
		return nil
	},
}
