package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cobolfront",
	Short: "cobolfront — a COBOL front end: preprocess, lex, and analyze",
	Long: `cobolfront is a standalone COBOL front end.

Commands:
  check   Lex and analyze one or more COBOL source files, reporting diagnostics
`,
}

// Execute runs the root command, returning whatever error a subcommand
// produced.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".cobolfront.toml", "path to an optional TOML config file")
	rootCmd.AddCommand(CheckCmd)
}
