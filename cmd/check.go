package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cobolfront/cobolfront/internal/cobolfront"
	"github.com/cobolfront/cobolfront/internal/cobolfront/config"
	"github.com/cobolfront/cobolfront/internal/cobolfront/source"
)

var (
	sourceFormatFlag string
	columnLengthFlag int
)

// CheckCmd lexes and analyzes one or more COBOL source files (or every
// *.cob/*.cbl/*.cpy file under a directory) and reports every diagnostic
// raised, one per line, in report order.
var CheckCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Lex and analyze COBOL source, reporting diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	CheckCmd.Flags().StringVar(&sourceFormatFlag, "source-format", "", "override source format: fixed, free, or auto")
	CheckCmd.Flags().IntVar(&columnLengthFlag, "column-length", 0, "override the fixed-format right margin")
}

// runCheck resolves args to a single entry point plus the rest of the
// workspace's source files and runs them through one combined
// compilation (spec.md §6's entry point + workspace enumeration inputs),
// rather than one independent compile per file.
func runCheck(cmd *cobra.Command, args []string) error {
	var targets []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if info.IsDir() {
			files, err := discoverWorkspaceFiles(a)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			targets = append(targets, files...)
			continue
		}
		targets = append(targets, a)
	}

	if len(targets) == 0 {
		return nil
	}

	errCount, err := checkWorkspace(targets[0], targets[1:])
	if err != nil {
		return err
	}
	if errCount > 0 {
		return fmt.Errorf("check: %d error(s)", errCount)
	}
	return nil
}

func checkWorkspace(entryPoint string, workspaceFiles []string) (int, error) {
	opts := source.NewOptions(entryPoint)

	cfgFile, err := config.Load(configPath)
	switch {
	case err == nil:
		if applyErr := cfgFile.Apply(opts); applyErr != nil {
			return 0, fmt.Errorf("check %s: %w", entryPoint, applyErr)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return 0, fmt.Errorf("check %s: %w", entryPoint, err)
	}
	if sourceFormatFlag != "" {
		if applyErr := (config.File{SourceFormat: sourceFormatFlag}).Apply(opts); applyErr != nil {
			return 0, fmt.Errorf("check %s: %w", entryPoint, applyErr)
		}
	}
	if columnLengthFlag > 0 {
		opts.ColumnLength = columnLengthFlag
	}

	provider := newOSFileProvider(entryPoint)
	result, err := cobolfront.Compile(entryPoint, workspaceFiles, provider, opts)
	if err != nil {
		return 0, fmt.Errorf("check %s: %w", entryPoint, err)
	}

	for _, d := range result.Diagnostics {
		fmt.Printf("%s:%s\n", opts.FileName(d.File), d.String())
	}

	if result.Successful() {
		fmt.Printf("%s: ok\n", filepath.Clean(entryPoint))
	}

	return result.ErrorCount, nil
}
