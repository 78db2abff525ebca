// typeorg analyzes how type declarations are organized in a TypeScript
// codebase: duplicates, misplaced declarations, reuse that deserves
// centralization, and incomplete barrel files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/typeorg/internal/analysis"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/model"
	"github.com/phobologic/typeorg/internal/report"
)

var version = "dev"

var (
	flagFormat string
	flagFailOn string
)

var rootCmd = &cobra.Command{
	Use:     "typeorg [path]",
	Short:   "Analyze type organization in a TypeScript project",
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving root: %w", err)
		}

		cfg, err := config.Load(root)
		if err != nil {
			return err
		}

		result, err := analysis.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		switch flagFormat {
		case "json":
			out, err := report.JSON(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		case "text":
			fmt.Fprint(cmd.OutOrStdout(), report.Text(result))
		default:
			return fmt.Errorf("unknown format %q", flagFormat)
		}

		if flagFailOn != "" {
			min := model.Severity(flagFailOn)
			for i := range result.Diagnostics {
				if result.Diagnostics[i].Severity.AtLeast(min) {
					os.Exit(1)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit non-zero if any diagnostic is at least this severity (info, warning, error)")
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
