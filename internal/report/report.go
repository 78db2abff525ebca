// Package report renders analysis results for humans and machines. The
// engine itself emits no text; this is the collaborator that does.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phobologic/typeorg/internal/model"
)

// Text renders a grouped, human-readable listing. Diagnostics arrive
// pre-sorted from the engine, so output order is stable across runs.
func Text(result *model.AnalysisResult) string {
	var b strings.Builder

	if len(result.Diagnostics) == 0 {
		fmt.Fprintf(&b, "no findings in %d files (%d type declarations)\n",
			result.FileCount, result.DeclCount)
	} else {
		currentFile := ""
		for i := range result.Diagnostics {
			d := &result.Diagnostics[i]
			if d.File != currentFile {
				if currentFile != "" {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "%s\n", d.File)
				currentFile = d.File
			}
			fmt.Fprintf(&b, "  %d: [%s] %s: %s\n", d.Line, d.Severity, d.Kind, d.Message)
			for _, loc := range d.Related {
				fmt.Fprintf(&b, "      see also %s:%d\n", loc.File, loc.Line)
			}
			if d.Suggestion != "" {
				fmt.Fprintf(&b, "      suggestion: %s\n", d.Suggestion)
			}
		}
		fmt.Fprintf(&b, "\n%d findings in %d files (%d type declarations)\n",
			len(result.Diagnostics), result.FileCount, result.DeclCount)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n%d files degraded:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "  %s: [%s] %s\n", e.File, e.Kind, e.Message)
		}
	}
	return b.String()
}

// JSON renders the complete result as indented JSON.
func JSON(result *model.AnalysisResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data), nil
}
