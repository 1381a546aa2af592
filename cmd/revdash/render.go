package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revdash/revdash/internal/output"
	"github.com/revdash/revdash/internal/report"
	"github.com/revdash/revdash/pkg/errors"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a PR summary into an HTML review report",
	Long: `Render reads a JSON pull request summary and produces a standalone
HTML document with navigation, change metrics, feature sections, a file
table, and a reviewer checklist.

The input comes from --input or stdin:
  revdash render --input summary.json
  cat summary.json | revdash render --output review.html`,
	Run: runRender,
}

func init() {
	renderCmd.Flags().StringP("input", "i", "", "input JSON file (default: stdin)")
	renderCmd.Flags().StringP("output", "o", "", "output HTML file (default: from config)")
	renderCmd.Flags().String("title", "", "override the report title")
}

func runRender(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := setupLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	titleOverride, _ := cmd.Flags().GetString("title")

	data, err := readInput(inputPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCodeInputParse)
	}

	in, err := report.ParseInput(data)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCodeInputParse)
	}

	// The override applies before validation so an empty input title
	// with a --title flag still validates.
	if titleOverride != "" {
		in.Title = titleOverride
	}

	if validationErrors := report.Validate(in); len(validationErrors) > 0 {
		red := color.New(color.FgRed)
		red.Fprintf(os.Stderr, "Input validation failed with %d error(s):\n", len(validationErrors))
		for _, msg := range validationErrors {
			red.Fprintf(os.Stderr, "  - %s\n", msg)
		}
		os.Exit(errors.ExitCodeInputInvalid)
	}

	html := report.NewRenderer().Render(in)

	if outputPath == "" {
		outputPath = cfg.Output.DefaultName
	}

	writer := output.NewWriter(cfg.Output.Dir)
	finalPath, err := writer.Write(outputPath, []byte(html))
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	color.New(color.FgGreen).Printf("Report written to %s (%d bytes)\n", finalPath, len(html))
}

// readInput loads the summary from a file, or stdin when no path is set
func readInput(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInputParse, "failed to read stdin", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputParse,
			fmt.Sprintf("failed to read input file %s", path), err)
	}
	return data, nil
}
