package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/extraction"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/observability"
)

var extractVerbose bool

var extractCmd = &cobra.Command{
	Use:   "extract <resume.pdf>",
	Short: "Print the text extracted from a PDF",
	Long:  "Extracts the text of every page of a PDF, in page order, exactly as it would be sent to the language model.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return extractFile(cmd.Context(), args[0], extractVerbose, cmd.OutOrStdout())
	},
}

func init() {
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print the text in a summary box")
	rootCmd.AddCommand(extractCmd)
}

func extractFile(ctx context.Context, path string, verbose bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := extraction.New().Extract(ctx, data)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(out).PrintExtractedText(filepath.Base(path), text)
		return nil
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
