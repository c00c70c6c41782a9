package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/config"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/rendering"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/storage"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/structuring"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <resume.json>",
	Short: "Render a structured résumé JSON file as a PDF",
	Long: `Validates a structured résumé JSON file against the résumé schema and lays it out as a PDF.
Without --out the PDF is written to the output directory under a unique improved_<ms>_ name.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path of the PDF to write")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if renderOut != "" {
		location, err := renderToFile(ctx, args[0], renderOut)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", location)
		return nil
	}

	cfg, err := loadConfig(cmd, globalOpts)
	if err != nil {
		return err
	}
	artifact, err := renderToStore(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%s)\n", artifact.Name, artifact.Location)
	return nil
}

func readResume(path string) (*types.StructuredResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	resume, err := structuring.ParseResume(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid résumé %s: %w", path, err)
	}
	return resume, nil
}

// renderToFile writes the rendered PDF to out, replacing it if it exists.
func renderToFile(ctx context.Context, path, out string) (string, error) {
	resume, err := readResume(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := rendering.NewEngine().Render(ctx, resume, f); err != nil {
		_ = f.Close()
		_ = os.Remove(out)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", out, err)
	}
	return out, nil
}

// renderToStore saves the rendered PDF through the configured artifact store.
func renderToStore(ctx context.Context, cfg *config.Config, path string) (*storage.Artifact, error) {
	resume, err := readResume(path)
	if err != nil {
		return nil, err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	engine := rendering.NewEngine()
	return store.Save(ctx, pdfName(path), func(w io.Writer) error {
		return engine.Render(ctx, resume, w)
	})
}

// pdfName maps resume.json to resume.pdf for artifact naming.
func pdfName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}
