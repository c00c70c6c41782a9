package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/observability"
	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/pipeline"
)

var (
	improveConcurrency int
	improveVerbose     bool
)

var improveCmd = &cobra.Command{
	Use:   "improve <resume.pdf>...",
	Short: "Enhance one or more résumé PDFs",
	Long: `Runs each PDF through extraction, the language model rewrite and PDF layout,
and stores the improved résumés in the configured output location.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().IntVarP(&improveConcurrency, "concurrency", "c", 2, "Number of files processed at once")
	improveCmd.Flags().BoolVarP(&improveVerbose, "verbose", "v", false, "Print the structured résumé for each file")
	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	spin.Writer = os.Stderr
	spin.Suffix = " Starting..."
	spin.Start()

	outcomes := improveFiles(ctx, args, improveConcurrency, func(path string) *pipeline.Pipeline {
		name := filepath.Base(path)
		return a.pipeline(pipeline.WithProgress(func(e pipeline.ProgressEvent) {
			spin.Lock()
			spin.Suffix = fmt.Sprintf(" [%s] Step %d/%d: %s", name, e.Step, e.Total, e.Message)
			spin.Unlock()
		}))
	})
	spin.Stop()

	return reportOutcomes(cmd.OutOrStdout(), outcomes, improveVerbose)
}

// fileOutcome is the result of improving one file.
type fileOutcome struct {
	Path   string
	Result *pipeline.Result
	Err    error
}

// improveFiles runs every path through its own pipeline with at most
// concurrency files in flight. A failed file does not stop the others.
func improveFiles(ctx context.Context, paths []string, concurrency int, newPipeline func(path string) *pipeline.Pipeline) []fileOutcome {
	if concurrency < 1 {
		concurrency = 1
	}
	outcomes := make([]fileOutcome, len(paths))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = fileOutcome{Path: path}
			data, err := os.ReadFile(path)
			if err != nil {
				outcomes[i].Err = fmt.Errorf("failed to read %s: %w", path, err)
				return nil
			}
			outcomes[i].Result, outcomes[i].Err = newPipeline(path).Improve(ctx, pipeline.Upload{
				Filename: filepath.Base(path),
				Data:     data,
			})
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func reportOutcomes(out io.Writer, outcomes []fileOutcome, verbose bool) error {
	printer := observability.NewPrinter(out)
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			kind := pipeline.KindOf(o.Err)
			if kind == "" {
				_, _ = failColor.Fprintf(out, "✗ %s: %v\n", o.Path, o.Err)
			} else {
				_, _ = failColor.Fprintf(out, "✗ %s: %s: %v\n", o.Path, kind, o.Err)
			}
			continue
		}
		if verbose {
			printer.PrintResume(o.Result.Resume)
			printer.PrintArtifact(o.Result.ArtifactName, o.Result.DownloadURL, o.Result.Duration.Milliseconds())
			continue
		}
		_, _ = okColor.Fprintf(out, "✓ %s -> %s\n", o.Path, o.Result.DownloadURL)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}
