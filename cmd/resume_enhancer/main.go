// Package main provides the resume_enhancer CLI: an HTTP server and batch
// commands that turn résumé PDFs into rewritten, reformatted PDFs.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_enhancer",
	Short: "AI Resume Enhancer",
	Long: `Resume Enhancer extracts the text of an uploaded résumé PDF, has a language model
rewrite it into a structured résumé, and lays that out as a new PDF with section
titles in a left column beside their content.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalOpts.configPath, "config", "", "Path to a YAML or JSON config file")
	flags.StringVar(&globalOpts.provider, "provider", "", "LLM provider: openai or gemini (overrides LLM_PROVIDER)")
	flags.StringVar(&globalOpts.model, "model", "", "Model id (defaults to the provider's default)")
	flags.StringVar(&globalOpts.outputDir, "output-dir", "", "Directory for rendered résumés (overrides OUTPUT_DIR)")
	flags.StringVar(&globalOpts.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	flags.StringVar(&globalOpts.logFormat, "log-format", "", "Log format: json or console")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
