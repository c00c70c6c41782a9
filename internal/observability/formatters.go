// Package observability provides logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintExtractedText outputs a preview of the text pulled from an uploaded PDF.
func (p *Printer) PrintExtractedText(filename, text string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s\n", filename))
	sb.WriteString(fmt.Sprintf("Pages:  %d\n", len(lines)))
	sb.WriteString(fmt.Sprintf("Chars:  %d\n", len(text)))
	if preview := strings.TrimSpace(lines[0]); preview != "" {
		sb.WriteString("\n")
		sb.WriteString(preview)
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a human-readable summary of a structured résumé.
func (p *Printer) PrintResume(resume *types.StructuredResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.DisplayName()))
	for _, line := range strings.Split(resume.DisplayContact(), "\n") {
		sb.WriteString(fmt.Sprintf("Contact:  %s\n", line))
	}
	sb.WriteString("\n")

	if len(resume.WorkExperience) > 0 {
		sb.WriteString("Work History:\n")
		count := min(len(resume.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			job := resume.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s", job.Headline()))
			if job.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", job.Duration))
			}
			sb.WriteString(fmt.Sprintf(" [%d bullets]\n", len(job.BulletPoints)))
		}
		if len(resume.WorkExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.WorkExperience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(resume.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, edu := range resume.Education {
			sb.WriteString(fmt.Sprintf("  • %s", edu.Degree))
			if edu.Institution != "" {
				sb.WriteString(fmt.Sprintf(", %s", edu.Institution))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(resume.Skills) > 0 {
		count := min(len(resume.Skills), maxItemsToShow)
		skills := strings.Join(resume.Skills[:count], ", ")
		if len(resume.Skills) > maxItemsToShow {
			skills += fmt.Sprintf(" +%d", len(resume.Skills)-maxItemsToShow)
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}
	if len(resume.Certifications) > 0 {
		sb.WriteString(fmt.Sprintf("Certs:    %d\n", len(resume.Certifications)))
	}
	if len(resume.Achievements) > 0 {
		sb.WriteString(fmt.Sprintf("Awards:   %d\n", len(resume.Achievements)))
	}

	p.printBox("STRUCTURED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifact outputs where the rendered résumé was written.
func (p *Printer) PrintArtifact(name, location string, elapsedMS int64) {
	content := fmt.Sprintf("Artifact: %s\nLocation: %s\nElapsed:  %dms", name, location, elapsedMS)
	p.printBox("RENDERED PDF", content)
}
