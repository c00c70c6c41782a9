package rendering

import "strings"

// NormalizeText rewrites characters the core PDF fonts cannot show into close
// equivalents, and folds carriage returns and tabs into plain line breaks and spaces.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	prevCR := false
	for _, r := range text {
		if prevCR && r == '\n' {
			prevCR = false
			continue
		}
		prevCR = r == '\r'

		switch r {
		case '\r':
			result.WriteByte('\n')
		case '\t', '\v', '\f':
			result.WriteByte(' ')
		case '‐', '‑', '‒', '−':
			result.WriteByte('-')
		case '●', '▪', '◦', '‣', '⁃', '∙', '·':
			result.WriteString("•")
		case '→', '➤', '➜':
			result.WriteString("->")
		case '✓', '✔', '✅':
			result.WriteString("*")
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			// zero width
		default:
			if r < 0x20 && r != '\n' {
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}
