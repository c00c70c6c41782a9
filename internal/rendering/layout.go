package rendering

import (
	"strings"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
)

// Page geometry in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
	Margin     = 50.0

	HeaderBarHeight = 90.0
	ContentTop      = 110.0

	TitleX     = Margin
	TitleWidth = 100.0
	BodyX      = 170.0
	BodyWidth  = PageWidth - 220.0

	nameY    = 20.0
	contactY = 45.0

	// LineHeightFactor converts a font size to the height of one text line.
	LineHeightFactor = 1.2

	dividerGap     = 5.0
	sectionSpacing = 15.0
	dividerWidth   = 1.0

	locationIndent = 10.0
	bulletIndent   = 20.0

	bullet = "• "
)

// Section titles in rendering order.
const (
	SectionSummary        = "PROFESSIONAL SUMMARY"
	SectionSkills         = "SKILLS"
	SectionWorkHistory    = "WORK HISTORY"
	SectionEducation      = "EDUCATION"
	SectionCertifications = "CERTIFICATIONS / LICENSES"
	SectionAchievements   = "ACHIEVEMENTS"
	SectionReferences     = "REFERENCES"
)

var (
	nameFont    = Font{Bold: true, Size: 20}
	contactFont = Font{Size: 10}
	titleFont   = Font{Bold: true, Size: 12}
	bodyFont    = Font{Size: 11}
	strongFont  = Font{Bold: true, Size: 11}

	// DividerColor is #999999.
	DividerColor = Color{R: 0x99, G: 0x99, B: 0x99}
	White        = Color{R: 0xFF, G: 0xFF, B: 0xFF}
	Black        = Color{}
)

// Font selects Helvetica or Helvetica-Bold at a point size.
type Font struct {
	Bold bool
	Size float64
}

// LineHeight is the vertical advance of one line set in f.
func (f Font) LineHeight() float64 {
	return f.Size * LineHeightFactor
}

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// OpKind identifies a drawing operation.
type OpKind int

// Drawing operations.
const (
	OpRect OpKind = iota
	OpLine
	OpText
)

// Op is one positioned drawing operation. Y is measured from the top of the page;
// for text it is the top of the line box.
type Op struct {
	Kind  OpKind
	Page  int // 1-based
	X, Y  float64
	W, H  float64 // rect size, or line end offset for OpLine
	Text  string
	Font  Font
	Color Color
}

// Layout is the positioned content of a document.
type Layout struct {
	Pages    int
	Ops      []Op
	Sections []string // titles in the order they were placed
}

// Measurer reports the rendered width of a string.
type Measurer interface {
	StringWidth(s string, f Font) float64
}

// cursor is a position in the document flow, ordered by page and then y.
type cursor struct {
	page int
	y    float64
}

func (c cursor) below(o cursor) bool {
	if c.page != o.page {
		return c.page > o.page
	}
	return c.y > o.y
}

func deepest(a, b cursor) cursor {
	if b.below(a) {
		return b
	}
	return a
}

type layoutBuilder struct {
	m   Measurer
	out *Layout
}

// LayoutResume positions every element of resume. The header bar is drawn in barColor.
// resume is only read.
func LayoutResume(resume *types.StructuredResume, m Measurer, barColor Color) *Layout {
	b := &layoutBuilder{m: m, out: &Layout{Pages: 1}}

	b.add(Op{Kind: OpRect, Page: 1, X: 0, Y: 0, W: PageWidth, H: HeaderBarHeight, Color: barColor})
	b.text(cursor{1, nameY}, Margin, PageWidth-2*Margin, resume.DisplayName(), nameFont, White)
	b.text(cursor{1, contactY}, Margin, PageWidth-2*Margin, resume.DisplayContact(), contactFont, White)

	cur := cursor{page: 1, y: ContentTop}

	if s := strings.TrimSpace(resume.ProfessionalSummary); s != "" {
		cur = b.section(cur, SectionSummary, func(at cursor) cursor {
			return b.text(at, BodyX, BodyWidth, resume.ProfessionalSummary, bodyFont, Black)
		})
	}
	cur = b.bulleted(cur, SectionSkills, resume.Skills)
	if len(resume.WorkExperience) > 0 {
		cur = b.section(cur, SectionWorkHistory, func(at cursor) cursor {
			return b.workHistory(at, resume.WorkExperience)
		})
	}
	if len(resume.Education) > 0 {
		cur = b.section(cur, SectionEducation, func(at cursor) cursor {
			return b.education(at, resume.Education)
		})
	}
	cur = b.bulleted(cur, SectionCertifications, resume.Certifications)
	cur = b.bulleted(cur, SectionAchievements, resume.Achievements)
	if s := strings.TrimSpace(resume.References); s != "" {
		b.section(cur, SectionReferences, func(at cursor) cursor {
			return b.text(at, BodyX, BodyWidth, resume.References, bodyFont, Black)
		})
	}

	return b.out
}

func (b *layoutBuilder) add(op Op) {
	if op.Page > b.out.Pages {
		b.out.Pages = op.Page
	}
	b.out.Ops = append(b.out.Ops, op)
}

// section places the title and body side by side from cur, then the divider
// below whichever column ends lower. It returns where the next section starts.
func (b *layoutBuilder) section(cur cursor, title string, body func(at cursor) cursor) cursor {
	b.out.Sections = append(b.out.Sections, title)

	titleEnd := b.text(cur, TitleX, TitleWidth, title, titleFont, Black)
	bodyEnd := body(cur)
	end := deepest(titleEnd, bodyEnd)

	line := cursor{page: end.page, y: end.y + dividerGap}
	if line.y > PageHeight-Margin {
		line = cursor{page: end.page + 1, y: Margin}
	}
	b.add(Op{Kind: OpLine, Page: line.page, X: Margin, Y: line.y, W: PageWidth - 2*Margin, H: dividerWidth, Color: DividerColor})

	return cursor{page: line.page, y: line.y + sectionSpacing - dividerGap}
}

// bulleted places a section whose body is "• item" lines. Blank items are
// skipped and a list with no remaining items is omitted.
func (b *layoutBuilder) bulleted(cur cursor, title string, items []string) cursor {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			lines = append(lines, bullet+item)
		}
	}
	if len(lines) == 0 {
		return cur
	}
	return b.section(cur, title, func(at cursor) cursor {
		return b.text(at, BodyX, BodyWidth, strings.Join(lines, "\n"), bodyFont, Black)
	})
}

func (b *layoutBuilder) workHistory(cur cursor, jobs []types.WorkExperience) cursor {
	for i, job := range jobs {
		if i > 0 {
			cur.y += bodyFont.LineHeight()
		}
		cur = b.optional(cur, 0, job.Headline(), strongFont)
		cur = b.optional(cur, locationIndent, job.Location, bodyFont)
		cur = b.optional(cur, locationIndent, job.Duration, bodyFont)
		for _, bp := range job.BulletPoints {
			cur = b.text(cur, BodyX+bulletIndent, BodyWidth-bulletIndent, bullet+bp, bodyFont, Black)
		}
	}
	return cur
}

func (b *layoutBuilder) education(cur cursor, entries []types.Education) cursor {
	for i, edu := range entries {
		if i > 0 {
			cur.y += bodyFont.LineHeight()
		}
		cur = b.optional(cur, 0, edu.Degree, strongFont)
		cur = b.optional(cur, locationIndent, edu.Institution, bodyFont)
		if strings.TrimSpace(edu.GraduationYear) != "" {
			cur = b.text(cur, BodyX+bulletIndent, BodyWidth-bulletIndent, bullet+edu.GraduationYear, bodyFont, Black)
		}
	}
	return cur
}

// optional places s in the body column shifted right by indent, unless s is blank.
func (b *layoutBuilder) optional(cur cursor, indent float64, s string, f Font) cursor {
	if strings.TrimSpace(s) == "" {
		return cur
	}
	return b.text(cur, BodyX+indent, BodyWidth-indent, s, f, Black)
}

// text wraps s to width and places it line by line from cur. A line that would
// cross the bottom margin moves to the top margin of the next page at the same x.
// It returns the position just below the last line.
func (b *layoutBuilder) text(cur cursor, x, width float64, s string, f Font, c Color) cursor {
	lh := f.LineHeight()
	for _, line := range wrapText(NormalizeText(s), width, f, b.m) {
		if cur.y+lh > PageHeight-Margin {
			cur = cursor{page: cur.page + 1, y: Margin}
		}
		if line != "" {
			b.add(Op{Kind: OpText, Page: cur.page, X: x, Y: cur.y, W: width, H: lh, Text: line, Font: f, Color: c})
		}
		cur.y += lh
	}
	return cur
}

// wrapText breaks s into lines no wider than width. Explicit newlines always
// break; words longer than a line are split between characters.
func wrapText(s string, width float64, f Font, m Measurer) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.StringWidth(candidate, f) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			for m.StringWidth(line, f) > width {
				head, rest := splitToWidth(line, width, f, m)
				lines = append(lines, head)
				line = rest
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// splitToWidth returns the longest prefix of s (at least one rune) that fits width, and the remainder.
func splitToWidth(s string, width float64, f Font, m Measurer) (string, string) {
	runes := []rune(s)
	n := 1
	for n < len(runes) && m.StringWidth(string(runes[:n+1]), f) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
