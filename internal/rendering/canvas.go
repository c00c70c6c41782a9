package rendering

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// Canvas is a drawing surface that receives pages in order.
type Canvas interface {
	Measurer
	AddPage()
	FillRect(x, y, w, h float64, c Color)
	Line(x1, y1, x2, y2, width float64, c Color)
	// Text draws a single line whose box has its top-left corner at (x, y).
	Text(x, y, lineHeight float64, s string, f Font, c Color)
	// Output writes the finished document.
	Output(w io.Writer) error
}

const fontFamily = "Helvetica"

// PDFCanvas draws onto a US Letter fpdf document using the core Helvetica fonts.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas creates an empty Letter-size document measured in points.
func NewPDFCanvas() *PDFCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)
	pdf.SetCellMargin(0)
	pdf.SetCreator("AI Resume Enhancer", true)

	return &PDFCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) setFont(f Font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, f.Size)
}

// StringWidth returns the width of s in points when set in f.
func (c *PDFCanvas) StringWidth(s string, f Font) float64 {
	c.setFont(f)
	return c.pdf.GetStringWidth(c.tr(s))
}

// AddPage starts a new page.
func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

// FillRect fills a rectangle with c.
func (c *PDFCanvas) FillRect(x, y, w, h float64, col Color) {
	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.Rect(x, y, w, h, "F")
}

// Line strokes a straight line.
func (c *PDFCanvas) Line(x1, y1, x2, y2, width float64, col Color) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

// Text draws one line of text left aligned in a box of lineHeight.
func (c *PDFCanvas) Text(x, y, lineHeight float64, s string, f Font, col Color) {
	c.setFont(f)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(0, lineHeight, c.tr(s), "", 0, "L", false, 0, "")
}

// Output writes the PDF to w. Errors recorded while drawing are returned here.
func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return err
	}
	return c.pdf.Output(w)
}
