// Package extraction pulls plain text out of uploaded PDF documents.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError reports a document that could not be read.
type ExtractionError struct {
	Message string
	Page    int // 1-based; 0 when the failure is not tied to a page
	Cause   error
}

func (e *ExtractionError) Error() string {
	msg := e.Message
	if e.Page > 0 {
		msg = fmt.Sprintf("page %d: %s", e.Page, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", msg)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// document is the view of a parsed PDF the extractor needs.
type document interface {
	NumPage() int
	// Fragments returns the ordered text fragments of a 1-based page.
	Fragments(page int) ([]string, error)
}

// Extractor converts PDF bytes into a single text blob.
type Extractor struct {
	open func(data []byte) (document, error)
}

// New returns an Extractor backed by github.com/ledongthuc/pdf.
func New() *Extractor {
	return &Extractor{open: openPDF}
}

// Extract returns the text of every page in order. Fragments within a page are
// joined by a single space and pages are joined by a newline.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", &ExtractionError{Message: "document is empty"}
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	doc, err := e.open(data)
	if err != nil {
		return "", &ExtractionError{Message: "cannot parse document", Cause: err}
	}

	n := doc.NumPage()
	if n == 0 {
		return "", &ExtractionError{Message: "document has no pages"}
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fragments, err := doc.Fragments(i)
		if err != nil {
			return "", &ExtractionError{Message: "cannot read page text", Page: i, Cause: err}
		}
		pages = append(pages, joinFragments(fragments))
	}

	return strings.Join(pages, "\n"), nil
}

func joinFragments(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

type pdfDocument struct {
	r *pdf.Reader
}

func openPDF(data []byte) (document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &pdfDocument{r: r}, nil
}

func (d *pdfDocument) NumPage() int {
	return d.r.NumPage()
}

// wordGap is the TJ adjustment, in thousandths of an em, beyond which a
// positioning gap inside an array is read as a word break.
const wordGap = 200

// Fragments returns the text of a 1-based page in drawing order. Every text
// positioning operator starts a new fragment; text shown without moving the
// text position extends the current one.
func (d *pdfDocument) Fragments(page int) ([]string, error) {
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}

	encoders := make(map[string]pdf.TextEncoding)
	for _, name := range p.Fonts() {
		encoders[name] = p.Font(name).Encoder()
	}

	var (
		fragments []string
		current   strings.Builder
		enc       pdf.TextEncoding
	)
	flush := func() {
		if current.Len() > 0 {
			fragments = append(fragments, current.String())
			current.Reset()
		}
	}
	show := func(s string) {
		if enc != nil {
			s = enc.Decode(s)
		}
		current.WriteString(s)
	}

	handle := func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "BT", "Td", "TD", "Tm", "T*":
			flush()
		case "Tf":
			if len(args) == 2 {
				enc = encoders[args[0].Name()]
			}
		case "Tj":
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "'":
			flush()
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "\"":
			flush()
			if len(args) == 3 {
				show(args[2].RawString())
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			for i := 0; i < args[0].Len(); i++ {
				v := args[0].Index(i)
				switch v.Kind() {
				case pdf.String:
					show(v.RawString())
				case pdf.Integer, pdf.Real:
					if v.Float64() < -wordGap {
						current.WriteByte(' ')
					}
				}
			}
		}
	}

	// Contents is either one stream or an array of streams drawn in sequence.
	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), handle)
		}
	} else {
		pdf.Interpret(contents, handle)
	}
	flush()

	return fragments, nil
}
