package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocument struct {
	pages    [][]string
	failPage int
	panicMsg string
}

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) Fragments(page int) ([]string, error) {
	if d.panicMsg != "" {
		panic(d.panicMsg)
	}
	if page == d.failPage {
		return nil, errors.New("bad content stream")
	}
	return d.pages[page-1], nil
}

func fakeExtractor(doc *fakeDocument, openErr error) *Extractor {
	return &Extractor{open: func([]byte) (document, error) {
		if openErr != nil {
			return nil, openErr
		}
		return doc, nil
	}}
}

func TestExtract_JoinsFragmentsAndPages(t *testing.T) {
	e := fakeExtractor(&fakeDocument{pages: [][]string{
		{"Jane Doe", "Software Engineer", "Acme Corp"},
		{"Education", "BSc Computer Science"},
		{"References available"},
	}}, nil)

	text, err := e.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Software Engineer Acme Corp\nEducation BSc Computer Science\nReferences available", text)
}

func TestExtract_PreservesEmptyPages(t *testing.T) {
	e := fakeExtractor(&fakeDocument{pages: [][]string{{"one"}, nil, {"  ", "three"}}}, nil)

	text, err := e.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "one\n\nthree", text)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		doc      *fakeDocument
		openErr  error
		wantPage int
		wantMsg  string
	}{
		{name: "empty input", data: nil, doc: &fakeDocument{}, wantMsg: "document is empty"},
		{name: "unparseable", data: []byte("x"), openErr: errors.New("not a PDF file"), wantMsg: "cannot parse document"},
		{name: "no pages", data: []byte("x"), doc: &fakeDocument{}, wantMsg: "no pages"},
		{name: "bad page", data: []byte("x"), doc: &fakeDocument{pages: [][]string{{"a"}, {"b"}}, failPage: 2}, wantPage: 2, wantMsg: "page 2"},
		{name: "parser panic", data: []byte("x"), doc: &fakeDocument{pages: [][]string{{"a"}}, panicMsg: "index out of range"}, wantMsg: "malformed document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := fakeExtractor(tt.doc, tt.openErr).Extract(context.Background(), tt.data)
			require.Error(t, err)
			assert.Empty(t, text)

			var extErr *ExtractionError
			require.True(t, errors.As(err, &extErr), "error should be ExtractionError type")
			assert.Equal(t, tt.wantPage, extErr.Page)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestExtract_ContextCanceled(t *testing.T) {
	e := fakeExtractor(&fakeDocument{pages: [][]string{{"a"}}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("%PDF"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_RealPDF(t *testing.T) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Text(50, 80, "Jane Doe")
	doc.Text(50, 120, "Software Engineer")
	doc.AddPage()
	doc.Text(50, 80, "Education")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	text, err := New().Extract(context.Background(), buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe Software Engineer\nEducation", text)
}

func TestExtract_RealPDF_KeepsDrawingOrder(t *testing.T) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()

	var want []string
	for i := 1; i <= 30; i++ {
		line := fmt.Sprintf("Line %02d", i)
		doc.Text(50, float64(60+i*20), line)
		want = append(want, line)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	text, err := New().Extract(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, " "), text)
}

func TestExtract_NotAPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("this is a plain text file, not a PDF"))

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
}
