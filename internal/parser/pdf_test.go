package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry. An empty
// entry produces a page whose content stream draws no text.
func buildPDF(pages ...string) []byte {
	var objects []string
	// 1: catalog, 2: pages, 3: font, then page/content pairs.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i*2)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+i*2),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFParser_ExtractsPageText(t *testing.T) {
	p := &PDFParser{}
	text, err := p.Parse(buildPDF("Hello PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Hello PDF") {
		t.Errorf("expected text to contain %q, got %q", "Hello PDF", text)
	}
}

func TestPDFParser_JoinsPagesWithNewline(t *testing.T) {
	p := &PDFParser{}
	text, err := p.Parse(buildPDF("PageOne", "PageTwo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	one := strings.Index(text, "PageOne")
	two := strings.Index(text, "PageTwo")
	if one < 0 || two < 0 || two < one {
		t.Fatalf("expected both pages in order, got %q", text)
	}
	if !strings.Contains(text[one:two], "\n") {
		t.Errorf("expected a newline between pages, got %q", text)
	}
}

func TestPDFParser_EmptyPageIsNotAnError(t *testing.T) {
	p := &PDFParser{}
	text, err := p.Parse(buildPDF(""))
	if err != nil {
		t.Fatalf("a page without text must not fail: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestPDFParser_MalformedInput(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse([]byte("this is not a pdf"))
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestExtract_MalformedPDFIsParseFailure(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf"), "paper.pdf")

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Format != FormatPDF {
		t.Errorf("expected format %q, got %q", FormatPDF, parseErr.Format)
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("malformed pdf must not be reported as unsupported format")
	}
}
