package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a recognized document format.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// Parser converts raw document bytes into plain text.
type Parser interface {
	Parse(data []byte) (string, error)
}

// ErrUnsupportedFormat is returned for filenames whose suffix is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ParseError reports a recognized file that could not be parsed.
type ParseError struct {
	Format   Format
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Format, e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// suffixes is the upload contract: every accepted extension and the parser
// it routes to, in display order.
var suffixes = []struct {
	suffix string
	format Format
}{
	{".txt", FormatText},
	{".pdf", FormatPDF},
	{".doc", FormatDOCX},
	{".docx", FormatDOCX},
	{".html", FormatHTML},
	{".htm", FormatHTML},
}

// Extensions returns the accepted file extensions, dot included.
func Extensions() []string {
	exts := make([]string, len(suffixes))
	for i, s := range suffixes {
		exts[i] = s.suffix
	}
	return exts
}

// Detect returns the format for a filename based on its suffix only.
func Detect(filename string) (Format, error) {
	name := strings.ToLower(filename)
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	format, err := Detect(filename)
	if err != nil {
		return nil, err
	}
	return forFormat(format), nil
}

func forFormat(f Format) Parser {
	switch f {
	case FormatPDF:
		return &PDFParser{}
	case FormatDOCX:
		return &DOCXParser{}
	case FormatHTML:
		return &HTMLParser{}
	default:
		return &TextParser{}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := Detect(filename)
	return err == nil
}

// Extract returns the plain text of a document. Unknown suffixes yield
// ErrUnsupportedFormat regardless of content; recognized files that fail to
// parse yield a *ParseError.
func Extract(data []byte, filename string) (text string, err error) {
	format, err := Detect(filename)
	if err != nil {
		return "", err
	}

	// pdf and docx decoders can panic on hostile input.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ParseError{Format: format, Filename: filename, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	text, err = forFormat(format).Parse(data)
	if err != nil {
		return "", &ParseError{Format: format, Filename: filename, Err: err}
	}
	return text, nil
}

// Extractor exposes Extract as a value for dependency injection.
type Extractor struct{}

func (Extractor) Extract(data []byte, filename string) (string, error) {
	return Extract(data, filename)
}
