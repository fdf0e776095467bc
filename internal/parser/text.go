package parser

import "strings"

// TextParser handles plain text files.
type TextParser struct{}

// Parse decodes data as UTF-8, dropping undecodable bytes. It never fails.
func (p *TextParser) Parse(data []byte) (string, error) {
	return decodeLossy(data), nil
}

func decodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
