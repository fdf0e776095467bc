package api

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders model answers. Raw HTML in the answer is dropped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderAnswer converts a Markdown answer to HTML. If conversion fails the
// answer is shown as escaped text.
func renderAnswer(answer string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(answer), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(answer) + "</p>")
	}
	return template.HTML(buf.String())
}
