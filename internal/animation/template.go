package animation

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed page.html.tmpl
var pageSource string

// The code is inlined verbatim into a <script> element, so text/template is used.
var page = template.Must(template.New("page").Parse(pageSource))

type pageData struct {
	Title  string
	Code   string
	Width  int
	Height int
}

// RenderHTML returns the standalone page playing code on a width x height canvas,
// with play/pause, reset, record and GIF download controls.
func RenderHTML(spec Spec) (string, error) {
	spec = spec.withDefaults()
	title := spec.Title
	if title == "" {
		title = DefaultTitle
	}
	var b strings.Builder
	err := page.Execute(&b, pageData{Title: title, Code: spec.Code, Width: spec.Width, Height: spec.Height})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
