package codec

import (
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

const htmlTemplate = `{{define "value"}}` +
	`{{if kindIs "map" .}}<dl>{{range $k, $v := .}}<dt>{{$k}}</dt><dd>{{template "value" $v}}</dd>{{end}}</dl>` +
	`{{else if kindIs "slice" .}}<ol>{{range .}}<li>{{template "value" .}}</li>{{end}}</ol>` +
	`{{else if eq (kindOf .) "invalid"}}<em>null</em>` +
	`{{else}}{{toString .}}{{end}}{{end}}` +
	`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{template "value" .Data}}
</body>
</html>
`

type htmlCodec struct {
	title string
	tmpl  *template.Template
}

// HTML renders text/html as a nested definition list.
func HTML(title string) (Renderer, error) {
	tmpl, err := template.New("html").Funcs(sprig.HtmlFuncMap()).Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}
	return htmlCodec{title: title, tmpl: tmpl}, nil
}

func (htmlCodec) MediaType() string { return "text/html" }
func (htmlCodec) Format() string    { return "html" }

func (h htmlCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	return h.tmpl.Execute(w, struct {
		Title string
		Data  any
	}{Title: h.title, Data: v})
}
