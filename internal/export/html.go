package export

import (
	"fmt"
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; font-size: 11px; margin: 24px; }
  h1 { font-size: 18px; margin: 0; }
  .meta { color: #555; margin: 4px 0 12px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
  th { background: #eee; }
  @media print { body { margin: 0; } thead { display: table-header-group; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">Generated {{.Generated}}{{if .Subtitle}} &middot; {{.Subtitle}}{{end}} &middot; {{len .Rows}} case(s)</div>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{else}}<tr><td colspan="{{len .Headers}}">No cases found.</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// WriteHTML writes r as a standalone printable HTML document.
func WriteHTML(w io.Writer, r Report) error {
	headers := make([]string, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header
	}
	rows := make([][]string, 0, len(r.Cases))
	for _, c := range r.Cases {
		rows = append(rows, Row(c))
	}

	data := struct {
		Title, Subtitle, Generated string
		Headers                    []string
		Rows                       [][]string
	}{r.title(), r.Subtitle, r.generated(), headers, rows}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
