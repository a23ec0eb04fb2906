package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

var templateFuncs = map[string]any{
	"price":  formatPrice,
	"money":  formatMoney,
	"label":  statusLabel,
	"signed": func(v int) string { return fmt.Sprintf("%+d", v) },
}

const emailTextTemplate = `Rent watch report for {{.Date}}

{{.Summary.New}} new, {{.Summary.Increased}} increased, {{.Summary.Decreased}} decreased, {{.Summary.Removed}} removed, {{.Summary.Unchanged}} unchanged
{{range .Plans}}
{{.PlanName}} ({{.TotalUnits}} units{{with .PriceRange}}, {{money .Min}} to {{money .Max}}{{end}})
{{- range .Units}}
  [{{label .Status}}] {{.IdentityKey}} {{price .CurrentPrice}}{{if .PreviousPrice}} (was {{price .PreviousPrice}}{{if .Difference}}, {{signed .Difference}}{{end}}){{end}} {{.Availability}}
{{- end}}
{{end}}`

const emailHTMLTemplate = `<html>
<body style="font-family: sans-serif; color: #222;">
<h2>Rent watch report for {{.Date}}</h2>
<p>
{{.Summary.New}} new &middot; {{.Summary.Increased}} increased &middot; {{.Summary.Decreased}} decreased &middot; {{.Summary.Removed}} removed &middot; {{.Summary.Unchanged}} unchanged
</p>
{{range .Plans}}
<h3>{{.PlanName}} ({{.TotalUnits}} units{{with .PriceRange}}, {{money .Min}} to {{money .Max}}{{end}})</h3>
<table cellpadding="4" cellspacing="0" border="1" style="border-collapse: collapse;">
<tr><th>Status</th><th>Unit</th><th>Price</th><th>Previous</th><th>Change</th><th>Availability</th></tr>
{{- range .Units}}
<tr>
<td>{{label .Status}}</td>
<td>{{.IdentityKey}}</td>
<td>{{price .CurrentPrice}}</td>
<td>{{price .PreviousPrice}}</td>
<td>{{if .Difference}}{{signed .Difference}}{{end}}</td>
<td>{{.Availability}}</td>
</tr>
{{- end}}
</table>
{{end}}
</body>
</html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("email").Funcs(templateFuncs).Parse(emailTextTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("email").Funcs(templateFuncs).Parse(emailHTMLTemplate))
)

// EmailText renders the plain-text body of a notification email.
func EmailText(report *domain.ReportSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.String(), nil
}

// EmailHTML renders the HTML body of a notification email. Page-derived
// strings (unit ids, availability text) go through html/template escaping.
func EmailHTML(report *domain.ReportSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.String(), nil
}
