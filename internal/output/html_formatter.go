package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/finbrook/dscrgo/internal/service"
)

// HTMLFormatter produces a standalone HTML report for sharing outside the
// terminal.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercent,
	"rate": FormatRate,
	"bps":  FormatBPS,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(eval *service.Evaluation) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*service.Evaluation
		Assumptions []string
	}{eval, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
