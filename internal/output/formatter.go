// Package output renders evaluations for the CLI. Formatters are pluggable
// by name: the console form is the underwriter's report, summary is a
// one-screen digest, JSON and CSV feed scripts and spreadsheets.
package output

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/service"
)

// Formatter renders one evaluation as a finished document.
type Formatter interface {
	Name() string
	Format(eval *service.Evaluation) ([]byte, error)
}

// BatchFormatter is implemented by formatters with a native multi-result
// form (one CSV table, one JSON array). Others are concatenated.
type BatchFormatter interface {
	FormatBatch(evals []*service.Evaluation) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(eval *service.Evaluation) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(eval *service.Evaluation) ([]byte, error) { return f.F(eval) }

var formatters = []Formatter{
	ConsoleFormatter{},
	SummaryFormatter{},
	JSONFormatter{Pretty: true},
	CSVFormatter{},
	HTMLFormatter{},
}

// Aliases accepted by --format in addition to the canonical names.
var formatAliases = map[string]string{
	"table":   "console",
	"verbose": "console",
	"short":   "summary",
}

// GetFormatterByName resolves a formatter by canonical name or alias,
// returning nil when nothing matches.
func GetFormatterByName(name string) Formatter {
	if canonical, ok := formatAliases[name]; ok {
		name = canonical
	}
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted aliases.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders eval with f and writes it to a timestamped report
// file, returning the filename.
func WriteFormatted(f Formatter, eval *service.Evaluation, extension string) (string, error) {
	data, err := f.Format(eval)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("underwriting_report_%s.%s", time.Now().Format("20060102_150405"), extension)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// FormatBatch renders several evaluations with f, using the formatter's
// native batch form when it has one.
func FormatBatch(f Formatter, evals []*service.Evaluation) ([]byte, error) {
	if bf, ok := f.(BatchFormatter); ok {
		return bf.FormatBatch(evals)
	}

	var buf bytes.Buffer
	for i, eval := range evals {
		if i > 0 {
			buf.WriteByte('\n')
		}
		out, err := f.Format(eval)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// FormatCurrency renders a Money amount, e.g. "$3,069.79".
func FormatCurrency(m domain.Money) string {
	return m.String()
}

// FormatPercent renders a fraction as a percentage, e.g. 0.05 -> "5.0%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatLTV renders a loan-to-value that is already in percent units.
func FormatLTV(ltv float64) string {
	return fmt.Sprintf("%.1f%%", ltv)
}

// FormatRate renders an annual rate in percent units, e.g. "7.375%".
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(3) + "%"
}

// FormatBPS renders a signed basis-point adjustment, e.g. "+50 bps".
func FormatBPS(bps int) string {
	return fmt.Sprintf("%+d bps", bps)
}
