package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/render"
	"github.com/mbolis/pie-reports/stats"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// numbers formats quantities and money for one locale and currency.
type numbers struct {
	printer *message.Printer
	money   currency.Unit
}

var defaultNumbers = numbers{
	printer: message.NewPrinter(language.BrazilianPortuguese),
	money:   currency.BRL,
}

// newNumbers parses a BCP 47 locale and an ISO 4217 currency code. Empty
// values keep the pt-BR / BRL defaults.
func newNumbers(locale, code string) (numbers, error) {
	n := defaultNumbers
	if locale = strings.TrimSpace(locale); locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return n, fmt.Errorf("locale %q: %w", locale, err)
		}
		n.printer = message.NewPrinter(tag)
	}
	if code = strings.TrimSpace(code); code != "" {
		unit, err := currency.ParseISO(code)
		if err != nil {
			return n, fmt.Errorf("currency %q: %w", code, err)
		}
		n.money = unit
	}
	return n, nil
}

func (n numbers) count(i int) string {
	return n.printer.Sprintf("%d", i)
}

func (n numbers) number(f float64) string {
	if f == float64(int64(f)) {
		return n.printer.Sprintf("%d", int64(f))
	}
	return n.printer.Sprintf("%.2f", f)
}

func (n numbers) amount(f float64) string {
	return n.printer.Sprint(currency.Symbol(n.money.Amount(f)))
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return render.NotSpecified
	}
	return t.Format(dateLayout)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return render.NotSpecified
	}
	return s
}

// value renders a response payload for display.
func (n numbers) value(v model.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case model.BoolValue:
		if v {
			return "Sim"
		}
		return "Não"
	case model.TextValue:
		return string(v)
	case model.NumberValue:
		return n.number(float64(v))
	case model.DateValue:
		t := time.Time(v)
		return formatDate(&t)
	case model.OptionValue:
		return string(v)
	case model.FilesValue:
		if len(v) == 0 {
			return "Nenhum arquivo"
		}
		return fmt.Sprintf("%d arquivo(s): %s", len(v), strings.Join(v, ", "))
	}
	return ""
}

func verdict(c model.Conformity) (string, model.StatusKey) {
	switch c {
	case model.Conforming:
		return "Conforme", model.KeyConforming
	case model.NonConforming:
		return "Não conforme", model.KeyNonConforming
	case model.NotApplicable:
		return "N/A", model.KeyNotApplicable
	}
	return "", model.KeyUnknown
}

func indicatorKey(i stats.Indicator) model.StatusKey {
	switch i {
	case stats.IndicatorCompleted:
		return model.KeyCompleted
	case stats.IndicatorWarning:
		return model.KeyWarning
	}
	return model.KeyPending
}

var priorityLabels = map[model.Priority]string{
	model.PriorityLow:      "Baixa",
	model.PriorityMedium:   "Média",
	model.PriorityHigh:     "Alta",
	model.PriorityCritical: "Crítica",
}

func priorityLabel(p model.Priority) string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return orNotSpecified(string(p))
}
