package report

import (
	"strings"

	"github.com/mbolis/pie-reports/model"
)

// PriceLookup supplies the estimated unit price of a material type.
type PriceLookup interface {
	UnitPrice(materialType string) (float64, bool)
}

// PriceTable is a PriceLookup keyed by lower-case material type.
type PriceTable map[string]float64

func (t PriceTable) UnitPrice(materialType string) (float64, bool) {
	p, ok := t[strings.ToLower(strings.TrimSpace(materialType))]
	return p, ok
}

// hasPrices reports whether prices can price anything at all. An empty
// table, as loaded from settings without unit_prices, counts as none.
func hasPrices(prices PriceLookup) bool {
	if t, ok := prices.(PriceTable); ok {
		return len(t) > 0
	}
	return prices != nil
}

// materialValue is quantity × unit price. Materials of unpriced types are
// worth nothing in the estimate.
func materialValue(prices PriceLookup, r model.Record) (float64, bool) {
	if prices == nil {
		return 0, false
	}
	unit, ok := prices.UnitPrice(r.Text["type"])
	if !ok {
		return 0, false
	}
	return unit * r.Numbers["quantity"], true
}
