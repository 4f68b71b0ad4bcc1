package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TotalLine is one priced row for totals computation.
type TotalLine struct {
	UnitPrice float64  `json:"unitPrice"`
	Qty       float64  `json:"qty"`
	TaxRate   *float64 `json:"taxRate"` // nil falls back to the default rate, 0 means tax exempt
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums a list of priced lines. Money arithmetic runs on decimals
// and each figure is rounded half-up to cents; Total is the sum of the rounded
// Subtotal and Tax so Total == Subtotal + Tax holds exactly.
func ComputeTotals(lines []TotalLine, defaultTaxRate float64) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero

	for _, l := range lines {
		lineSub := decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromFloat(l.Qty))
		subtotal = subtotal.Add(lineSub)

		rate := defaultTaxRate
		if l.TaxRate != nil {
			rate = *l.TaxRate
		}
		if rate > 0 {
			tax = tax.Add(lineSub.Mul(decimal.NewFromFloat(rate)).Div(hundred))
		}
	}

	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	total := subtotal.Add(tax)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// LineAmounts computes one invoice line: subtotal = unitPrice*qty,
// tax = taxRate% of subtotal, total = subtotal + tax - discount.
func LineAmounts(unitPrice, qty, taxRate, discount float64) (sub, tax, total float64) {
	s := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromFloat(qty))
	t := s.Mul(decimal.NewFromFloat(taxRate)).Div(hundred)
	tot := s.Add(t).Sub(decimal.NewFromFloat(discount))
	return s.Round(2).InexactFloat64(), t.Round(2).InexactFloat64(), tot.Round(2).InexactFloat64()
}
