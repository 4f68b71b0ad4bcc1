package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratePtr(r float64) *float64 { return &r }

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []TotalLine
		defaultRate  float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "single line default rate",
			lines:        []TotalLine{{UnitPrice: 100, Qty: 2}},
			defaultRate:  18,
			wantSubtotal: 200,
			wantTax:      36,
			wantTotal:    236,
		},
		{
			name:         "zero rate means exempt, not default",
			lines:        []TotalLine{{UnitPrice: 50, Qty: 1, TaxRate: ratePtr(0)}},
			defaultRate:  18,
			wantSubtotal: 50,
			wantTax:      0,
			wantTotal:    50,
		},
		{
			name: "mixed per-line rates",
			lines: []TotalLine{
				{UnitPrice: 100, Qty: 1, TaxRate: ratePtr(5)},
				{UnitPrice: 200, Qty: 1, TaxRate: ratePtr(12)},
			},
			defaultRate:  18,
			wantSubtotal: 300,
			wantTax:      29,
			wantTotal:    329,
		},
		{
			name:         "fractional qty rounds to cents",
			lines:        []TotalLine{{UnitPrice: 9.99, Qty: 3.5, TaxRate: ratePtr(18)}},
			defaultRate:  18,
			wantSubtotal: 34.97, // 34.965 rounds half up
			wantTax:      6.29,  // 6.2937
			wantTotal:    41.26,
		},
		{
			name:         "empty cart",
			lines:        nil,
			defaultRate:  18,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, tt.defaultRate)
			assert.Equal(t, tt.wantSubtotal, got.Subtotal, "subtotal")
			assert.Equal(t, tt.wantTax, got.Tax, "tax")
			assert.Equal(t, tt.wantTotal, got.Total, "total")
		})
	}
}

// Total must always equal the rounded subtotal plus the rounded tax, even when
// the unrounded figures would disagree in the third decimal.
func TestComputeTotalsAdditionInvariant(t *testing.T) {
	lines := []TotalLine{
		{UnitPrice: 0.33, Qty: 7, TaxRate: ratePtr(18)},
		{UnitPrice: 1.01, Qty: 3, TaxRate: ratePtr(5)},
		{UnitPrice: 12.49, Qty: 1.25, TaxRate: ratePtr(28)},
	}
	got := ComputeTotals(lines, 18)
	assert.InDelta(t, got.Subtotal+got.Tax, got.Total, 1e-9)
}

func TestLineAmounts(t *testing.T) {
	sub, tax, total := LineAmounts(100, 2, 18, 0)
	assert.Equal(t, 200.0, sub)
	assert.Equal(t, 36.0, tax)
	assert.Equal(t, 236.0, total)

	sub, tax, total = LineAmounts(100, 1, 18, 18)
	assert.Equal(t, 100.0, sub)
	assert.Equal(t, 18.0, tax)
	assert.Equal(t, 100.0, total, "discount comes off the gross line")
}

func TestFormatInvoiceNo(t *testing.T) {
	assert.Equal(t, "INV-00042", FormatInvoiceNo("INV", false, 42))
	assert.Equal(t, "INV-QS-00042", FormatInvoiceNo("INV", true, 42))
	assert.Equal(t, "ACME-00001", FormatInvoiceNo("ACME", false, 1))
	assert.Equal(t, "QUO-00007", FormatQuoteNo(7))
}
