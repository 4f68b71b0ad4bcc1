package billing

import (
	"testing"

	"billing-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  float64
		total float64
		want  models.InvoiceStatus
	}{
		{"fully paid", 236, 236, models.StatusPaid},
		{"overpaid", 300, 236, models.StatusPaid},
		{"partial", 100, 236, models.StatusPartiallyPaid},
		{"nothing paid", 0, 236, models.StatusIssued},
		{"zero total zero paid", 0, 0, models.StatusPaid},
		{"cent short stays partial", 235.99, 236, models.StatusPartiallyPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.paid, tt.total))
		})
	}
}

func TestResolveCreateStatus(t *testing.T) {
	tests := []struct {
		name        string
		invType     models.InvoiceType
		requested   string
		skipPayment bool
		hasPayments bool
		paid        float64
		total       float64
		want        models.InvoiceStatus
	}{
		{"quick sale always paid", models.TypeQuickSale, "", false, true, 0, 100, models.StatusPaid},
		{"skip payment forces draft", models.TypeInvoice, "", true, false, 0, 100, models.StatusDraft},
		{"requested draft without payments", models.TypeInvoice, "draft", false, false, 0, 100, models.StatusDraft},
		{"requested draft with partial payment", models.TypeInvoice, "draft", false, true, 40, 100, models.StatusPartiallyPaid},
		{"full payment", models.TypeInvoice, "", false, true, 100, 100, models.StatusPaid},
		{"partial payment", models.TypeSale, "", false, true, 60, 100, models.StatusPartiallyPaid},
		{"no payments defaults to issued", models.TypeInvoice, "", false, false, 0, 100, models.StatusIssued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCreateStatus(tt.invType, tt.requested, tt.skipPayment, tt.hasPayments, tt.paid, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckEditable(t *testing.T) {
	err := CheckEditable(&models.Invoice{Status: models.StatusCancelled})
	assert.ErrorIs(t, err, ErrInvoiceCancelled)

	err = CheckEditable(&models.Invoice{Status: models.StatusPaid, Type: models.TypeInvoice})
	assert.ErrorIs(t, err, ErrInvoicePaid)

	assert.NoError(t, CheckEditable(&models.Invoice{Status: models.StatusPaid, Type: models.TypeQuickSale}))
	assert.NoError(t, CheckEditable(&models.Invoice{Status: models.StatusIssued, Type: models.TypeInvoice}))
	assert.NoError(t, CheckEditable(&models.Invoice{Status: models.StatusDraft, Type: models.TypeInvoice}))
}

func TestStockAndBalanceApply(t *testing.T) {
	assert.False(t, stockApplies(models.StatusDraft))
	assert.False(t, stockApplies(models.StatusCancelled))
	assert.True(t, stockApplies(models.StatusIssued))
	assert.True(t, stockApplies(models.StatusPartiallyPaid))
	assert.True(t, stockApplies(models.StatusPaid))

	assert.False(t, balanceApplies(models.StatusDraft))
	assert.False(t, balanceApplies(models.StatusCancelled))
	assert.True(t, balanceApplies(models.StatusIssued))
	assert.True(t, balanceApplies(models.StatusPartiallyPaid))
	assert.True(t, balanceApplies(models.StatusPaid))
}
