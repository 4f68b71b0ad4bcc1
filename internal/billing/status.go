package billing

import (
	"billing-backend/internal/models"

	"github.com/shopspring/decimal"
)

// The invoice lifecycle is a small state machine:
//
//	draft -> issued -> partially_paid -> paid
//	any state except cancelled -> cancelled (terminal)
//
// Which states keep stock and customer balance applied is decided here, in one
// place, instead of scattering the conditionals over three handlers.

// DeriveStatus maps the payment sum against the invoice total. It never
// returns draft or cancelled; those are explicit states, not derived ones.
func DeriveStatus(totalPaid, totalAmount float64) models.InvoiceStatus {
	paid := decimal.NewFromFloat(totalPaid)
	total := decimal.NewFromFloat(totalAmount)

	switch {
	case paid.GreaterThanOrEqual(total):
		return models.StatusPaid
	case paid.GreaterThan(decimal.Zero):
		return models.StatusPartiallyPaid
	default:
		return models.StatusIssued
	}
}

// CheckEditable rejects edits of cancelled invoices and of paid invoices that
// are not quick sales.
func CheckEditable(inv *models.Invoice) error {
	if inv.Status == models.StatusCancelled {
		return ErrInvoiceCancelled
	}
	if inv.Status == models.StatusPaid && inv.Type != models.TypeQuickSale {
		return ErrInvoicePaid
	}
	return nil
}

// stockApplies reports whether an invoice in this status holds a stock
// decrement. Draft and cancelled invoices never touch stock.
func stockApplies(s models.InvoiceStatus) bool {
	switch s {
	case models.StatusIssued, models.StatusPaid, models.StatusPartiallyPaid:
		return true
	}
	return false
}

// balanceApplies reports whether an invoice in this status counts against the
// customer balance.
func balanceApplies(s models.InvoiceStatus) bool {
	return s != models.StatusDraft && s != models.StatusCancelled
}

// resolveCreateStatus picks the initial status for a new invoice. Quick sales
// are always paid. A skip-payment flag, or no payments with a requested draft,
// keeps the invoice a side-effect-free draft. Otherwise the status follows the
// payment sum.
func resolveCreateStatus(invType models.InvoiceType, requested string, skipPayment, hasPayments bool, totalPaid, totalAmount float64) models.InvoiceStatus {
	if invType == models.TypeQuickSale {
		return models.StatusPaid
	}
	if skipPayment || (!hasPayments && requested == "draft") {
		return models.StatusDraft
	}

	paid := decimal.NewFromFloat(totalPaid)
	total := decimal.NewFromFloat(totalAmount)
	switch {
	case paid.GreaterThanOrEqual(total):
		return models.StatusPaid
	case paid.GreaterThan(decimal.Zero):
		return models.StatusPartiallyPaid
	case requested == "draft":
		return models.StatusDraft
	default:
		return models.StatusIssued
	}
}
