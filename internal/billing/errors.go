package billing

import "errors"

// Sentinel errors let handlers map domain failures to HTTP statuses with
// errors.Is. Product/customer/invoice lookups wrap these with the offending id.
var (
	ErrNoItems           = errors.New("invoice must have at least one item")
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrQuotationNotFound = errors.New("quotation not found")

	ErrInvoiceCancelled = errors.New("cannot edit a cancelled invoice")
	ErrInvoicePaid      = errors.New("cannot edit a paid invoice (only quick sales can be edited when paid)")
	ErrAlreadyCancelled = errors.New("invoice is already cancelled")
	ErrDeletePaid       = errors.New("cannot delete a paid invoice")
)

// IsNotFound reports whether err is one of the lookup failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrQuotationNotFound)
}

// IsInvalidState reports whether err is a rejected lifecycle transition.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvoiceCancelled) ||
		errors.Is(err, ErrInvoicePaid) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrDeletePaid)
}
