package billing

import (
	"errors"
	"fmt"
	"time"

	"billing-backend/internal/catalog"
	"billing-backend/internal/ledger"
	"billing-backend/internal/logger"
	"billing-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service orchestrates the invoice lifecycle: totals computation, payment
// status, stock decrements and reversals, customer balance, movement logging.
// Every lifecycle operation runs its side effects inside one transaction.
type Service struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, log: logger.WithComponent("billing")}
}

type ItemInput struct {
	ProductID uint     `json:"productId"`
	Qty       float64  `json:"qty"`
	UnitPrice *float64 `json:"unitPrice"` // nil defaults to the product's current price
	Discount  float64  `json:"discount"`
}

type PaymentInput struct {
	Method      string     `json:"method"`
	Amount      float64    `json:"amount"`
	Date        *time.Time `json:"date"`
	Reference   string     `json:"reference"`
	SkipPayment bool       `json:"skipPayment"`
}

type CreateInput struct {
	Type          models.InvoiceType
	CustomerID    *uint
	Items         []ItemInput
	PaymentStatus string // requested status hint: "draft" or "issued"
	Payment       *PaymentInput
	Payments      []PaymentInput
}

type UpdateInput struct {
	Items         []ItemInput           // nil or empty leaves the lines untouched
	PaymentStatus *models.InvoiceStatus //
	Payment       *PaymentInput         // legacy single payment, appended
	Payments      *[]PaymentInput       // wholesale replacement of the payment list
	CustomerID    *uint                 // only read when SetCustomer is true; nil detaches
	SetCustomer   bool
}

// Get loads one invoice with its lines and relations, company scoped.
func (s *Service) Get(companyID, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Preload("Items").Preload("Customer").Preload("CreatedBy").
		Where("company_id = ?", companyID).First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrInvoiceNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns the newest invoices for the company, capped at 200.
func (s *Service) List(companyID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Preload("Items").Preload("Customer").
		Where("company_id = ?", companyID).
		Order("created_at desc").Limit(200).
		Find(&invoices).Error
	return invoices, err
}

// Create validates the items against the catalog, computes totals, derives the
// initial status, allocates the invoice number and applies the side effects.
func (s *Service) Create(companyID, userID uint, in CreateInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if in.Type == "" {
		in.Type = models.TypeInvoice
	}

	var inv *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, companyID).Error; err != nil {
			return err
		}

		items, subtotal, taxTotal, total, err := buildItems(tx, companyID, in.Items)
		if err != nil {
			return err
		}

		pays := in.Payments
		if len(pays) == 0 && in.Payment != nil {
			pays = []PaymentInput{*in.Payment}
		}
		skip := in.Payment != nil && in.Payment.SkipPayment
		payments := normalizePayments(pays)
		totalPaid := paymentSum(payments)

		status := resolveCreateStatus(in.Type, in.PaymentStatus, skip, len(pays) > 0, totalPaid, total)

		seq, err := NextSequence(tx, companyID, CounterInvoice)
		if err != nil {
			return err
		}
		number := FormatInvoiceNo(company.InvoicePrefix, in.Type == models.TypeQuickSale, seq)

		customerID := in.CustomerID
		if in.Type == models.TypeQuickSale {
			// quick sales are walk-in transactions, never attributed to a customer
			customerID = nil
		}

		inv = &models.Invoice{
			CompanyID:   companyID,
			InvoiceNo:   number,
			Type:        in.Type,
			Status:      status,
			Date:        time.Now(),
			CustomerID:  customerID,
			Items:       items,
			Subtotal:    subtotal,
			TaxTotal:    taxTotal,
			TotalAmount: total,
			Payments:    datatypes.JSONSlice[models.Payment](payments),
			CreatedByID: userID,
		}
		if err := tx.Create(inv).Error; err != nil {
			return err
		}

		if stockApplies(status) {
			if err := s.applyStock(tx, companyID, userID, number, items); err != nil {
				return err
			}
		}

		if customerID != nil && balanceApplies(status) {
			if err := s.adjustBalance(tx, companyID, *customerID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("company_id", companyID).
		Str("invoice_no", inv.InvoiceNo).
		Str("status", string(inv.Status)).
		Float64("total", inv.TotalAmount).
		Msg("invoice created")
	return inv, nil
}

// Update replaces items, payments or the customer reference. Items are
// replaced wholesale: the previous stock effect is reversed first, totals are
// recomputed, and stock is re-applied for the resulting status. A supplied
// payments array replaces the list and re-derives the status.
func (s *Service) Update(companyID, userID, id uint, in UpdateInput) (*models.Invoice, error) {
	var result *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		err := tx.Preload("Items").Where("company_id = ?", companyID).First(&inv, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrInvoiceNotFound, id)
		}
		if err != nil {
			return err
		}

		if err := CheckEditable(&inv); err != nil {
			return err
		}

		prevStatus := inv.Status
		prevTotal := inv.TotalAmount
		prevCustomer := inv.CustomerID

		if len(in.Items) > 0 {
			// undo the old decrement before the line items are replaced
			if stockApplies(prevStatus) {
				if err := s.revertStock(tx, companyID, userID, inv.InvoiceNo, inv.Items); err != nil {
					return err
				}
			}

			items, subtotal, taxTotal, total, err := buildItems(tx, companyID, in.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].InvoiceID = inv.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			inv.Items = items
			inv.Subtotal = subtotal
			inv.TaxTotal = taxTotal
			inv.TotalAmount = total

			next := prevStatus
			if in.PaymentStatus != nil {
				next = *in.PaymentStatus
			}
			if stockApplies(next) {
				if err := s.applyStock(tx, companyID, userID, inv.InvoiceNo, items); err != nil {
					return err
				}
			}
		}

		if in.PaymentStatus != nil {
			inv.Status = *in.PaymentStatus
		}

		if in.SetCustomer {
			// reverse the old customer's balance, then apply the new one
			if prevCustomer != nil && prevTotal != 0 && balanceApplies(prevStatus) {
				if err := s.adjustBalance(tx, companyID, *prevCustomer, -prevTotal); err != nil {
					return err
				}
			}
			inv.CustomerID = in.CustomerID
			inv.Customer = nil
			if in.CustomerID != nil && balanceApplies(inv.Status) {
				if err := s.adjustBalance(tx, companyID, *in.CustomerID, inv.TotalAmount); err != nil {
					return err
				}
			}
		}

		if in.Payments != nil {
			payments := normalizePayments(*in.Payments)
			inv.Payments = datatypes.JSONSlice[models.Payment](payments)
			inv.Status = DeriveStatus(paymentSum(payments), inv.TotalAmount)
		} else if in.Payment != nil && !in.Payment.SkipPayment {
			appended := append([]models.Payment(inv.Payments), normalizePayments([]PaymentInput{*in.Payment})...)
			inv.Payments = appended
			paid := decimal.NewFromFloat(paymentSum(appended))
			total := decimal.NewFromFloat(inv.TotalAmount)
			if paid.GreaterThanOrEqual(total) {
				inv.Status = models.StatusPaid
			} else if paid.GreaterThan(decimal.Zero) {
				inv.Status = models.StatusPartiallyPaid
			}
		}

		if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
			return err
		}
		result = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("company_id", companyID).
		Str("invoice_no", result.InvoiceNo).
		Str("status", string(result.Status)).
		Msg("invoice updated")
	return result, nil
}

// Cancel is the terminal, one-way transition. It restores the stock of every
// line item and reverses the customer balance, then freezes the invoice.
func (s *Service) Cancel(companyID, userID, id uint) (*models.Invoice, error) {
	var result *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		err := tx.Preload("Items").Where("company_id = ?", companyID).First(&inv, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrInvoiceNotFound, id)
		}
		if err != nil {
			return err
		}

		if inv.Status == models.StatusCancelled {
			return ErrAlreadyCancelled
		}

		if stockApplies(inv.Status) {
			if err := s.revertStock(tx, companyID, userID, inv.InvoiceNo, inv.Items); err != nil {
				return err
			}
		}

		if inv.CustomerID != nil && inv.TotalAmount != 0 && balanceApplies(inv.Status) {
			if err := s.adjustBalance(tx, companyID, *inv.CustomerID, -inv.TotalAmount); err != nil {
				return err
			}
		}

		inv.Status = models.StatusCancelled
		if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
			return err
		}
		result = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("company_id", companyID).
		Str("invoice_no", result.InvoiceNo).
		Msg("invoice cancelled")
	return result, nil
}

// Delete removes an invoice outright. Paid invoices are never deleted; use
// cancellation instead. Active stock and balance effects are reversed first.
func (s *Service) Delete(companyID, userID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		err := tx.Preload("Items").Where("company_id = ?", companyID).First(&inv, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrInvoiceNotFound, id)
		}
		if err != nil {
			return err
		}

		if inv.Status == models.StatusPaid {
			return ErrDeletePaid
		}

		if stockApplies(inv.Status) {
			if err := s.revertStock(tx, companyID, userID, inv.InvoiceNo, inv.Items); err != nil {
				return err
			}
		}

		if inv.CustomerID != nil && inv.TotalAmount != 0 && balanceApplies(inv.Status) {
			if err := s.adjustBalance(tx, companyID, *inv.CustomerID, -inv.TotalAmount); err != nil {
				return err
			}
		}

		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}

// ConvertQuotation copies a quotation's stored line items into a new issued
// invoice, carrying customer and totals verbatim. Conversion performs no stock
// or balance side effects: a quotation is non-binding until the invoice is
// separately settled or edited through the normal lifecycle.
func (s *Service) ConvertQuotation(companyID, userID, quoteID uint) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quote models.Quotation
		err := tx.Preload("Items").Where("company_id = ?", companyID).First(&quote, quoteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrQuotationNotFound, quoteID)
		}
		if err != nil {
			return err
		}

		var company models.Company
		if err := tx.First(&company, companyID).Error; err != nil {
			return err
		}

		seq, err := NextSequence(tx, companyID, CounterInvoice)
		if err != nil {
			return err
		}

		items := make([]models.InvoiceItem, 0, len(quote.Items))
		for _, qi := range quote.Items {
			items = append(items, models.InvoiceItem{
				ProductID: qi.ProductID,
				Name:      qi.Name,
				Qty:       qi.Qty,
				UnitPrice: qi.UnitPrice,
				Total:     qi.Total,
			})
		}

		inv = &models.Invoice{
			CompanyID:   companyID,
			InvoiceNo:   FormatInvoiceNo(company.InvoicePrefix, false, seq),
			Type:        models.TypeInvoice,
			Status:      models.StatusIssued,
			Date:        time.Now(),
			CustomerID:  quote.CustomerID,
			Items:       items,
			Subtotal:    quote.Subtotal,
			TaxTotal:    quote.TaxTotal,
			TotalAmount: quote.TotalAmount,
			CreatedByID: userID,
		}
		return tx.Create(inv).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("company_id", companyID).
		Uint("quotation_id", quoteID).
		Str("invoice_no", inv.InvoiceNo).
		Msg("quotation converted to invoice")
	return inv, nil
}

// -------------------------
// Internals
// -------------------------

// buildItems looks up every product within the company, snapshots name, price
// and tax rate, and aggregates the invoice totals.
func buildItems(tx *gorm.DB, companyID uint, inputs []ItemInput) ([]models.InvoiceItem, float64, float64, float64, error) {
	items := make([]models.InvoiceItem, 0, len(inputs))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	for _, it := range inputs {
		prod, err := catalog.FindProduct(tx, companyID, it.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductMissing) {
				return nil, 0, 0, 0, fmt.Errorf("%w: %d", ErrProductNotFound, it.ProductID)
			}
			return nil, 0, 0, 0, err
		}

		unitPrice := prod.Price
		if it.UnitPrice != nil {
			unitPrice = *it.UnitPrice
		}

		sub, tax, total := LineAmounts(unitPrice, it.Qty, prod.TaxRate, it.Discount)
		subtotal = subtotal.Add(decimal.NewFromFloat(sub))
		taxTotal = taxTotal.Add(decimal.NewFromFloat(tax))

		items = append(items, models.InvoiceItem{
			ProductID: prod.ID,
			Name:      prod.Name,
			Qty:       it.Qty,
			UnitPrice: unitPrice,
			TaxRate:   prod.TaxRate,
			Discount:  it.Discount,
			Total:     total,
		})
	}

	sub := subtotal.Round(2)
	tax := taxTotal.Round(2)
	grand := sub.Add(tax)
	return items, sub.InexactFloat64(), tax.InexactFloat64(), grand.InexactFloat64(), nil
}

// normalizePayments drops skip-payment markers, stamps ids and default dates.
func normalizePayments(inputs []PaymentInput) []models.Payment {
	payments := make([]models.Payment, 0, len(inputs))
	for _, p := range inputs {
		if p.SkipPayment {
			continue
		}
		date := time.Now()
		if p.Date != nil {
			date = *p.Date
		}
		payments = append(payments, models.Payment{
			ID:        uuid.NewString(),
			Method:    p.Method,
			Amount:    p.Amount,
			Date:      date,
			Reference: p.Reference,
		})
	}
	return payments
}

func paymentSum(payments []models.Payment) float64 {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(decimal.NewFromFloat(p.Amount))
	}
	return sum.InexactFloat64()
}

// applyStock decrements stock for every line and logs an "out" movement
// referencing the invoice number.
func (s *Service) applyStock(tx *gorm.DB, companyID, userID uint, invoiceNo string, items []models.InvoiceItem) error {
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		if _, err := catalog.AdjustStock(tx, companyID, it.ProductID, -it.Qty); err != nil {
			return err
		}
		if err := catalog.LogMovement(tx, &models.StockMovement{
			CompanyID: companyID,
			ProductID: it.ProductID,
			Type:      models.MovementOut,
			Qty:       it.Qty,
			Reference: invoiceNo,
			ByUserID:  userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// revertStock restores stock for every line and logs a symmetric "in"
// movement, keeping the audit trail two-sided.
func (s *Service) revertStock(tx *gorm.DB, companyID, userID uint, invoiceNo string, items []models.InvoiceItem) error {
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		if _, err := catalog.AdjustStock(tx, companyID, it.ProductID, it.Qty); err != nil {
			return err
		}
		if err := catalog.LogMovement(tx, &models.StockMovement{
			CompanyID: companyID,
			ProductID: it.ProductID,
			Type:      models.MovementIn,
			Qty:       it.Qty,
			Reference: invoiceNo,
			ByUserID:  userID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) adjustBalance(tx *gorm.DB, companyID, customerID uint, delta float64) error {
	err := ledger.AdjustBalance(tx, companyID, customerID, delta)
	if errors.Is(err, ledger.ErrCustomerMissing) {
		return fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}
	return err
}
