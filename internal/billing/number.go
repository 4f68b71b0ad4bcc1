package billing

import (
	"errors"
	"fmt"

	"billing-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter names for NextSequence.
const (
	CounterInvoice   = "invoice"
	CounterQuotation = "quotation"
)

const quickSaleInfix = "QS"

// FormatInvoiceNo renders a tenant-scoped invoice number, e.g. INV-00042.
// Quick sales carry a distinguishing infix: INV-QS-00042.
func FormatInvoiceNo(prefix string, quickSale bool, seq int64) string {
	if quickSale {
		return fmt.Sprintf("%s-%s-%05d", prefix, quickSaleInfix, seq)
	}
	return fmt.Sprintf("%s-%05d", prefix, seq)
}

// FormatQuoteNo renders a quotation number, e.g. QUO-00007.
func FormatQuoteNo(seq int64) string {
	return fmt.Sprintf("QUO-%05d", seq)
}

// NextSequence increments and returns the named per-company counter. The row
// is locked for the duration of the surrounding transaction, so concurrent
// creations cannot hand out the same number.
func NextSequence(tx *gorm.DB, companyID uint, name string) (int64, error) {
	q := tx
	// sqlite (used in tests) has no row locks; its writes are serialized anyway
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ctr models.Counter
	err := q.Where("company_id = ? AND name = ?", companyID, name).First(&ctr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctr = models.Counter{CompanyID: companyID, Name: name, Value: 1}
		if err := tx.Create(&ctr).Error; err != nil {
			return 0, err
		}
		return ctr.Value, nil
	}
	if err != nil {
		return 0, err
	}

	ctr.Value++
	if err := tx.Model(&models.Counter{}).Where("id = ?", ctr.ID).Update("value", ctr.Value).Error; err != nil {
		return 0, err
	}
	return ctr.Value, nil
}
