package ledger

import (
	"errors"

	"billing-backend/internal/models"

	"gorm.io/gorm"
)

// ErrCustomerMissing is returned when a balance mutation targets a customer
// that does not exist within the company.
var ErrCustomerMissing = errors.New("customer not found")

// AdjustBalance applies delta to the customer's running balance with a single
// atomic UPDATE.
func AdjustBalance(tx *gorm.DB, companyID, customerID uint, delta float64) error {
	res := tx.Model(&models.Customer{}).
		Where("id = ? AND company_id = ?", customerID, companyID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerMissing
	}
	return nil
}
