package models

import "time"

type ExpenseCategory string

const (
	ExpenseOfficeSupplies ExpenseCategory = "office_supplies"
	ExpenseTravel         ExpenseCategory = "travel"
	ExpenseUtilities      ExpenseCategory = "utilities"
	ExpenseRent           ExpenseCategory = "rent"
	ExpenseMarketing      ExpenseCategory = "marketing"
	ExpenseEquipment      ExpenseCategory = "equipment"
	ExpenseMaintenance    ExpenseCategory = "maintenance"
	ExpenseInsurance      ExpenseCategory = "insurance"
	ExpenseTaxes          ExpenseCategory = "taxes"
	ExpenseOther          ExpenseCategory = "other"
)

type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayCard         PaymentMethod = "card"
	PayUpi          PaymentMethod = "upi"
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayCheque       PaymentMethod = "cheque"
)

type Expense struct {
	ID            uint   `gorm:"primaryKey"`
	CompanyID     uint   `gorm:"index;not null"`
	Description   string `gorm:"size:255;not null"`
	Amount        float64         `gorm:"not null"`
	Category      ExpenseCategory `gorm:"size:30;not null;default:other"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null;default:cash"`
	Date          time.Time       `gorm:"index;not null"`
	Reference     string          `gorm:"size:100"` // receipt number, transaction id
	Notes         string          `gorm:"size:500"`
	CreatedByID   uint            `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidExpenseCategory reports whether c is one of the known categories.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseOfficeSupplies, ExpenseTravel, ExpenseUtilities, ExpenseRent,
		ExpenseMarketing, ExpenseEquipment, ExpenseMaintenance, ExpenseInsurance,
		ExpenseTaxes, ExpenseOther:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is one of the known methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayUpi, PayBankTransfer, PayCheque:
		return true
	}
	return false
}
