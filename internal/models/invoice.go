package models

import (
	"time"

	"gorm.io/datatypes"
)

type InvoiceType string

const (
	TypeInvoice   InvoiceType = "invoice"
	TypeSale      InvoiceType = "sale"
	TypeQuickSale InvoiceType = "quick_sale"
)

type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "draft"
	StatusIssued        InvoiceStatus = "issued"
	StatusPaid          InvoiceStatus = "paid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusCancelled     InvoiceStatus = "cancelled"
)

// Payment is embedded in the invoice's payments JSONB column. Payments have no
// lifecycle of their own, the list is only appended to or replaced wholesale.
type Payment struct {
	ID        string    `json:"id"`
	Method    string    `json:"method"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	Reference string    `json:"reference,omitempty"`
}

type Invoice struct {
	ID         uint        `gorm:"primaryKey"`
	CompanyID  uint        `gorm:"index;not null"`
	InvoiceNo  string      `gorm:"size:30;index;not null"`
	Type       InvoiceType `gorm:"size:20;not null;default:invoice"`
	Status     InvoiceStatus `gorm:"size:20;not null;default:issued"`
	Date       time.Time   `gorm:"not null"`
	CustomerID *uint       `gorm:"index"`
	Customer   *Customer
	Items      []InvoiceItem `gorm:"constraint:OnDelete:CASCADE"`
	Subtotal   float64       `gorm:"not null"`
	TaxTotal   float64       `gorm:"not null"`
	// TotalAmount == Subtotal + TaxTotal after every mutation.
	TotalAmount float64                       `gorm:"not null"`
	Payments    datatypes.JSONSlice[Payment]
	CreatedByID uint `gorm:"not null"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem snapshots name, unit price and tax rate so historical invoices are
// immune to later product edits.
type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Name      string  `gorm:"size:150;not null"`
	Qty       float64 `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
	TaxRate   float64 `gorm:"not null"` // percent
	Discount  float64 `gorm:"not null;default:0"`
	Total     float64 `gorm:"not null"` // qty*unitPrice*(1+taxRate/100) - discount
}

// PaidTotal sums the attached payments.
func (inv *Invoice) PaidTotal() float64 {
	var sum float64
	for _, p := range inv.Payments {
		sum += p.Amount
	}
	return sum
}
