package models

import "time"

type QuotationStatus string

const (
	QuoteDraft    QuotationStatus = "draft"
	QuoteSent     QuotationStatus = "sent"
	QuoteAccepted QuotationStatus = "accepted"
	QuoteRejected QuotationStatus = "rejected"
)

type Quotation struct {
	ID          uint   `gorm:"primaryKey"`
	CompanyID   uint   `gorm:"index;not null"`
	QuoteNo     string `gorm:"size:30;index;not null"`
	Date        time.Time `gorm:"not null"`
	CustomerID  *uint     `gorm:"index"`
	Customer    *Customer
	Items       []QuotationItem `gorm:"constraint:OnDelete:CASCADE"`
	Subtotal    float64         `gorm:"not null"`
	TaxTotal    float64         `gorm:"not null"`
	TotalAmount float64         `gorm:"not null"`
	Status      QuotationStatus `gorm:"size:20;not null;default:draft"`
	CreatedByID uint            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type QuotationItem struct {
	ID          uint `gorm:"primaryKey"`
	QuotationID uint `gorm:"index;not null"`
	ProductID   uint `gorm:"index"`
	Name        string  `gorm:"size:150;not null"`
	Qty         float64 `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	Total       float64 `gorm:"not null"`
}
